package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mole-game/internal/game"
)

var testRemaining = []game.Persona{
	game.PersonaGemini, game.PersonaClaude, game.PersonaGrok,
}

func TestValidRound(t *testing.T) {
	good := []Line{
		{ModelName: "Gemini", Message: "round and juicy"},
		{ModelName: "Claude", Message: "grows on trees"},
		{ModelName: "Grok", Message: "crunchy when ripe"},
	}
	assert.True(t, ValidRound(good, testRemaining))

	cases := []struct {
		name  string
		lines []Line
	}{
		{"missing entry", good[:2]},
		{"extra entry", append(append([]Line{}, good...), Line{ModelName: "Llama", Message: "hi"})},
		{"empty message", []Line{good[0], {ModelName: "Claude", Message: ""}, good[2]}},
		{"wrong order", []Line{good[1], good[0], good[2]}},
		{"foreign speaker", []Line{good[0], {ModelName: "Copilot", Message: "hello"}, good[2]}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, ValidRound(tc.lines, testRemaining))
		})
	}
}

func TestFallback(t *testing.T) {
	lines := Fallback(testRemaining, 3)
	require.True(t, ValidRound(lines, testRemaining))

	// Deterministic: same inputs, same lines.
	assert.Equal(t, lines, Fallback(testRemaining, 3))
}

func TestStaticOrchestrator(t *testing.T) {
	lines, err := Static{}.GenerateRound(context.Background(), Request{
		Remaining: testRemaining,
		Round:     2,
	})
	require.NoError(t, err)
	assert.True(t, ValidRound(lines, testRemaining))
}

func TestExtractMessage(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"plain json", `{"message": "a hint", "internal_thought": "secret"}`, "a hint"},
		{"fenced json", "```json\n{\"message\": \"a hint\", \"internal_thought\": \"x\"}\n```", "a hint"},
		{"bare fence", "```\n{\"message\": \"a hint\"}\n```", "a hint"},
		{"not json", "just prose", "just prose"},
		{"empty message falls back to raw", `{"message": ""}`, `{"message": ""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractMessage(tc.content))
		})
	}
}

func TestExtractMessageTruncatesRaw(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, extractMessage(string(long)), 200)
}

func TestModelSlugsCoverRoster(t *testing.T) {
	for _, p := range game.PersonaList {
		assert.NotEmpty(t, modelSlugs[p], "persona %s has no model slug", p)
	}
}
