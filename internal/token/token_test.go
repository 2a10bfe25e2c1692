package token

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mole-game/internal/game"
)

var testOrder = []game.Persona{
	game.PersonaGemini, game.PersonaClaude, game.PersonaChatGPT,
	game.PersonaGrok, game.PersonaLlama, game.PersonaDeepSeek,
}

const testDate = "2026-08-30"

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestRoundTrip(t *testing.T) {
	s := game.NewState(testDate, testOrder)

	tok, err := Issue(s, testKey)
	require.NoError(t, err)

	got, err := Verify(tok, testDate, testKey, testOrder)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestRoundTripMidGame(t *testing.T) {
	s := game.NewState(testDate, testOrder)
	res, err := game.Transition(s, game.ActionEliminate, game.PersonaClaude, game.PersonaGrok)
	require.NoError(t, err)

	tok, err := Issue(res.State, testKey)
	require.NoError(t, err)
	got, err := Verify(tok, testDate, testKey, testOrder)
	require.NoError(t, err)
	assert.Equal(t, res.State, got)
	assert.Equal(t, []game.Persona{game.PersonaClaude}, got.Eliminated)
}

func TestTamperRejection(t *testing.T) {
	s := game.NewState(testDate, testOrder)
	tok, err := Issue(s, testKey)
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		for _, bit := range []byte{0x01, 0x10, 0x40} {
			mutated := []byte(tok)
			mutated[i] ^= bit
			got, err := Verify(string(mutated), testDate, testKey, testOrder)
			if err == nil {
				// Base64 tolerates flips in unused trailing bits of a
				// segment's final character; those decode to the very same
				// bytes. What must never happen is a flip yielding a
				// different accepted state.
				assert.Equal(t, s, got, "flip of bit %#x at position %d accepted a different state", bit, i)
				continue
			}
			assert.ErrorIs(t, err, ErrIntegrity, "flip of bit %#x at position %d", bit, i)
		}
	}
}

func TestWrongKeyRejected(t *testing.T) {
	s := game.NewState(testDate, testOrder)
	tok, err := Issue(s, testKey)
	require.NoError(t, err)

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err = Verify(tok, testDate, otherKey, testOrder)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestWrongDateRejected(t *testing.T) {
	s := game.NewState(testDate, testOrder)
	tok, err := Issue(s, testKey)
	require.NoError(t, err)

	// Same key, different day claim: still rejected.
	_, err = Verify(tok, "2026-08-31", testKey, testOrder)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestMalformedTokens(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d", "eyJhbGciOiJub25lIn0..."} {
		_, err := Verify(tok, testDate, testKey, testOrder)
		assert.ErrorIs(t, err, ErrIntegrity, "token %q", tok)
	}
}

// A correctly signed token whose fields violate the state invariants must
// still be rejected: the signature proves origin, not coherence.
func TestSignedButInvalidStateRejected(t *testing.T) {
	cases := []struct {
		name string
		c    claims
	}{
		{"duplicate persona", claims{
			Date: testDate, Round: 2, Status: string(game.StatusInProgress), Nonce: "aabbccddeeff0011",
			Remaining:  []string{"Gemini", "Claude", "ChatGPT", "Grok", "Llama"},
			Eliminated: []string{"Gemini"},
		}},
		{"foreign persona", claims{
			Date: testDate, Round: 1, Status: string(game.StatusInProgress), Nonce: "aabbccddeeff0011",
			Remaining:  []string{"Gemini", "Claude", "ChatGPT", "Grok", "Llama", "Copilot"},
			Eliminated: []string{},
		}},
		{"round zero", claims{
			Date: testDate, Round: 0, Status: string(game.StatusInProgress), Nonce: "aabbccddeeff0011",
			Remaining:  []string{"Gemini", "Claude", "ChatGPT", "Grok", "Llama", "DeepSeek"},
			Eliminated: []string{},
		}},
		{"bogus status", claims{
			Date: testDate, Round: 1, Status: "paused", Nonce: "aabbccddeeff0011",
			Remaining:  []string{"Gemini", "Claude", "ChatGPT", "Grok", "Llama", "DeepSeek"},
			Eliminated: []string{},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc.c).SignedString(testKey)
			require.NoError(t, err)
			_, err = Verify(tok, testDate, testKey, testOrder)
			assert.ErrorIs(t, err, ErrIntegrity)
		})
	}
}

// Tokens never leak the mole: the claim set has no field for it.
func TestTokenCarriesNoMoleField(t *testing.T) {
	s := game.NewState(testDate, testOrder)
	tok, err := Issue(s, testKey)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &jwt.MapClaims{})
	require.NoError(t, err)
	c := map[string]any(*parsed.Claims.(*jwt.MapClaims))
	assert.NotContains(t, c, "mole")
	assert.NotContains(t, c, "mole_index")
	assert.NotContains(t, c, "mole_model")
}
