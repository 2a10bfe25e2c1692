// internal/dialogue/dialogue.go
//
// Dialogue orchestration boundary.
//
// The game core treats persona prose as opaque: it asks for one line per
// remaining persona and validates only the shape of what comes back.
// Generation is best-effort; the Fallback lines keep a turn completing
// when the upstream provider is slow, down, or misbehaving.

package dialogue

import (
	"context"
	"fmt"

	"github.com/robalobadob/mole-game/internal/game"
)

// Line is one persona's statement for a round.
type Line struct {
	ModelName string `json:"model_name"`
	Message   string `json:"message"`
}

// Request carries everything a provider needs to script one round.
type Request struct {
	Category   string
	SecretWord string // described by the innocents
	DecoyWord  string // described by the mole
	Mole       game.Persona
	Remaining  []game.Persona
	Eliminated []game.Persona
	Round      int
}

// Orchestrator produces one round of persona statements.
type Orchestrator interface {
	GenerateRound(ctx context.Context, req Request) ([]Line, error)
}

// ValidRound reports whether lines has exactly one non-empty entry per
// remaining persona, in turn order, with no eliminated or foreign speaker.
func ValidRound(lines []Line, remaining []game.Persona) bool {
	if len(lines) != len(remaining) {
		return false
	}
	for i, p := range remaining {
		if lines[i].ModelName != string(p) || lines[i].Message == "" {
			return false
		}
	}
	return true
}

// Fallback returns deterministic placeholder lines for a round. Used when
// generation fails or times out so game progress is never blocked.
func Fallback(remaining []game.Persona, round int) []Line {
	out := make([]Line, len(remaining))
	for i, p := range remaining {
		out[i] = Line{
			ModelName: string(p),
			Message:   fmt.Sprintf("I'll sit round %d out and let my earlier hints speak for me.", round),
		}
	}
	return out
}

// Static is an Orchestrator that always answers with the fallback lines.
// It backs local development and tests when no provider is configured.
type Static struct{}

func (Static) GenerateRound(_ context.Context, req Request) ([]Line, error) {
	return Fallback(req.Remaining, req.Round), nil
}
