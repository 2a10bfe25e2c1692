// internal/game/types.go
//
// Core type definitions for the mole game.
// Defines:
//   - Persona: closed enumeration of the six AI contestants.
//   - Status:  lifecycle of a single player's game (in_progress/won/lost).
//   - State:   the full per-player game record carried inside the state token.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// Persona identifies one of the six AI contestants. The set is closed:
// anything outside PersonaList is rejected at the boundary rather than
// carried as a free-form string.
type Persona string

const (
	PersonaGemini   Persona = "Gemini"
	PersonaClaude   Persona = "Claude"
	PersonaChatGPT  Persona = "ChatGPT"
	PersonaGrok     Persona = "Grok"
	PersonaLlama    Persona = "Llama"
	PersonaDeepSeek Persona = "DeepSeek"
)

// PersonaList is the canonical roster, in declaration order.
// Daily turn order is a permutation of this slice.
var PersonaList = []Persona{
	PersonaGemini,
	PersonaClaude,
	PersonaChatGPT,
	PersonaGrok,
	PersonaLlama,
	PersonaDeepSeek,
}

// PersonaCount is the fixed roster size.
const PersonaCount = 6

var ErrUnknownPersona = errors.New("unknown persona")

// ParsePersona validates a client-supplied persona name.
func ParsePersona(s string) (Persona, error) {
	for _, p := range PersonaList {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPersona
}

// Status represents the lifecycle state of one player's game.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"  // player eliminated the mole
	StatusLost       Status = "lost" // mole survived to be the last persona
)

// Action is a player move submitted against the current state.
type Action string

const (
	ActionPass      Action = "PASS"
	ActionEliminate Action = "ELIMINATE"
)

// State holds one player's complete progress for the day. It is never
// stored server-side; it exists only inside a verified state token.
type State struct {
	Date       string    // YYYY-MM-DD (UTC), the puzzle this game belongs to
	Round      int       // starts at 1
	Remaining  []Persona // ordered subset of the day's turn order
	Eliminated []Persona // append-only, disjoint from Remaining
	PassUsed   bool      // settable at most once, only during round 1
	Status     Status
	Nonce      string // unique per issued token; used for replay detection
}

// NewState builds the round-1 state for a day's puzzle.
func NewState(date string, turnOrder []Persona) State {
	remaining := make([]Persona, len(turnOrder))
	copy(remaining, turnOrder)
	return State{
		Date:       date,
		Round:      1,
		Remaining:  remaining,
		Eliminated: []Persona{},
		Status:     StatusInProgress,
		Nonce:      newNonce(),
	}
}

// Validate checks the structural invariants against the day's turn order.
// Any violation means the state cannot have been produced by this server.
func (s State) Validate(turnOrder []Persona) error {
	if s.Round < 1 {
		return errors.New("round below 1")
	}
	switch s.Status {
	case StatusInProgress, StatusWon, StatusLost:
	default:
		return errors.New("unknown status")
	}
	if s.Nonce == "" {
		return errors.New("missing nonce")
	}
	if len(s.Remaining)+len(s.Eliminated) != len(turnOrder) {
		return errors.New("persona count mismatch")
	}
	seen := make(map[Persona]bool, len(turnOrder))
	for _, p := range append(append([]Persona{}, s.Remaining...), s.Eliminated...) {
		if seen[p] {
			return errors.New("duplicate persona")
		}
		seen[p] = true
	}
	for _, p := range turnOrder {
		if !seen[p] {
			return errors.New("persona missing from state")
		}
	}
	if s.Status == StatusInProgress && len(s.Remaining) == 0 {
		return errors.New("in-progress game with no personas")
	}
	return nil
}

// clone returns a deep copy so transitions never alias the verified input.
func (s State) clone() State {
	out := s
	out.Remaining = append([]Persona{}, s.Remaining...)
	out.Eliminated = append([]Persona{}, s.Eliminated...)
	return out
}

// newNonce returns a compact 16-hex-char identifier.
func newNonce() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
