// internal/game/engine.go
//
// Pure transition function for the mole game.
// Responsibilities:
//   - Validate actions against the current (already verified) state.
//   - Apply PASS / ELIMINATE semantics and advance the round counter.
//   - Decide the terminal outcome via the win evaluator.
//
// Notes:
//   - Transition never mutates its input; it returns a fresh State with a
//     fresh nonce so every issued token is distinct.
//   - The mole identity is an input here, never a field of State: it must
//     not travel inside anything client-visible until the game ends.
package game

import "errors"

var (
	// ErrInvalidAction covers PASS outside round 1, a second PASS, any
	// action on a finished game, and unrecognized action strings.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidTarget means the elimination target is not among the
	// remaining personas.
	ErrInvalidTarget = errors.New("invalid target")
)

// verdict is the win evaluator's decision for a post-elimination state.
type verdict int

const (
	verdictContinue verdict = iota
	verdictWon
	verdictLost
)

// Result describes one completed transition.
type Result struct {
	State      State
	Eliminated Persona // empty for PASS
	GameOver   bool
	Winner     string  // "USER" or "MOLE", empty while in progress
	Mole       Persona // revealed only when GameOver
}

// Transition applies one action to a verified state and returns the new
// state plus outcome. mole is the day's secret assignment; target is only
// consulted for ELIMINATE.
func Transition(s State, act Action, target Persona, mole Persona) (Result, error) {
	if s.Status != StatusInProgress {
		return Result{}, ErrInvalidAction
	}

	next := s.clone()
	next.Nonce = newNonce()

	switch act {
	case ActionPass:
		if s.Round != 1 || s.PassUsed {
			return Result{}, ErrInvalidAction
		}
		next.Round++
		next.PassUsed = true
		return Result{State: next}, nil

	case ActionEliminate:
		idx := -1
		for i, p := range s.Remaining {
			if p == target {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Result{}, ErrInvalidTarget
		}
		next.Remaining = append(next.Remaining[:idx], next.Remaining[idx+1:]...)
		next.Eliminated = append(next.Eliminated, target)

		switch evaluate(next.Remaining, mole) {
		case verdictWon:
			next.Status = StatusWon
			return Result{State: next, Eliminated: target, GameOver: true, Winner: "USER", Mole: mole}, nil
		case verdictLost:
			next.Status = StatusLost
			return Result{State: next, Eliminated: target, GameOver: true, Winner: "MOLE", Mole: mole}, nil
		default:
			next.Round++
			return Result{State: next, Eliminated: target}, nil
		}

	default:
		return Result{}, ErrInvalidAction
	}
}

// evaluate decides the game outcome from the post-removal survivors.
// Total and side-effect-free; dialogue content plays no part.
//   - Mole no longer among the survivors → the player found it.
//   - Mole is the sole survivor → it outlasted every innocent.
//   - Otherwise the game continues.
func evaluate(remaining []Persona, mole Persona) verdict {
	alive := false
	for _, p := range remaining {
		if p == mole {
			alive = true
			break
		}
	}
	if !alive {
		return verdictWon
	}
	if len(remaining) == 1 {
		return verdictLost
	}
	return verdictContinue
}

// CanPass reports whether the PASS action is currently legal.
func (s State) CanPass() bool {
	return s.Status == StatusInProgress && s.Round == 1 && !s.PassUsed
}
