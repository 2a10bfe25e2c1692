// internal/httpserver/routes_game.go
//
// The two game endpoints.
//   GET  /api/daily     → today's setup, round-1 dialogues, initial token
//   POST /api/play_turn → verify token, apply PASS/ELIMINATE, new token
//
// Every failure is fail-closed {"detail": ...} JSON: 400 for bad actions/
// targets/bodies, 401 for token integrity, 409 for replayed tokens, 503
// when the day's puzzle cannot be generated. Upstream dialogue failures
// never surface as errors; the round falls back to placeholder lines.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mole-game/internal/daily"
	"github.com/robalobadob/mole-game/internal/dialogue"
	"github.com/robalobadob/mole-game/internal/game"
	"github.com/robalobadob/mole-game/internal/token"
)

// dailyRes is returned by GET /api/daily.
type dailyRes struct {
	Date             string          `json:"date"`
	Category         string          `json:"category"`
	TurnOrder        []game.Persona  `json:"turn_order"`
	InitialStateHash string          `json:"initial_state_hash"`
	RoundNumber      int             `json:"round_number"`
	Dialogues        []dialogue.Line `json:"dialogues"`
}

// handleDaily starts a fresh game for today's puzzle. Turn order carries
// persona names only; the mole assignment stays server-side.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	p, err := s.puzzles.Get(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("daily puzzle unavailable")
		writeDetail(w, http.StatusServiceUnavailable, "Today's game is not available")
		return
	}

	st := game.NewState(p.Date, p.TurnOrder)
	lines := s.roundDialogue(r.Context(), p, st)

	tok, err := token.Issue(st, p.TokenKey)
	if err != nil {
		log.Error().Err(err).Msg("issue initial token")
		writeDetail(w, http.StatusInternalServerError, "Could not start today's game")
		return
	}

	_ = json.NewEncoder(w).Encode(dailyRes{
		Date:             p.Date,
		Category:         p.Category,
		TurnOrder:        p.TurnOrder,
		InitialStateHash: tok,
		RoundNumber:      st.Round,
		Dialogues:        lines,
	})
}

// playTurnReq is the body of POST /api/play_turn.
type playTurnReq struct {
	Action           string `json:"action"` // "PASS" | "ELIMINATE"
	CurrentStateHash string `json:"current_state_hash"`
	TargetModel      string `json:"target_model,omitempty"`
}

// playTurnRes is returned by POST /api/play_turn.
type playTurnRes struct {
	StateHash       string          `json:"state_hash"`
	RoundNumber     int             `json:"round_number"`
	RemainingModels []game.Persona  `json:"remaining_models"`
	Dialogues       []dialogue.Line `json:"dialogues"`
	GameOver        bool            `json:"game_over"`
	Winner          string          `json:"winner,omitempty"` // "USER" | "MOLE"
	CanPass         bool            `json:"can_pass"`
	EliminatedModel string          `json:"eliminated_model,omitempty"`
	MoleModel       string          `json:"mole_model,omitempty"` // revealed only at game end
}

// handlePlayTurn verifies the presented token, applies one action, and
// returns the successor state with a fresh token.
func (s *Server) handlePlayTurn(w http.ResponseWriter, r *http.Request) {
	var req playTurnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := s.puzzles.Get(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("daily puzzle unavailable")
		writeDetail(w, http.StatusServiceUnavailable, "Today's game is not available")
		return
	}

	st, err := token.Verify(req.CurrentStateHash, p.Date, p.TokenKey, p.TurnOrder)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid state token")
		return
	}

	act := game.Action(req.Action)
	var target game.Persona
	if act == game.ActionEliminate {
		if req.TargetModel == "" {
			writeDetail(w, http.StatusBadRequest, "target_model required for ELIMINATE")
			return
		}
		if target, err = game.ParsePersona(req.TargetModel); err != nil {
			writeDetail(w, http.StatusBadRequest, "Invalid target model")
			return
		}
	}

	res, err := game.Transition(st, act, target, p.Mole())
	switch {
	case errors.Is(err, game.ErrInvalidTarget):
		writeDetail(w, http.StatusBadRequest, "Invalid target model")
		return
	case errors.Is(err, game.ErrInvalidAction):
		writeDetail(w, http.StatusBadRequest, "Invalid action")
		return
	case err != nil:
		log.Error().Err(err).Msg("transition failed")
		writeDetail(w, http.StatusInternalServerError, "Could not apply turn")
		return
	}

	// Consume the nonce only once the action is known-legal: a rejected
	// request must leave the token replayable. Transition is pure, so the
	// guard stays the single synchronization point; of two concurrent
	// presentations of the same token exactly one proceeds.
	if !s.replays.Consume(p.Date, st.Nonce) {
		writeDetail(w, http.StatusConflict, "Stale state token")
		return
	}

	var lines []dialogue.Line
	if !res.GameOver {
		lines = s.roundDialogue(r.Context(), p, res.State)
	} else {
		lines = []dialogue.Line{}
	}

	tok, err := token.Issue(res.State, p.TokenKey)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		writeDetail(w, http.StatusInternalServerError, "Could not apply turn")
		return
	}

	out := playTurnRes{
		StateHash:       tok,
		RoundNumber:     res.State.Round,
		RemainingModels: res.State.Remaining,
		Dialogues:       lines,
		GameOver:        res.GameOver,
		Winner:          res.Winner,
		CanPass:         res.State.CanPass(),
		EliminatedModel: string(res.Eliminated),
	}
	if res.GameOver {
		out.MoleModel = string(res.Mole)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// roundDialogue asks the orchestrator for the round's lines and falls back
// to deterministic placeholders on failure or malformed output. Dialogue
// degradation never blocks a transition.
func (s *Server) roundDialogue(ctx context.Context, p *daily.Puzzle, st game.State) []dialogue.Line {
	lines, err := s.dialogue.GenerateRound(ctx, dialogue.Request{
		Category:   p.Category,
		SecretWord: p.SecretWord,
		DecoyWord:  p.DecoyWord,
		Mole:       p.Mole(),
		Remaining:  st.Remaining,
		Eliminated: st.Eliminated,
		Round:      st.Round,
	})
	if err != nil || !dialogue.ValidRound(lines, st.Remaining) {
		if err != nil {
			log.Warn().Err(err).Int("round", st.Round).Msg("dialogue round failed, using fallback")
		} else {
			log.Warn().Int("round", st.Round).Msg("dialogue round malformed, using fallback")
		}
		return dialogue.Fallback(st.Remaining, st.Round)
	}
	return lines
}
