// internal/store/replay.go
//
// In-process replay guard for state tokens.
//
// Every issued token carries a unique nonce. A token is spendable once:
// the first transition that presents it consumes the nonce, and any later
// presentation of the same token is rejected as stale. This stops a client
// from branching a day's game by replaying superseded tokens.
//
// The guard is advisory, per-process state with a day-bounded lifetime.
// Losing it (restart) only re-permits replays; it can never corrupt a
// game, since all authoritative state lives in the token itself.

package store

import "sync"

// ReplayGuard records consumed token nonces for the current day.
type ReplayGuard interface {
	// Consume marks nonce as spent for date. It reports true if the nonce
	// was fresh and false if it had already been consumed.
	Consume(date, nonce string) bool
}

// memory is a mutex-guarded nonce set, reset at day rollover.
type memory struct {
	mu   sync.Mutex
	date string
	seen map[string]struct{}
}

// NewMemoryGuard constructs the default in-memory ReplayGuard.
func NewMemoryGuard() ReplayGuard {
	return &memory{seen: make(map[string]struct{})}
}

func (m *memory) Consume(date, nonce string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.date != date {
		m.date = date
		m.seen = make(map[string]struct{})
	}
	if _, dup := m.seen[nonce]; dup {
		return false
	}
	m.seen[nonce] = struct{}{}
	return true
}

// nop accepts every token. Selected with STRICT_REPLAY=false.
type nop struct{}

// NewNopGuard constructs a guard that never rejects.
func NewNopGuard() ReplayGuard { return nop{} }

func (nop) Consume(string, string) bool { return true }
