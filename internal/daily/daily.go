// internal/daily/daily.go
//
// Deterministic daily puzzle generation.
//
// Every player on a given UTC calendar day faces the identical puzzle:
// same word pair, same persona turn order, same mole. All of it derives
// from HMAC-SHA256(server secret, YYYY-MM-DD); no wall-clock or machine
// randomness is involved, so any number of processes agree byte for byte.
//
// The seed is expanded with HKDF-SHA256 into a selection stream (word-pair
// index, turn-order permutation, mole index) and a separate 32-byte key
// that signs the day's state tokens. A token therefore cannot verify
// against any other day's puzzle.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/robalobadob/mole-game/internal/game"
	"github.com/robalobadob/mole-game/internal/words"
)

// Puzzle is the immutable daily setup shared by every player.
type Puzzle struct {
	Date       string // YYYY-MM-DD, UTC
	Category   string
	SecretWord string
	DecoyWord  string
	TurnOrder  []game.Persona // permutation of game.PersonaList
	MoleIndex  int            // position within TurnOrder; never sent to clients
	TokenKey   []byte         // per-day HMAC key for state tokens
}

// Mole returns the day's mole persona.
func (p *Puzzle) Mole() game.Persona { return p.TurnOrder[p.MoleIndex] }

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Generator caches the day's puzzle. First access is guarded so that
// concurrent requests at day rollover converge on a single result; after
// that the value is read-only until the next rollover replaces it.
type Generator struct {
	secret string

	mu     sync.Mutex
	cached *Puzzle
}

// NewGenerator creates a generator keyed by the server secret.
func NewGenerator(secret string) *Generator {
	return &Generator{secret: secret}
}

// Get returns the puzzle for the calendar day containing now, computing it
// at most once per day. The computation is idempotent, so holding the lock
// across it is safe; waiters observe the single winner's result.
func (g *Generator) Get(now time.Time) (*Puzzle, error) {
	date := DateKey(now)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cached != nil && g.cached.Date == date {
		return g.cached, nil
	}
	p, err := generate(date, g.secret)
	if err != nil {
		return nil, err
	}
	g.cached = p
	return p, nil
}

// generate derives the full puzzle for a date. Pure: same (date, secret)
// always yields the identical puzzle.
func generate(date, secret string) (*Puzzle, error) {
	pairs := words.Pairs()
	if len(pairs) == 0 {
		return nil, fmt.Errorf("daily %s: %w", date, words.ErrEmptyCatalog)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(date))
	seed := mac.Sum(nil)

	stream := hkdf.New(sha256.New, seed, []byte(date), []byte("mole-daily-v1"))

	pair := pairs[draw(stream, len(pairs))]

	// Fisher-Yates over the roster, indices drawn from the stream.
	order := make([]game.Persona, len(game.PersonaList))
	copy(order, game.PersonaList)
	for i := len(order) - 1; i > 0; i-- {
		j := draw(stream, i+1)
		order[i], order[j] = order[j], order[i]
	}

	moleIdx := draw(stream, len(order))

	key := make([]byte, 32)
	if _, err := io.ReadFull(stream, key); err != nil {
		return nil, fmt.Errorf("daily %s: derive token key: %w", date, err)
	}

	return &Puzzle{
		Date:       date,
		Category:   pair.Category,
		SecretWord: pair.SecretWord,
		DecoyWord:  pair.DecoyWord,
		TurnOrder:  order,
		MoleIndex:  moleIdx,
		TokenKey:   key,
	}, nil
}

// draw consumes 8 bytes from the stream and maps them to [0, n).
func draw(stream io.Reader, n int) int {
	var b [8]byte
	_, _ = io.ReadFull(stream, b[:])
	return int(binary.BigEndian.Uint64(b[:]) % uint64(n))
}
