// internal/words/words.go
//
// Word-pair catalog for the daily puzzle.
//
// A pair couples a category with two words in it: the secret word the five
// innocent personas describe and the decoy word handed to the mole.
//
// Initialization behavior (Init):
//   1. If WORDS_DB_FILE is set, load pairs from the SQLite `word_pairs`
//      table (category, secret_word, decoy_word).
//   2. Else if WORDS_PAIRS_FILE is set, load from a flat file with one
//      `category|secret|decoy` line per pair.
//   3. Else fall back to the embedded default catalog.
//
// Constraints:
//   • All three fields must be non-empty; secret ≠ decoy.
//   • Initialization runs once (sync.Once).
//   • An empty catalog is a configuration error: the day's game cannot be
//     served without it.

package words

import (
	"bufio"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed default_pairs.txt
var embeddedPairs string

// Pair is one playable category/word assignment.
type Pair struct {
	Category   string
	SecretWord string // described by the five innocents
	DecoyWord  string // described by the mole
}

// ErrEmptyCatalog signals a misconfigured or exhausted catalog.
// Fatal at startup: serving a corrupt puzzle is worse than serving none.
var ErrEmptyCatalog = errors.New("words: pair catalog is empty")

var (
	initOnce   sync.Once
	pairs      []Pair
	initialErr error
)

// Init loads the pair catalog exactly once.
func Init() error {
	initOnce.Do(func() {
		switch {
		case os.Getenv("WORDS_DB_FILE") != "":
			pairs, initialErr = readPairsDB(os.Getenv("WORDS_DB_FILE"))
		case os.Getenv("WORDS_PAIRS_FILE") != "":
			pairs, initialErr = readPairsFile(os.Getenv("WORDS_PAIRS_FILE"))
		default:
			pairs = parseLines(embeddedPairs)
		}
		if initialErr == nil && len(pairs) == 0 {
			initialErr = ErrEmptyCatalog
		}
	})
	return initialErr
}

// Pairs returns the loaded catalog. Callers must not mutate it.
func Pairs() []Pair {
	return pairs
}

// Count returns the catalog size.
func Count() int { return len(pairs) }

// readPairsDB loads word pairs from a SQLite database file.
func readPairsDB(path string) ([]Pair, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open words db: %w", err)
	}
	defer db.Close()

	// Ordered so every process indexes the catalog identically: the daily
	// puzzle is picked by position.
	rows, err := db.Query(`SELECT category, secret_word, decoy_word FROM word_pairs ORDER BY category, secret_word`)
	if err != nil {
		return nil, fmt.Errorf("query word_pairs: %w", err)
	}
	defer rows.Close()

	var out []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Category, &p.SecretWord, &p.DecoyWord); err != nil {
			return nil, err
		}
		if valid(p) {
			out = append(out, p)
		}
	}
	return out, rows.Err()
}

// readPairsFile loads one `category|secret|decoy` pair per line.
// Blank lines and lines starting with '#' are skipped.
func readPairsFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []Pair
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if p, ok := parseLine(sc.Text()); ok {
			out = append(out, p)
		}
	}
	return out, sc.Err()
}

// parseLines processes the embedded multiline catalog.
func parseLines(s string) []Pair {
	var out []Pair
	for _, line := range strings.Split(s, "\n") {
		if p, ok := parseLine(line); ok {
			out = append(out, p)
		}
	}
	return out
}

func parseLine(line string) (Pair, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Pair{}, false
	}
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return Pair{}, false
	}
	p := Pair{
		Category:   strings.TrimSpace(parts[0]),
		SecretWord: strings.TrimSpace(parts[1]),
		DecoyWord:  strings.TrimSpace(parts[2]),
	}
	return p, valid(p)
}

// valid rejects incomplete pairs and pairs whose two words coincide.
func valid(p Pair) bool {
	return p.Category != "" && p.SecretWord != "" && p.DecoyWord != "" &&
		!strings.EqualFold(p.SecretWord, p.DecoyWord)
}
