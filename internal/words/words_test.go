package words

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		line string
		want Pair
		ok   bool
	}{
		{"Fruits|Apple|Pear", Pair{"Fruits", "Apple", "Pear"}, true},
		{"  Fruits | Apple | Pear  ", Pair{"Fruits", "Apple", "Pear"}, true},
		{"# a comment", Pair{}, false},
		{"", Pair{}, false},
		{"Fruits|Apple", Pair{}, false},
		{"Fruits|Apple|Pear|extra", Pair{}, false},
		{"Fruits|Apple|apple", Pair{}, false}, // secret == decoy (case-insensitive)
		{"Fruits||Pear", Pair{}, false},
	}
	for _, tc := range cases {
		got, ok := parseLine(tc.line)
		assert.Equal(t, tc.ok, ok, "line %q", tc.line)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}

func TestEmbeddedCatalog(t *testing.T) {
	pairs := parseLines(embeddedPairs)
	require.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.True(t, valid(p), "embedded pair %+v", p)
	}
}

func TestReadPairsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")
	content := "# test catalog\nFruits|Apple|Pear\n\nAnimals|Cat|Dog\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pairs, err := readPairsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{"Fruits", "Apple", "Pear"},
		{"Animals", "Cat", "Dog"},
	}, pairs)
}

func TestReadPairsFileMissing(t *testing.T) {
	_, err := readPairsFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestReadPairsDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE word_pairs (
		category TEXT NOT NULL,
		secret_word TEXT NOT NULL,
		decoy_word TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO word_pairs VALUES
		('Fruits', 'Apple', 'Pear'),
		('Animals', 'Cat', 'Dog'),
		('Broken', 'Same', 'Same')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	pairs, err := readPairsDB(path)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{"Fruits", "Apple", "Pear"},
		{"Animals", "Cat", "Dog"},
	}, pairs, "invalid rows are filtered out")
}
