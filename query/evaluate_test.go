package query

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockidx/daatsearch/build"
	"github.com/blockidx/daatsearch/index"
)

func buildTestIndex(t *testing.T, corpus string) (string, index.Manifest, *index.LexiconTable) {
	t.Helper()
	dir := t.TempDir()
	docStorePath := filepath.Join(dir, "docs.sqlite3")
	_, err := build.Run(zerolog.Nop(), strings.NewReader(corpus), dir, dir, docStorePath, 1<<20, 0)
	require.NoError(t, err)

	manifest, err := index.ReadManifest(dir)
	require.NoError(t, err)
	table, err := index.LoadLexiconTable(dir)
	require.NoError(t, err)
	return dir, manifest, table
}

func TestPrepareTermsDedupesPreservingOrder(t *testing.T) {
	terms, err := PrepareTerms("fox Fox dog fox")
	require.NoError(t, err)
	assert.Equal(t, []string{"fox", "Fox", "dog"}, terms)
}

func TestPrepareTermsEmptyQuery(t *testing.T) {
	_, err := PrepareTerms("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestConjunctiveOnlyMatchesAllTerms(t *testing.T) {
	corpus := "0\tthe quick brown fox\n1\tthe lazy dog\n2\tfox jumps over the dog\n"
	dir, manifest, table := buildTestIndex(t, corpus)

	results, err := Conjunctive(dir, manifest, table, []string{"fox", "dog"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(2), results[0].DocID)
}

func TestConjunctiveMissingTermErrors(t *testing.T) {
	corpus := "0\tthe quick brown fox\n1\tthe lazy dog\n"
	dir, manifest, table := buildTestIndex(t, corpus)

	_, err := Conjunctive(dir, manifest, table, []string{"fox", "nonexistent"})
	assert.ErrorIs(t, err, ErrTermNotFound)
}

func TestDisjunctiveMatchesAnyTerm(t *testing.T) {
	corpus := "0\tthe quick brown fox\n1\tthe lazy dog\n2\tfox jumps over the dog\n"
	dir, manifest, table := buildTestIndex(t, corpus)

	results, err := Disjunctive(dir, manifest, table, []string{"fox", "lazy"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	docIDs := make(map[uint32]bool)
	for _, r := range results {
		docIDs[r.DocID] = true
	}
	assert.True(t, docIDs[0])
	assert.True(t, docIDs[1])
	assert.True(t, docIDs[2])
}

func TestDisjunctiveUnknownTermIgnored(t *testing.T) {
	corpus := "0\tthe quick brown fox\n1\tthe lazy dog\n"
	dir, manifest, table := buildTestIndex(t, corpus)

	results, err := Disjunctive(dir, manifest, table, []string{"fox", "nonexistent"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].DocID)
}
