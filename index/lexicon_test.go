package index

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexiconTableAddAndLookup(t *testing.T) {
	table := NewLexiconTable()
	table.Add(LexiconEntry{Term: "gopher", StartChunk: 1, EndChunk: 4})
	table.Add(LexiconEntry{Term: "badger", StartChunk: 5, EndChunk: 5})

	entry, ok := table.Lookup("gopher")
	require.True(t, ok)
	assert.Equal(t, uint32(1), entry.StartChunk)
	assert.Equal(t, uint32(4), entry.EndChunk)

	_, ok = table.Lookup("missing")
	assert.False(t, ok)
}

func TestLoadLexiconTableRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, lexiconFileName)
	f, err := os.Create(path)
	require.NoError(t, err)
	w := bufio.NewWriter(f)
	require.NoError(t, WriteLexicon(w, LexiconEntry{Term: "search", StartChunk: 10, EndChunk: 12}))
	require.NoError(t, WriteLexicon(w, LexiconEntry{Term: "engine", StartChunk: 13, EndChunk: 13}))
	require.NoError(t, w.Flush())
	require.NoError(t, f.Close())

	table, err := LoadLexiconTable(dir)
	require.NoError(t, err)

	entry, ok := table.Lookup("search")
	require.True(t, ok)
	assert.Equal(t, uint32(10), entry.StartChunk)
	assert.Equal(t, uint32(12), entry.EndChunk)
}
