package build

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockidx/daatsearch/index"
)

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	corpus := "0\tthe quick brown fox\n1\tthe lazy dog\n2\tfox jumps over the dog\n"

	docStorePath := filepath.Join(dir, "docs.sqlite3")
	result, err := Run(zerolog.Nop(), strings.NewReader(corpus), dir, dir, docStorePath, 1<<20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DocCount)
	assert.NotEmpty(t, result.IndexFiles)

	table, err := index.LoadLexiconTable(dir)
	require.NoError(t, err)
	entry, ok := table.Lookup("fox")
	require.True(t, ok)

	manifest, err := index.ReadManifest(dir)
	require.NoError(t, err)

	list, err := index.OpenList(dir, manifest, entry)
	require.NoError(t, err)
	defer list.Close()

	docID, ok := list.NextGEQ(0)
	require.True(t, ok)
	assert.Equal(t, int32(0), docID)

	docID, ok = list.NextGEQ(1)
	require.True(t, ok)
	assert.Equal(t, int32(2), docID)
}
