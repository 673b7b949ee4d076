package docstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookupRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.sqlite3")
	store, err := Create(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Insert(0, "the quick brown fox"))

	body, err := store.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", body)
}

func TestLookupMissingDocReturnsSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.sqlite3")
	store, err := Create(path)
	require.NoError(t, err)
	defer store.Close()

	body, err := store.Lookup(42)
	require.NoError(t, err)
	assert.Equal(t, "<missing>", body)
}

func TestInsertBatchAndOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.sqlite3")
	store, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, store.InsertBatch(map[uint32]string{
		0: "the lazy dog",
		1: "fox jumps over the dog",
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	body, err := reopened.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "fox jumps over the dog", body)
}
