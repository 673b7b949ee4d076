package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSingleTermIndex writes one term's postings through a Builder and
// returns the manifest and lexicon entry needed to open a List over it.
func buildSingleTermIndex(t *testing.T, dir string, postings []TermPosting) (Manifest, LexiconEntry) {
	t.Helper()
	b, err := NewBuilder(dir)
	require.NoError(t, err)

	docLengths := make([]uint32, 0)
	maxDocID := uint32(0)
	for _, p := range postings {
		if p.DocID > maxDocID {
			maxDocID = p.DocID
		}
	}
	docLengths = make([]uint32, maxDocID+1)
	for i := range docLengths {
		docLengths[i] = 100
	}

	entry, err := b.AppendTerm(postings, 1000, len(postings), 100, docLengths)
	require.NoError(t, err)
	entry.Term = "widget"
	require.NoError(t, b.Close())

	manifest := b.BuildManifest()
	require.NoError(t, WriteManifest(dir, manifest))
	return manifest, entry
}

func TestListNextGEQReturnsPostingsInOrder(t *testing.T) {
	dir := t.TempDir()
	postings := []TermPosting{
		{DocID: 3, Freq: 1},
		{DocID: 7, Freq: 2},
		{DocID: 42, Freq: 1},
		{DocID: 100, Freq: 5},
	}
	manifest, entry := buildSingleTermIndex(t, dir, postings)

	list, err := OpenList(dir, manifest, entry)
	require.NoError(t, err)
	defer list.Close()

	docID, ok := list.NextGEQ(0)
	require.True(t, ok)
	require.Equal(t, int32(3), docID)

	docID, ok = list.NextGEQ(8)
	require.True(t, ok)
	require.Equal(t, int32(42), docID)

	docID, ok = list.NextGEQ(43)
	require.True(t, ok)
	require.Equal(t, int32(100), docID)

	_, ok = list.NextGEQ(101)
	require.False(t, ok)
}

func TestListSpansMultipleChunks(t *testing.T) {
	dir := t.TempDir()
	postings := make([]TermPosting, 0, 300)
	for i := 0; i < 300; i++ {
		postings = append(postings, TermPosting{DocID: uint32(i * 2), Freq: 1})
	}
	manifest, entry := buildSingleTermIndex(t, dir, postings)
	require.Equal(t, uint32(3), entry.EndChunk-entry.StartChunk+1)

	list, err := OpenList(dir, manifest, entry)
	require.NoError(t, err)
	defer list.Close()

	docID, ok := list.NextGEQ(597)
	require.True(t, ok)
	require.Equal(t, int32(598), docID)

	docID, ok = list.NextGEQ(598)
	require.True(t, ok)
	require.Equal(t, int32(598), docID)
}
