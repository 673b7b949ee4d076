package build

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSegmentsSingleSegment(t *testing.T) {
	dir := t.TempDir()
	corpus := "0\thello world\n1\thello there\n2\tworld peace\n"
	result, err := BuildSegments(zerolog.Nop(), strings.NewReader(corpus), dir, 1<<20)
	require.NoError(t, err)
	require.Len(t, result.IntermediateFiles, 1)
	assert.Equal(t, uint32(2), result.MaxDocID)
	assert.Equal(t, uint32(2), result.DocLengths[0])
	assert.Equal(t, uint32(2), result.DocLengths[1])
	assert.Equal(t, uint32(2), result.DocLengths[2])

	data, err := os.ReadFile(dir + "/" + intermediateFileName(0))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestBuildSegmentsSplitsAcrossWindows(t *testing.T) {
	dir := t.TempDir()
	corpus := "0\tgopher gopher\n1\tbadger\n2\tgopher badger\n"
	result, err := BuildSegments(zerolog.Nop(), strings.NewReader(corpus), dir, 16)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.IntermediateFiles), 2)
	assert.Equal(t, uint32(2), result.MaxDocID)
}

func TestBuildSegmentsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	result, err := BuildSegments(zerolog.Nop(), strings.NewReader("no tab here\n0\tvalid body\n"), dir, 1<<20)
	require.NoError(t, err)
	require.Len(t, result.IntermediateFiles, 1)
	assert.Equal(t, uint32(0), result.MaxDocID)
	assert.Equal(t, uint32(2), result.DocLengths[0])
}

func TestReadParsedItemRoundTrip(t *testing.T) {
	dir := t.TempDir()
	table := segmentTable{
		"gopher": {docIDs: []uint32{1, 3}, freqs: []uint32{2, 1}},
	}
	path := dir + "/seg.bin"
	require.NoError(t, flushSegmentTable(table, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := bufio.NewReader(f)
	item, err := readParsedItem(r)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "gopher", item.word)
	assert.Equal(t, []uint32{1, 3}, item.docIDs)
	assert.Equal(t, []uint32{2, 1}, item.freqs)

	item, err = readParsedItem(r)
	require.NoError(t, err)
	assert.Nil(t, item)
}
