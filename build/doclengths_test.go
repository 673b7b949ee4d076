package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocLengthsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lengths := map[uint32]uint32{0: 10, 2: 30}
	require.NoError(t, WriteDocLengths(dir, lengths, 2))

	flat, err := ReadDocLengths(dir)
	require.NoError(t, err)
	require.Len(t, flat, 3)
	assert.Equal(t, uint32(10), flat[0])
	assert.Equal(t, uint32(0), flat[1])
	assert.Equal(t, uint32(30), flat[2])
}

func TestAverageDocLengthExcludesAbsentDocs(t *testing.T) {
	lengths := map[uint32]uint32{0: 10, 5: 20}
	assert.Equal(t, 15, AverageDocLength(lengths))
}

func TestAverageDocLengthEmpty(t *testing.T) {
	assert.Equal(t, 0, AverageDocLength(map[uint32]uint32{}))
}
