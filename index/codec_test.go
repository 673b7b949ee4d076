package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarByteRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 16384, 1 << 20, math.MaxUint32}
	for _, x := range cases {
		buf := make([]byte, 5)
		n := PutVarByte(buf, x)
		require.Equal(t, VarByteLen(x), n)
		got, consumed := GetVarByte(buf)
		assert.Equal(t, n, consumed)
		assert.Equal(t, x, got)
	}
}

func TestLogQuantizeMonotone(t *testing.T) {
	scores := []float64{0, 0.1, 1, 5, 50, 500, 10000}
	prev := byte(0)
	for _, s := range scores {
		b := LogQuantize(s)
		assert.GreaterOrEqual(t, b, prev)
		prev = b
	}
}

func TestLogQuantizeZero(t *testing.T) {
	assert.Equal(t, byte(0), LogQuantize(0))
	assert.Equal(t, byte(0), LogQuantize(-5))
	assert.Equal(t, 0.0, LogDecompress(0))
}

func TestLogQuantizeApproximatesInverse(t *testing.T) {
	score := 12.5
	b := LogQuantize(score)
	decoded := LogDecompress(b)
	assert.InDelta(t, score, decoded, 1.0)
}
