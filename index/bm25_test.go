package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBM25ImpactRareTermScoresHigherThanCommonTerm(t *testing.T) {
	rare := BM25Impact(1000, 2, 3, 100, 100)
	common := BM25Impact(1000, 900, 3, 100, 100)
	assert.Greater(t, rare, common)
}

func TestBM25ImpactIncreasesWithFrequency(t *testing.T) {
	low := BM25Impact(1000, 50, 1, 100, 100)
	high := BM25Impact(1000, 50, 10, 100, 100)
	assert.Greater(t, high, low)
}

func TestBM25ImpactPenalizesLongDocuments(t *testing.T) {
	short := BM25Impact(1000, 50, 3, 50, 100)
	long := BM25Impact(1000, 50, 3, 500, 100)
	assert.Greater(t, short, long)
}
