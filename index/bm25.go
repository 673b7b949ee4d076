package index

import "math"

// BM25Impact computes the Okapi BM25 score contribution of one posting,
// per SPEC_FULL.md §4.7: idf_t * tf, with idf_t = ln((N - n_t + 0.5) /
// (n_t + 0.5)) left unclamped (it may be negative for very common terms).
func BM25Impact(totalDocCount, termDocCount, freq, docLen, avgDocLen int) float64 {
	idf := math.Log((float64(totalDocCount)-float64(termDocCount)+0.5)/(float64(termDocCount)+0.5) + 1e-300)
	// The 1e-300 term keeps the argument of Log away from exactly zero. For
	// integer inputs with n_t <= N the numerator is at least 0.5, so the
	// ratio is never zero there and the term does not change the result.
	num := (BM25K1 + 1) * float64(freq)
	den := BM25K1*((1-BM25B)+BM25B*float64(docLen)/float64(avgDocLen)) + float64(freq)
	tf := num / den
	return idf * tf
}
