package index

// TermPosting is a single (docId, frequency) pair for one term, as produced
// by the merger once all per-segment runs for that term have been
// concatenated into ascending-docID order.
type TermPosting struct {
	DocID uint32
	Freq  uint32
}

// LexiconEntry records the inclusive, 1-based global chunk range occupied
// by one term's postings.
type LexiconEntry struct {
	Term       string
	StartChunk uint32
	EndChunk   uint32
}
