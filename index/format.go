// Package index implements the compressed, block-structured on-disk
// inverted index: chunked posting lists with variable-byte docID gaps and
// log-quantized BM25 impact scores, a lexicon mapping terms to chunk
// ranges, and a skip-capable list iterator for document-at-a-time query
// evaluation.
package index

const (
	// PostingsPerChunk is the maximum number of postings stored in a single
	// chunk before a new chunk (with a fresh absolute docID baseline) begins.
	PostingsPerChunk = 128
	// ChunksPerBlock is the maximum number of chunks in a single block.
	ChunksPerBlock = 64
	// MaxBlocksPerFile caps the number of blocks written to a single index
	// file; once reached, a new index file is opened and chunk numbering
	// continues monotonically across the split.
	MaxBlocksPerFile = 24000
)

// BM25 constants, fixed by the scoring contract.
const (
	BM25K1 = 1.2
	BM25B  = 0.75
)

// logQuantizeScale is the scaling constant applied after the log2
// transform when compressing an impact score to a single byte. It is part
// of the on-disk format contract and must be used identically by the
// encoder and the decoder.
const logQuantizeScale = 36.06

// TopK is the size of the bounded top-K result heap.
const TopK = 20
