package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// List is a skip-capable iterator over one term's postings, spanning the
// [startChunk, endChunk] global chunk range recorded in its LexiconEntry. It
// reads block headers (per-chunk byte sizes and last docIDs) lazily and
// supports jumping to the next posting with docID >= target. Whole blocks
// whose last docID is below target are skipped without decompressing their
// chunks; within a block it advances chunk by chunk and decodes each chunk
// it moves onto, including ones it then passes over, in the manner of the teacher's
// indexedMessageIterator alternating between index metadata and payload
// reads (compare indexed_message_iterator.go).
type List struct {
	term string

	dir      string
	manifest Manifest

	fileIndex int
	f         *os.File
	r         *bufio.Reader

	chunkInFile     int // 0-based chunk offset within the current file
	remainingChunks int // chunks left to visit, including the current one
	blockChunkSizes [ChunksPerBlock]int32
	blockLastDocIDs [ChunksPerBlock]int32
	blockChunkIndex int // index of the current chunk within its block's arrays

	postingDocIDs  []int32
	postingImpacts []float64
	postingIndex   int
	exhausted      bool

	// current returns the posting nextGEQ last matched.
	curDocID  int32
	curImpact float64
}

// OpenList opens an iterator over entry's postings in the index files
// recorded by manifest under dir.
func OpenList(dir string, manifest Manifest, entry LexiconEntry) (*List, error) {
	l := &List{
		term:            entry.Term,
		dir:             dir,
		manifest:        manifest,
		remainingChunks: int(entry.EndChunk-entry.StartChunk) + 1,
	}
	fileIndex, chunkInFile, err := manifest.locate(entry.StartChunk)
	if err != nil {
		return nil, fmt.Errorf("locate term %q: %w", entry.Term, err)
	}
	if err := l.openFile(fileIndex); err != nil {
		return nil, err
	}
	if err := l.seekToChunk(chunkInFile); err != nil {
		return nil, err
	}
	if err := l.loadChunk(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *List) openFile(fileIndex int) error {
	if l.f != nil {
		if err := l.f.Close(); err != nil {
			return err
		}
	}
	name := l.manifest.Files[fileIndex].Name
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return fmt.Errorf("open index file %s: %w", name, err)
	}
	l.fileIndex = fileIndex
	l.f = f
	l.r = bufio.NewReader(f)
	return nil
}

// seekToChunk positions the reader at the start of the block containing
// chunkInFile (0-based, file-relative) and records the chunk's offset
// within that block's arrays, reading and discarding any whole blocks and
// any leading chunk payloads in the target block that precede it.
func (l *List) seekToChunk(chunkInFile int) error {
	blockIndex := chunkInFile / ChunksPerBlock
	withinBlock := chunkInFile % ChunksPerBlock

	for b := 0; b < blockIndex; b++ {
		if err := l.readBlockHeader(); err != nil {
			return err
		}
		var total int64
		for i := 0; i < ChunksPerBlock; i++ {
			total += int64(l.blockChunkSizes[i])
		}
		if _, err := io.CopyN(io.Discard, l.r, total); err != nil {
			return fmt.Errorf("skip block payload: %w", err)
		}
	}
	if err := l.readBlockHeader(); err != nil {
		return err
	}
	l.chunkInFile = blockIndex * ChunksPerBlock
	l.blockChunkIndex = 0
	for l.blockChunkIndex < withinBlock {
		if err := l.advanceChunkWithinBlock(); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) readBlockHeader() error {
	if err := binary.Read(l.r, binary.LittleEndian, &l.blockChunkSizes); err != nil {
		return fmt.Errorf("read block chunk sizes: %w", err)
	}
	if err := binary.Read(l.r, binary.LittleEndian, &l.blockLastDocIDs); err != nil {
		return fmt.Errorf("read block last docIDs: %w", err)
	}
	return nil
}

// advanceChunkWithinBlock discards the payload of the chunk at
// blockChunkIndex and moves to the next one in the same block, without
// reading a new block header.
func (l *List) advanceChunkWithinBlock() error {
	size := int64(l.blockChunkSizes[l.blockChunkIndex])
	if _, err := io.CopyN(io.Discard, l.r, size); err != nil {
		return fmt.Errorf("skip chunk payload: %w", err)
	}
	l.blockChunkIndex++
	l.chunkInFile++
	return nil
}

// loadChunk decompresses the chunk at the current position into
// postingDocIDs/postingImpacts.
func (l *List) loadChunk() error {
	size := l.blockChunkSizes[l.blockChunkIndex]
	buf := make([]byte, size)
	if _, err := io.ReadFull(l.r, buf); err != nil {
		return fmt.Errorf("read chunk payload: %w", err)
	}
	l.postingDocIDs = l.postingDocIDs[:0]
	l.postingImpacts = l.postingImpacts[:0]
	lastDocID := l.blockLastDocIDs[l.blockChunkIndex]
	pos := 0
	var prev uint32
	for pos < len(buf) {
		v, n := GetVarByte(buf[pos:])
		pos += n
		if len(l.postingDocIDs) == 0 {
			prev = v
		} else {
			prev += v
		}
		l.postingDocIDs = append(l.postingDocIDs, int32(prev))
		if int32(prev) == lastDocID {
			break
		}
	}
	for _, b := range buf[pos:] {
		l.postingImpacts = append(l.postingImpacts, LogDecompress(b))
	}
	l.postingIndex = 0
	return nil
}

// lastDocIDOfBlockTail returns the last docID recorded in the current
// block's final chunk slot (ChunksPerBlock-1), or -1 if that slot is unused.
// The block-skip decision consults it only when the term's chunks continue
// past the current block, so that slot then belongs to the same term.
func (l *List) lastDocIDOfBlockTail() int32 {
	return l.blockLastDocIDs[ChunksPerBlock-1]
}

// nextChunk advances to the next chunk, crossing a block or file boundary
// as needed, and loads its postings. It must only be called when
// remainingChunks > 1.
func (l *List) nextChunk() error {
	l.remainingChunks--
	if l.blockChunkIndex == ChunksPerBlock-1 {
		crossingFile := l.chunkInFile == l.manifest.Files[l.fileIndex].ChunkCount-1
		if crossingFile {
			if err := l.openFile(l.fileIndex + 1); err != nil {
				return err
			}
		}
		if err := l.readBlockHeader(); err != nil {
			return err
		}
		l.blockChunkIndex = 0
		if crossingFile {
			l.chunkInFile = 0
		} else {
			l.chunkInFile++
		}
	} else {
		// The current chunk's payload was already consumed by the
		// loadChunk call that populated it; only the index advances.
		l.blockChunkIndex++
		l.chunkInFile++
	}
	return l.loadChunk()
}

// skipBlock discards every remaining chunk in the current block and loads
// the header of the next one.
func (l *List) skipBlock() error {
	chunksLeftInBlock := ChunksPerBlock - l.blockChunkIndex
	l.remainingChunks -= chunksLeftInBlock
	// The current chunk's payload was already consumed into memory by the
	// loadChunk call that populated it, so only the chunks after it remain
	// unread on disk.
	var total int64
	for i := l.blockChunkIndex + 1; i < ChunksPerBlock; i++ {
		total += int64(l.blockChunkSizes[i])
	}
	if _, err := io.CopyN(io.Discard, l.r, total); err != nil {
		return fmt.Errorf("skip block tail: %w", err)
	}
	l.chunkInFile += chunksLeftInBlock
	if l.chunkInFile == l.manifest.Files[l.fileIndex].ChunkCount {
		if err := l.openFile(l.fileIndex + 1); err != nil {
			return err
		}
		l.chunkInFile = 0
	}
	l.blockChunkIndex = 0
	return l.readBlockHeader()
}

// NextGEQ returns the smallest docID >= target in the list, decompressing
// and skipping blocks and chunks whose last docID is still below target.
// It returns (0, false) once the list is exhausted.
func (l *List) NextGEQ(target int32) (int32, bool) {
	if l.exhausted {
		return 0, false
	}
	for l.remainingChunks-(ChunksPerBlock-l.blockChunkIndex) > 0 && l.lastDocIDOfBlockTail() < target {
		if err := l.skipBlock(); err != nil {
			l.exhausted = true
			return 0, false
		}
		if err := l.loadChunk(); err != nil {
			l.exhausted = true
			return 0, false
		}
	}
	for l.remainingChunks > 1 && l.blockLastDocIDs[l.blockChunkIndex] < target {
		if err := l.nextChunk(); err != nil {
			l.exhausted = true
			return 0, false
		}
	}
	for ; l.postingIndex < len(l.postingDocIDs); l.postingIndex++ {
		if l.postingDocIDs[l.postingIndex] >= target {
			l.curDocID = l.postingDocIDs[l.postingIndex]
			l.curImpact = l.postingImpacts[l.postingIndex]
			return l.curDocID, true
		}
	}
	l.exhausted = true
	return 0, false
}

// CurrentImpact returns the BM25 impact score of the posting most recently
// returned by NextGEQ.
func (l *List) CurrentImpact() float64 { return l.curImpact }

// Close releases the underlying file handle.
func (l *List) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}
