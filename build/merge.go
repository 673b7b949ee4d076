package build

import (
	"bufio"
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// parsedItem is one term's postings read from a single intermediate file.
type parsedItem struct {
	word   string
	docIDs []uint32
	freqs  []uint32
}

// sourceReader wraps one intermediate file's buffered reader, tracking the
// source file index used to break (term, sourceFileId) ties during the
// merge.
type sourceReader struct {
	fileID int
	r      *bufio.Reader
	f      *os.File
}

func openSourceReaders(dir string, names []string) ([]*sourceReader, error) {
	readers := make([]*sourceReader, 0, len(names))
	for i, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			for _, r := range readers {
				r.f.Close()
			}
			return nil, fmt.Errorf("open intermediate file %s: %w", name, err)
		}
		readers = append(readers, &sourceReader{fileID: i, r: bufio.NewReaderSize(f, 48<<20), f: f})
	}
	return readers, nil
}

func closeSourceReaders(readers []*sourceReader) {
	for _, r := range readers {
		r.f.Close()
	}
}

// readParsedItem reads the next term record from r, or returns (nil, nil)
// at a clean end of file.
func readParsedItem(r *bufio.Reader) (*parsedItem, error) {
	var wordLen int32
	if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read word length: %w", err)
	}
	wordBuf := make([]byte, wordLen)
	if _, err := io.ReadFull(r, wordBuf); err != nil {
		return nil, fmt.Errorf("read word: %w", err)
	}
	var postingCount int32
	if err := binary.Read(r, binary.LittleEndian, &postingCount); err != nil {
		return nil, fmt.Errorf("read posting count: %w", err)
	}
	docIDs := make([]uint32, postingCount)
	if err := binary.Read(r, binary.LittleEndian, docIDs); err != nil {
		return nil, fmt.Errorf("read docIDs: %w", err)
	}
	freqs := make([]uint32, postingCount)
	if err := binary.Read(r, binary.LittleEndian, freqs); err != nil {
		return nil, fmt.Errorf("read frequencies: %w", err)
	}
	return &parsedItem{word: string(wordBuf), docIDs: docIDs, freqs: freqs}, nil
}

// mergeHeapNode pairs a parsed term record with the source file it came
// from, so ties on word are broken by ascending file ID, preserving the
// deterministic merge order of the original external sort.
type mergeHeapNode struct {
	fileID int
	item   *parsedItem
}

// mergeHeap is a min-heap over mergeHeapNode ordered by (word, fileID),
// in the manner of the teacher's rangeIndexHeap (compare range_index_heap.go).
type mergeHeap []mergeHeapNode

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].item.word != h[j].item.word {
		return h[i].item.word < h[j].item.word
	}
	return h[i].fileID < h[j].fileID
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) {
	*h = append(*h, x.(mergeHeapNode))
}
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// MergedTerm is one term's postings, fully merged across every source file
// and sorted ascending by docID, ready for the index encoder.
type MergedTerm struct {
	Term     string
	Postings []Posting
}

// Posting is a (docID, frequency) pair produced by the merge, distinct
// from index.TermPosting only in package to keep the merge free of an
// index-package import until encoding time.
type Posting struct {
	DocID uint32
	Freq  uint32
}

// MergeNext drives a k-way merge over the intermediate files in dir and
// calls emit once per distinct term, in ascending alphabetical order, with
// every source file's postings for that term concatenated and sorted by
// docID (each source file already yields its own postings in ascending
// docID order, so this is a merge, not a full re-sort).
func MergeNext(dir string, names []string, emit func(MergedTerm) error) error {
	readers, err := openSourceReaders(dir, names)
	if err != nil {
		return err
	}
	defer closeSourceReaders(readers)

	h := &mergeHeap{}
	heap.Init(h)
	for _, r := range readers {
		item, err := readParsedItem(r.r)
		if err != nil {
			return err
		}
		if item != nil {
			heap.Push(h, mergeHeapNode{fileID: r.fileID, item: item})
		}
	}

	for h.Len() > 0 {
		min := heap.Pop(h).(mergeHeapNode)
		word := min.item.word
		collected := []*parsedItem{min.item}

		if err := refillFrom(h, readers[min.fileID]); err != nil {
			return err
		}
		for h.Len() > 0 && (*h)[0].item.word == word {
			next := heap.Pop(h).(mergeHeapNode)
			collected = append(collected, next.item)
			if err := refillFrom(h, readers[next.fileID]); err != nil {
				return err
			}
		}

		merged := mergeCollectedPostings(collected)
		if err := emit(MergedTerm{Term: word, Postings: merged}); err != nil {
			return err
		}
	}
	return nil
}

func refillFrom(h *mergeHeap, r *sourceReader) error {
	item, err := readParsedItem(r.r)
	if err != nil {
		return err
	}
	if item != nil {
		heap.Push(h, mergeHeapNode{fileID: r.fileID, item: item})
	}
	return nil
}

// mergeCollectedPostings concatenates every collected item's postings in
// ascending docID order. Two segments never share a docID (each document
// belongs to exactly one segment), so a straight merge by source ordering
// is insufficient in general; instead the individual (already
// docID-sorted) runs are merged by repeatedly taking the smallest head
// docID across all of them.
func mergeCollectedPostings(items []*parsedItem) []Posting {
	type cursor struct {
		item *parsedItem
		pos  int
	}
	cursors := make([]cursor, len(items))
	total := 0
	for i, it := range items {
		cursors[i] = cursor{item: it}
		total += len(it.docIDs)
	}
	out := make([]Posting, 0, total)
	for {
		best := -1
		for i := range cursors {
			if cursors[i].pos >= len(cursors[i].item.docIDs) {
				continue
			}
			if best == -1 || cursors[i].item.docIDs[cursors[i].pos] < cursors[best].item.docIDs[cursors[best].pos] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		c := &cursors[best]
		out = append(out, Posting{DocID: c.item.docIDs[c.pos], Freq: c.item.freqs[c.pos]})
		c.pos++
	}
	return out
}
