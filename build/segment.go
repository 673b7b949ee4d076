// Package build implements the offline indexing pipeline: segmenting the
// input corpus into bounded-memory chunks, flushing per-segment postings
// tables to intermediate files, merging those files with a min-heap, and
// encoding the merged postings into the compressed block-structured index.
package build

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/blockidx/daatsearch/tokenize"
)

// SegmentSizeBytes bounds the amount of input read into memory before a
// segment's postings table is flushed to an intermediate file.
const SegmentSizeBytes = 384 << 20

// intermediateFileName returns the name of the i-th intermediate file.
func intermediateFileName(i int) string {
	return fmt.Sprintf("intermediate-%04d.bin", i)
}

// postingAccum accumulates (docID, freq) postings for one term within a
// single segment, in the docID-ascending order the input is read in.
type postingAccum struct {
	docIDs []uint32
	freqs  []uint32
}

func (p *postingAccum) addOccurrence(docID uint32) {
	if len(p.docIDs) > 0 && p.docIDs[len(p.docIDs)-1] == docID {
		p.freqs[len(p.freqs)-1]++
		return
	}
	p.docIDs = append(p.docIDs, docID)
	p.freqs = append(p.freqs, 1)
}

// segmentTable is the in-memory term -> postings map built for one segment,
// replacing the original's hand-rolled DJB2 hash table of linked lists with
// Go's native map, which is the idiomatic and directly equivalent
// replacement for a string-keyed chaining table with no third-party
// library in the retrieval pack offering anything more specific.
type segmentTable map[string]*postingAccum

func (t segmentTable) update(term string, docID uint32) {
	acc, ok := t[term]
	if !ok {
		acc = &postingAccum{}
		t[term] = acc
	}
	acc.addOccurrence(docID)
}

// SegmentResult reports what one call to BuildSegments produced.
type SegmentResult struct {
	IntermediateFiles []string
	DocLengths        map[uint32]uint32
	MaxDocID          uint32
	Bodies            map[uint32]string
}

// BuildSegments reads the corpus from r in segmentSize-ish windows
// (line-aligned, carrying a trailing partial line into the next window),
// tokenizes each line's body with the non-alphanumeric-separator rule, and
// flushes one intermediate file per window. It returns the intermediate
// file names (in source order, used as source file IDs during the merge)
// and the per-document lengths observed. Production callers should pass
// SegmentSizeBytes; tests pass a small window to exercise multi-segment
// behavior without allocating hundreds of megabytes per case.
func BuildSegments(log zerolog.Logger, r io.Reader, outDir string, segmentSize int) (SegmentResult, error) {
	reader := bufio.NewReaderSize(r, 1<<20)
	result := SegmentResult{DocLengths: make(map[uint32]uint32), Bodies: make(map[uint32]string)}

	var carry []byte
	buf := make([]byte, segmentSize)
	segmentIndex := 0
	for {
		n, readErr := io.ReadFull(reader, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return result, fmt.Errorf("read corpus: %w", readErr)
		}
		if n == 0 && readErr != nil {
			break
		}
		chunk := buf[:n]
		if len(carry) > 0 {
			chunk = append(append([]byte{}, carry...), chunk...)
			carry = nil
		}
		lastNewline := bytes.LastIndexByte(chunk, '\n')
		var complete []byte
		if lastNewline == -1 {
			carry = append(carry, chunk...)
		} else {
			complete = chunk[:lastNewline+1]
			carry = append([]byte{}, chunk[lastNewline+1:]...)
		}

		table, err := processSegmentLines(complete, result.DocLengths, result.Bodies, &result.MaxDocID)
		if err != nil {
			return result, err
		}
		if len(table) > 0 {
			name := intermediateFileName(segmentIndex)
			if err := flushSegmentTable(table, filepath.Join(outDir, name)); err != nil {
				return result, err
			}
			result.IntermediateFiles = append(result.IntermediateFiles, name)
			log.Debug().Str("file", name).Int("terms", len(table)).Msg("flushed intermediate segment")
			segmentIndex++
		}
		if n < len(buf) && (readErr == io.EOF || readErr == io.ErrUnexpectedEOF) {
			break
		}
	}

	if len(carry) > 0 {
		table, err := processSegmentLines(carry, result.DocLengths, result.Bodies, &result.MaxDocID)
		if err != nil {
			return result, err
		}
		if len(table) > 0 {
			name := intermediateFileName(segmentIndex)
			if err := flushSegmentTable(table, filepath.Join(outDir, name)); err != nil {
				return result, err
			}
			result.IntermediateFiles = append(result.IntermediateFiles, name)
		}
	}
	return result, nil
}

// processSegmentLines tokenizes each "docId\tbody\n" line in lines and
// returns the resulting segment table, updating docLengths and bodies in
// place.
func processSegmentLines(lines []byte, docLengths map[uint32]uint32, bodies map[uint32]string, maxDocID *uint32) (segmentTable, error) {
	table := make(segmentTable)
	start := 0
	for start < len(lines) {
		end := bytes.IndexByte(lines[start:], '\n')
		var line []byte
		if end == -1 {
			line = lines[start:]
			start = len(lines)
		} else {
			line = lines[start : start+end]
			start += end + 1
		}
		if len(line) == 0 {
			continue
		}
		tab := bytes.IndexByte(line, '\t')
		if tab == -1 {
			continue
		}
		docIDStr := line[:tab]
		rawBody := line[tab+1:]

		var docID64 uint64
		malformedDocID := len(docIDStr) == 0
		for _, c := range docIDStr {
			if c < '0' || c > '9' {
				malformedDocID = true
				break
			}
			docID64 = docID64*10 + uint64(c-'0')
		}
		if malformedDocID {
			continue
		}
		body := append([]byte{}, rawBody...)
		tokenize.Normalize(body)
		docID := uint32(docID64)
		if docID > *maxDocID {
			*maxDocID = docID
		}
		bodies[docID] = string(rawBody)

		terms := tokenize.Split(string(body))
		for _, term := range terms {
			table.update(term, docID)
		}
		docLengths[docID] += uint32(len(terms))
	}
	return table, nil
}

// flushSegmentTable writes table to path in the intermediate binary format
// (§6.2): for each term, sorted alphabetically, a length-prefixed word, a
// posting count, then its docIDs and frequencies as parallel int32 arrays.
func flushSegmentTable(table segmentTable, path string) error {
	terms := make([]string, 0, len(table))
	for term := range table {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create intermediate file %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	for _, term := range terms {
		acc := table[term]
		if err := binary.Write(w, binary.LittleEndian, int32(len(term))); err != nil {
			return fmt.Errorf("write word length: %w", err)
		}
		if _, err := w.WriteString(term); err != nil {
			return fmt.Errorf("write word: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, int32(len(acc.docIDs))); err != nil {
			return fmt.Errorf("write posting count: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, acc.docIDs); err != nil {
			return fmt.Errorf("write docIDs: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, acc.freqs); err != nil {
			return fmt.Errorf("write frequencies: %w", err)
		}
	}
	return w.Flush()
}
