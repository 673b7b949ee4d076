package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// lexiconTableSize is the modulus used by the DJB2-hashed lexicon chaining
// table: the next prime above 2*10^6.
const lexiconTableSize = 2000003

// lexiconFileName is the ASCII lexicon file written alongside the index.
const lexiconFileName = "lexicon.txt"

// djb2Hash hashes term into a slot in [0, lexiconTableSize) using the DJB2
// algorithm (hash*33 + c per byte), matching the chaining table used by the
// original lexicon lookup.
func djb2Hash(term string) uint32 {
	hash := uint32(5381)
	for i := 0; i < len(term); i++ {
		hash = hash*33 + uint32(term[i])
	}
	return hash % lexiconTableSize
}

// LexiconTable is a DJB2-hashed chaining table mapping terms to their
// LexiconEntry, built once at query startup from the ASCII lexicon file.
type LexiconTable struct {
	slots [][]LexiconEntry
}

// NewLexiconTable allocates an empty table.
func NewLexiconTable() *LexiconTable {
	return &LexiconTable{slots: make([][]LexiconEntry, lexiconTableSize)}
}

// Add inserts entry into its hash slot, prepended ahead of any existing
// chain as in the original table.
func (t *LexiconTable) Add(entry LexiconEntry) {
	slot := djb2Hash(entry.Term)
	t.slots[slot] = append([]LexiconEntry{entry}, t.slots[slot]...)
}

// Lookup returns the entry for term, if present.
func (t *LexiconTable) Lookup(term string) (LexiconEntry, bool) {
	slot := djb2Hash(term)
	for _, e := range t.slots[slot] {
		if e.Term == term {
			return e, true
		}
	}
	return LexiconEntry{}, false
}

// WriteLexicon appends entry's "term startChunk endChunk\n" line to w, in
// the on-disk ASCII format shared by the builder and the query-time loader.
func WriteLexicon(w *bufio.Writer, entry LexiconEntry) error {
	_, err := fmt.Fprintf(w, "%s %d %d\n", entry.Term, entry.StartChunk, entry.EndChunk)
	return err
}

// LoadLexiconTable reads lexicon.txt from dir and builds the hash table
// used for query-time term lookup.
func LoadLexiconTable(dir string) (*LexiconTable, error) {
	f, err := os.Open(filepath.Join(dir, lexiconFileName))
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	table := NewLexiconTable()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed lexicon line %q", line)
		}
		start, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse start chunk in %q: %w", line, err)
		}
		end, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse end chunk in %q: %w", line, err)
		}
		table.Add(LexiconEntry{Term: fields[0], StartChunk: uint32(start), EndChunk: uint32(end)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lexicon: %w", err)
	}
	return table, nil
}
