package build

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

const docLengthsFileName = "doclengths.bin"

// WriteDocLengths writes one uint32 per docID in [0, maxDocID] to
// doclengths.bin under dir, in the byte-for-byte format of §6.5: docIDs
// that never appeared in the corpus are written as 0.
func WriteDocLengths(dir string, docLengths map[uint32]uint32, maxDocID uint32) error {
	f, err := os.Create(filepath.Join(dir, docLengthsFileName))
	if err != nil {
		return fmt.Errorf("create doc-lengths file: %w", err)
	}
	defer f.Close()

	flat := make([]uint32, maxDocID+1)
	for docID, length := range docLengths {
		flat[docID] = length
	}
	if err := binary.Write(f, binary.LittleEndian, flat); err != nil {
		return fmt.Errorf("write doc lengths: %w", err)
	}
	return nil
}

// ReadDocLengths loads doclengths.bin from dir.
func ReadDocLengths(dir string) ([]uint32, error) {
	f, err := os.Open(filepath.Join(dir, docLengthsFileName))
	if err != nil {
		return nil, fmt.Errorf("open doc-lengths file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat doc-lengths file: %w", err)
	}
	flat := make([]uint32, info.Size()/4)
	if err := binary.Read(f, binary.LittleEndian, flat); err != nil {
		return nil, fmt.Errorf("read doc lengths: %w", err)
	}
	return flat, nil
}

// AverageDocLength computes L_avg over only the docIDs that actually occur
// in the corpus, per the resolved Open Question: a docID absent from the
// docLengths map contributes neither to the sum nor the count, even though
// WriteDocLengths writes its slot as zero.
func AverageDocLength(docLengths map[uint32]uint32) int {
	if len(docLengths) == 0 {
		return 0
	}
	var sum uint64
	for _, l := range docLengths {
		sum += uint64(l)
	}
	return int(sum / uint64(len(docLengths)))
}
