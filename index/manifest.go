package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// manifestFileName is the name of the persisted manifest written alongside
// the index files and lexicon in an index directory.
const manifestFileName = "manifest.json"

// FileManifest records the block layout of a single index file. Every block
// in a file holds exactly ChunksPerBlock chunks except, possibly, the final
// block of the final file, which may be partial.
type FileManifest struct {
	Name       string `json:"name"`
	BlockCount int    `json:"blockCount"`
	ChunkCount int    `json:"chunkCount"`
}

// Manifest records the index files a Builder produced and the total number
// of chunks written, replacing the brittle end-of-file sentinel scanning
// and hardcoded file-count constants that would otherwise be needed to
// locate a term's postings at query time.
type Manifest struct {
	Files      []FileManifest `json:"files"`
	ChunkCount uint32         `json:"chunkCount"`
}

// BuildManifest derives a Manifest from a Builder's bookkeeping. Each file's
// chunk count is its block count times ChunksPerBlock, except that the
// chunks left over for the final file may fill its last block only
// partially.
func (b *Builder) BuildManifest() Manifest {
	m := Manifest{ChunkCount: b.chunkNumber}
	for i, name := range b.files {
		fm := FileManifest{Name: name}
		switch {
		case i < len(b.fileBlockCounts):
			fm.BlockCount = b.fileBlockCounts[i]
		}
		m.Files = append(m.Files, fm)
	}
	chunksLeft := int(b.chunkNumber)
	for i := range m.Files {
		maxChunks := m.Files[i].BlockCount * ChunksPerBlock
		if chunksLeft >= maxChunks {
			m.Files[i].ChunkCount = maxChunks
			chunksLeft -= maxChunks
		} else {
			m.Files[i].ChunkCount = chunksLeft
			chunksLeft = 0
		}
	}
	return m
}

// WriteManifest marshals m as JSON to manifest.json under dir.
func WriteManifest(dir string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, manifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads manifest.json from dir.
func ReadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// locate resolves a 1-based global chunk number to the file that contains
// it and the 0-based chunk offset within that file.
func (m Manifest) locate(globalChunk uint32) (fileIndex int, chunkInFile int, err error) {
	remaining := int(globalChunk) - 1
	for i, f := range m.Files {
		if remaining < f.ChunkCount {
			return i, remaining, nil
		}
		remaining -= f.ChunkCount
	}
	return 0, 0, fmt.Errorf("chunk %d out of range of manifest (total %d chunks)", globalChunk, m.ChunkCount)
}
