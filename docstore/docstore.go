// Package docstore is the SQLite-backed document body store used at query
// time to render result snippets: a single documents(doc_id, body) table
// populated once during the build pipeline and queried read-only afterward,
// in the manner of the teacher's sqlite3-backed ros package (compare
// ros2db3_to_mcap.go).
package docstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const missingBody = "<missing>"

const schema = `CREATE TABLE IF NOT EXISTS documents (
	doc_id INTEGER PRIMARY KEY,
	body   TEXT NOT NULL
)`

// Store wraps a SQLite database holding the corpus's document bodies.
type Store struct {
	db *sql.DB
}

// Create opens (creating if necessary) the document store at path and
// ensures its schema exists.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create document store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens an existing document store read-only for query-time lookups.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a single document body, keyed by docID.
func (s *Store) Insert(docID uint32, body string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO documents (doc_id, body) VALUES (?, ?)`, docID, body)
	if err != nil {
		return fmt.Errorf("insert document %d: %w", docID, err)
	}
	return nil
}

// InsertBatch stores a batch of document bodies inside a single transaction,
// matching the teacher's pattern of batching writes through *sql.Tx rather
// than issuing one statement per row.
func (s *Store) InsertBatch(bodies map[uint32]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin document store transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO documents (doc_id, body) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare document insert: %w", err)
	}
	defer stmt.Close()

	for docID, body := range bodies {
		if _, err := stmt.Exec(docID, body); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert document %d: %w", docID, err)
		}
	}
	return tx.Commit()
}

// Lookup returns the body stored for docID, or missingBody's sentinel text
// ("<missing>") if no row exists for it rather than failing the caller's
// whole query.
func (s *Store) Lookup(docID uint32) (string, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM documents WHERE doc_id = ?`, docID).Scan(&body)
	if err == sql.ErrNoRows {
		return missingBody, nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup document %d: %w", docID, err)
	}
	return body, nil
}
