package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Document is one indexed session: raw (not anonymized) content, its token
// length, and a back-reference to the session. Raw content is indexed by
// design so users can search for the literal strings they remember; the
// index never leaves the local machine, and everything displayed from it
// passes through the redactor first.
type Document struct {
	SessionID string
	Project   string
	StartTime string
	Content   string
	Length    int
}

// Posting records one document's occurrence data for a term
type Posting struct {
	SessionID string
	Freq      int
}

// IndexStats holds global corpus statistics for BM25 scoring
type IndexStats struct {
	DocumentCount int
	AvgDocLength  float64
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS documents (
	session_id TEXT PRIMARY KEY,
	project    TEXT NOT NULL DEFAULT '',
	start_time TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	length     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS postings (
	term       TEXT NOT NULL,
	session_id TEXT NOT NULL,
	freq       INTEGER NOT NULL,
	PRIMARY KEY (term, session_id)
);
CREATE INDEX IF NOT EXISTS idx_postings_term ON postings(term);
`

// Store owns the on-disk search index. All mutation is serialized through
// its mutex (one writer at a time); sqlite's own file locking covers
// access from other processes. The index is a derived artifact: if it is
// ever corrupted, a forced rebuild from the raw sessions recreates it.
type Store struct {
	path       string
	db         *sql.DB
	mu         sync.Mutex
	maxContent int
}

// OpenStore opens (or creates) the index database at path
func OpenStore(path string, cfg Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &IndexError{Path: path, Op: "open", Err: err}
	}

	db, err := openIndexDB(path)
	if err != nil {
		return nil, err
	}

	return &Store{
		path:       path,
		db:         db,
		maxContent: cfg.Search.MaxContentLength,
	}, nil
}

func openIndexDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &IndexError{Path: path, Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &IndexError{Path: path, Op: "open", Err: err}
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, &IndexError{Path: path, Op: "open", Err: err}
	}
	return db, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the index file location
func (s *Store) Path() string {
	return s.path
}

// Add indexes one session, replacing any previous entry for the same
// session ID. Content is capped at the configured maximum before
// tokenization to bound index size.
func (s *Store) Add(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(s.db, session)
}

func (s *Store) addLocked(db *sql.DB, session *Session) error {
	if session == nil || session.ID == "" {
		return &IndexError{Path: s.path, Op: "write", Err: fmt.Errorf("session has no ID")}
	}

	content := session.ContentForIndex()
	if s.maxContent > 0 && len(content) > s.maxContent {
		content = content[:s.maxContent]
	}

	freqs := TermFrequencies(content)
	length := 0
	for _, f := range freqs {
		length += f
	}

	tx, err := db.Begin()
	if err != nil {
		return &IndexError{Path: s.path, Op: "write", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM postings WHERE session_id = ?`, session.ID); err != nil {
		return &IndexError{Path: s.path, Op: "write", Err: err}
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO documents (session_id, project, start_time, content, length) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Project, session.StartTime, content, length,
	); err != nil {
		return &IndexError{Path: s.path, Op: "write", Err: err}
	}

	stmt, err := tx.Prepare(`INSERT INTO postings (term, session_id, freq) VALUES (?, ?, ?)`)
	if err != nil {
		return &IndexError{Path: s.path, Op: "write", Err: err}
	}
	defer stmt.Close()
	for term, freq := range freqs {
		if _, err := stmt.Exec(term, session.ID, freq); err != nil {
			return &IndexError{Path: s.path, Op: "write", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &IndexError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Has reports whether a session is already indexed
func (s *Store) Has(sessionID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return false, &IndexError{Path: s.path, Op: "read", Err: err}
	}
	return n > 0, nil
}

// Rebuild replaces the whole index from scratch. The new index is built in
// a temporary file and atomically renamed over the old one, so a rebuild
// interrupted at any point leaves the previous index intact and queryable.
func (s *Store) Rebuild(sessions []*Session, progress func(done, total int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath := s.path + ".tmp"
	_ = os.Remove(tmpPath)

	tmpDB, err := openIndexDB(tmpPath)
	if err != nil {
		return &IndexError{Path: tmpPath, Op: "rebuild", Err: err}
	}

	for i, session := range sessions {
		if err := s.addLocked(tmpDB, session); err != nil {
			tmpDB.Close()
			_ = os.Remove(tmpPath)
			return &IndexError{Path: tmpPath, Op: "rebuild", Err: err}
		}
		if progress != nil {
			progress(i+1, len(sessions))
		}
	}

	if err := tmpDB.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &IndexError{Path: tmpPath, Op: "rebuild", Err: err}
	}

	// Swap: close the live handle, then atomically replace the file.
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return &IndexError{Path: s.path, Op: "rebuild", Err: err}
		}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return &IndexError{Path: s.path, Op: "rebuild", Err: err}
	}

	db, err := openIndexDB(s.path)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Stats returns global corpus statistics
func (s *Store) Stats() (IndexStats, error) {
	var stats IndexStats
	var avg sql.NullFloat64
	err := s.db.QueryRow(`SELECT COUNT(*), AVG(length) FROM documents`).Scan(&stats.DocumentCount, &avg)
	if err != nil {
		return stats, &IndexError{Path: s.path, Op: "read", Err: err}
	}
	if avg.Valid {
		stats.AvgDocLength = avg.Float64
	}
	return stats, nil
}

// Postings returns the postings list for a term
func (s *Store) Postings(term string) ([]Posting, error) {
	rows, err := s.db.Query(`SELECT session_id, freq FROM postings WHERE term = ?`, term)
	if err != nil {
		return nil, &IndexError{Path: s.path, Op: "read", Err: err}
	}
	defer rows.Close()

	var postings []Posting
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.SessionID, &p.Freq); err != nil {
			return nil, &IndexError{Path: s.path, Op: "read", Err: err}
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &IndexError{Path: s.path, Op: "read", Err: err}
	}
	return postings, nil
}

// Document loads one indexed document by session ID
func (s *Store) Document(sessionID string) (*Document, error) {
	var doc Document
	err := s.db.QueryRow(
		`SELECT session_id, project, start_time, content, length FROM documents WHERE session_id = ?`,
		sessionID,
	).Scan(&doc.SessionID, &doc.Project, &doc.StartTime, &doc.Content, &doc.Length)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &IndexError{Path: s.path, Op: "read", Err: err}
	}
	return &doc, nil
}
