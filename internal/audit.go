package internal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditRecord notes that one anonymization occurred. It carries enough
// metadata to reconstruct what happened but never the original sensitive
// value.
type AuditRecord struct {
	Timestamp string `json:"timestamp"`
	Category  string `json:"category"`
	Pseudonym string `json:"pseudonym"`
	Context   string `json:"context,omitempty"`
}

// AuditSink is a write-only destination for audit records. Records are
// append-only: the system never edits or deletes them.
type AuditSink interface {
	Append(record AuditRecord) error
}

// FileAuditLog appends records to a local file, one JSON record per line.
type FileAuditLog struct {
	path string
	mu   sync.Mutex
}

// NewFileAuditLog creates a file-backed audit sink at path
func NewFileAuditLog(path string) *FileAuditLog {
	return &FileAuditLog{path: path}
}

// Append writes one record. A write failure is returned as an AuditError
// so callers can abort the operation that required the record.
func (l *FileAuditLog) Append(record AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return &AuditError{Path: l.path, Err: err}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return &AuditError{Path: l.path, Err: err}
	}
	defer f.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return &AuditError{Path: l.path, Err: err}
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return &AuditError{Path: l.path, Err: err}
	}
	return nil
}

// ReadRecent returns up to limit records from the end of the log. Lines
// that fail to parse are skipped; the log itself is never rewritten.
func (l *FileAuditLog) ReadRecent(limit int) ([]AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &AuditError{Path: l.path, Err: err}
	}
	defer f.Close()

	var records []AuditRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, &AuditError{Path: l.path, Err: err}
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// Count returns the number of records in the log
func (l *FileAuditLog) Count() (int, error) {
	records, err := l.ReadRecent(0)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// MemoryAuditLog collects records in memory, for tests and dry runs
type MemoryAuditLog struct {
	mu      sync.Mutex
	Records []AuditRecord
}

// Append stores the record
func (l *MemoryAuditLog) Append(record AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Records = append(l.Records, record)
	return nil
}

// auditNow formats the current time for a record
func auditNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
