package internal

import "fmt"

// IndexError represents errors accessing the search index store
type IndexError struct {
	Path string
	Op   string // "open", "read", "write", "rebuild"
	Err  error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing session data
type ParseError struct {
	Source string // "session", "config"
	Key    string // file path or record key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AuditError represents a failure to append to the audit log. Losing the
// audit trail defeats the anonymization auditability guarantee, so these
// are fatal for the operation that triggered them.
type AuditError struct {
	Path string
	Err  error
}

func (e *AuditError) Error() string {
	return fmt.Sprintf("audit log error %s: %v", e.Path, e.Err)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
