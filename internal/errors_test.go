package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorTypes(t *testing.T) {
	base := errors.New("disk on fire")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "index error",
			err:  &IndexError{Path: "/tmp/search.db", Op: "write", Err: base},
			want: []string{"index error", "write", "/tmp/search.db"},
		},
		{
			name: "parse error",
			err:  &ParseError{Source: "session", Key: "/tmp/s.jsonl", Err: base},
			want: []string{"parse error", "session", "/tmp/s.jsonl"},
		},
		{
			name: "audit error",
			err:  &AuditError{Path: "/tmp/audit.log", Err: base},
			want: []string{"audit log error", "/tmp/audit.log"},
		},
		{
			name: "export error",
			err:  &ExportError{Format: "jsonl", Path: "/tmp/out", Err: base},
			want: []string{"export error", "jsonl", "/tmp/out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.want {
				if !strings.Contains(msg, part) {
					t.Errorf("Error() = %q, missing %q", msg, part)
				}
			}
			if !errors.Is(tt.err, base) {
				t.Error("Unwrap does not reach the base error")
			}
		})
	}
}
