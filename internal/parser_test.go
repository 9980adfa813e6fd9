package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSessionFixture(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

var sampleSessionLines = []string{
	`{"type":"user","cwd":"/Users/alice/proj","gitBranch":"main","sessionId":"sess-abc","timestamp":"2026-01-10T12:00:00Z","message":{"content":"Fix the bug in main.go"}}`,
	`{"type":"assistant","timestamp":"2026-01-10T12:00:05Z","message":{"model":"claude-sonnet-4","usage":{"input_tokens":100,"output_tokens":50,"cache_read_input_tokens":10},"content":[{"type":"thinking","thinking":"the parser drops the last line"},{"type":"text","text":"Found it."},{"type":"tool_use","name":"Bash","input":{"command":"go test ./..."}}]}}`,
	`this line is not json`,
	`{"type":"user","timestamp":"2026-01-10T12:01:00Z","message":{"content":[{"type":"text","text":"thanks"}]}}`,
}

func TestParseSessionFile(t *testing.T) {
	path := writeSessionFixture(t, t.TempDir(), "sess.jsonl", sampleSessionLines)

	session, err := ParseSessionFile(path)
	if err != nil {
		t.Fatalf("ParseSessionFile: %v", err)
	}
	if session == nil {
		t.Fatal("session = nil")
	}

	if session.ID != "sess-abc" {
		t.Errorf("ID = %s, want sess-abc", session.ID)
	}
	if session.GitBranch != "main" {
		t.Errorf("GitBranch = %s", session.GitBranch)
	}
	if session.Model != "claude-sonnet-4" {
		t.Errorf("Model = %s", session.Model)
	}
	if session.StartTime != "2026-01-10T12:00:00Z" {
		t.Errorf("StartTime = %s", session.StartTime)
	}
	if session.EndTime != "2026-01-10T12:01:00Z" {
		t.Errorf("EndTime = %s", session.EndTime)
	}

	if len(session.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(session.Messages))
	}
	if session.Messages[0].Role != "user" || session.Messages[0].Content != "Fix the bug in main.go" {
		t.Errorf("message 0 = %+v", session.Messages[0])
	}

	asst := session.Messages[1]
	if asst.Role != "assistant" {
		t.Errorf("message 1 role = %s", asst.Role)
	}
	if asst.Content != "Found it." {
		t.Errorf("assistant content = %q", asst.Content)
	}
	if asst.Thinking != "the parser drops the last line" {
		t.Errorf("assistant thinking = %q", asst.Thinking)
	}
	if len(asst.ToolUses) != 1 || asst.ToolUses[0].Tool != "Bash" {
		t.Fatalf("tool uses = %+v", asst.ToolUses)
	}
	if asst.ToolUses[0].Input.Flatten() != "go test ./..." {
		t.Errorf("bash input = %q", asst.ToolUses[0].Input.Flatten())
	}

	if session.Messages[2].Content != "thanks" {
		t.Errorf("block-array user content = %q", session.Messages[2].Content)
	}

	stats := session.Stats
	if stats.UserMessages != 2 || stats.AssistantMessages != 1 {
		t.Errorf("message counts = %+v", stats)
	}
	if stats.ToolUses != 1 {
		t.Errorf("tool uses = %d, want 1", stats.ToolUses)
	}
	if stats.InputTokens != 110 {
		t.Errorf("input tokens = %d, want 110 (incl. cache reads)", stats.InputTokens)
	}
	if stats.OutputTokens != 50 {
		t.Errorf("output tokens = %d, want 50", stats.OutputTokens)
	}
	if stats.SkippedLines != 1 {
		t.Errorf("skipped lines = %d, want 1", stats.SkippedLines)
	}
}

func TestParseSessionFile_IDFromFilename(t *testing.T) {
	lines := []string{
		`{"type":"user","timestamp":"2026-01-10T12:00:00Z","message":{"content":"hello there"}}`,
	}
	path := writeSessionFixture(t, t.TempDir(), "f0e1d2c3.jsonl", lines)

	session, err := ParseSessionFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if session.ID != "f0e1d2c3" {
		t.Errorf("ID = %s, want f0e1d2c3", session.ID)
	}
}

func TestParseSessionFile_EmptyYieldsNil(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"empty file", []string{""}},
		{"only malformed", []string{"not json", "{broken"}},
		{"meta only", []string{`{"type":"summary","summary":"compacted"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSessionFixture(t, t.TempDir(), "s.jsonl", tt.lines)
			session, err := ParseSessionFile(path)
			if err != nil {
				t.Fatalf("ParseSessionFile: %v", err)
			}
			if session != nil {
				t.Errorf("session = %+v, want nil", session)
			}
		})
	}
}

func TestParseSessionFile_MissingFile(t *testing.T) {
	_, err := ParseSessionFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestParseSessionFile_MillisecondTimestamps(t *testing.T) {
	lines := []string{
		`{"type":"user","timestamp":1767960000000,"message":{"content":"numeric timestamp"}}`,
	}
	path := writeSessionFixture(t, t.TempDir(), "s.jsonl", lines)

	session, err := ParseSessionFile(path)
	if err != nil {
		t.Fatal(err)
	}
	ts := session.Messages[0].Timestamp
	if !strings.HasSuffix(ts, "Z") || !strings.Contains(ts, "T") {
		t.Errorf("timestamp %q not normalized to RFC3339 UTC", ts)
	}
}

func TestParseToolInput(t *testing.T) {
	tests := []struct {
		name string
		tool string
		raw  string
		want string
	}{
		{
			name: "read keeps file path",
			tool: "Read",
			raw:  `{"file_path":"/tmp/a.go","limit":50}`,
			want: "file_path=/tmp/a.go",
		},
		{
			name: "write keeps path and length only",
			tool: "Write",
			raw:  `{"file_path":"/tmp/a.go","content":"package main"}`,
			want: "content_chars=12 file_path=/tmp/a.go",
		},
		{
			name: "bash keeps command",
			tool: "Bash",
			raw:  `{"command":"ls -la","description":"list"}`,
			want: "ls -la",
		},
		{
			name: "grep keeps pattern and path",
			tool: "Grep",
			raw:  `{"pattern":"func main","path":"./cmd"}`,
			want: "path=./cmd pattern=func main",
		},
		{
			name: "websearch keeps query",
			tool: "WebSearch",
			raw:  `{"query":"bm25 length normalization"}`,
			want: "bm25 length normalization",
		},
		{
			name: "unknown tool keeps raw json",
			tool: "CustomTool",
			raw:  `{"anything":"goes"}`,
			want: `{"anything":"goes"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parseToolInput(tt.tool, []byte(tt.raw))
			if got := in.Flatten(); got != tt.want {
				t.Errorf("Flatten() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseToolInput_WriteContentNeverKept(t *testing.T) {
	raw := `{"file_path":"/tmp/env","content":"SECRET_VALUE_DO_NOT_KEEP"}`
	in := parseToolInput("Write", []byte(raw))
	if strings.Contains(in.Flatten(), "SECRET_VALUE_DO_NOT_KEEP") {
		t.Errorf("write content leaked into the summary: %q", in.Flatten())
	}
}

func TestParseProjectSessions(t *testing.T) {
	claudeDir := t.TempDir()
	projDir := filepath.Join(claudeDir, "projects", "-Users-alice-myapp")
	if err := os.MkdirAll(projDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeSessionFixture(t, projDir, "b.jsonl", sampleSessionLines)
	writeSessionFixture(t, projDir, "a.jsonl", []string{
		`{"type":"user","timestamp":"2026-01-09T08:00:00Z","message":{"content":"earlier session"}}`,
	})
	// An unreadable/empty session must not abort the batch.
	writeSessionFixture(t, projDir, "c.jsonl", []string{"garbage"})

	sessions, err := ParseProjectSessions(claudeDir, "-Users-alice-myapp")
	if err != nil {
		t.Fatalf("ParseProjectSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "a" {
		t.Errorf("sessions not in filename order: %s first", sessions[0].ID)
	}
	for _, s := range sessions {
		if s.Project != "myapp" {
			t.Errorf("project = %s, want myapp", s.Project)
		}
	}
}

func TestParseProjectSessions_MissingProject(t *testing.T) {
	sessions, err := ParseProjectSessions(t.TempDir(), "-Users-alice-ghost")
	if err != nil {
		t.Fatalf("ParseProjectSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions from missing project", len(sessions))
	}
}
