package internal

import (
	"sort"
	"strings"
)

// Session represents one recorded Claude Code interaction, parsed from a
// project's JSONL log. Sessions are immutable once parsed; redaction
// produces a derived copy and never mutates the original.
type Session struct {
	ID        string    `json:"session_id"`
	Project   string    `json:"project,omitempty"`
	Model     string    `json:"model,omitempty"`
	GitBranch string    `json:"git_branch,omitempty"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Messages  []Message `json:"messages"`
	Stats     Stats     `json:"stats"`
}

// Message represents a single user or assistant turn
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content,omitempty"`
	Thinking  string    `json:"thinking,omitempty"`
	ToolUses  []ToolUse `json:"tool_uses,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// ToolUse records a tool invocation. Tool results are not present in the
// upstream logs, so there is deliberately no result field.
type ToolUse struct {
	Tool  string    `json:"tool"`
	Input ToolInput `json:"input"`
}

// ToolInput is a tagged variant: either free text or structured key-value
// fields, depending on what the log carried for the tool call.
type ToolInput struct {
	Text   string            `json:"text,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// TextInput creates a free-text tool input
func TextInput(text string) ToolInput {
	return ToolInput{Text: text}
}

// FieldInput creates a structured key-value tool input
func FieldInput(fields map[string]string) ToolInput {
	return ToolInput{Fields: fields}
}

// Flatten renders the input as a single string for redaction and display.
// Structured fields are emitted in key order so output is stable.
func (in ToolInput) Flatten() string {
	if len(in.Fields) == 0 {
		return in.Text
	}
	keys := make([]string, 0, len(in.Fields))
	for k := range in.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(in.Fields[k])
	}
	return b.String()
}

// Stats holds aggregate counters for a session
type Stats struct {
	UserMessages      int `json:"user_messages"`
	AssistantMessages int `json:"assistant_messages"`
	ToolUses          int `json:"tool_uses"`
	InputTokens       int `json:"input_tokens"`
	OutputTokens      int `json:"output_tokens"`
	SkippedLines      int `json:"skipped_lines"`
}

// ContentForIndex joins all message text for indexing. Thinking blocks and
// flattened tool inputs are included so reasoning traces and commands are
// searchable too.
func (s *Session) ContentForIndex() string {
	parts := make([]string, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.Content != "" {
			parts = append(parts, msg.Content)
		}
		if msg.Thinking != "" {
			parts = append(parts, msg.Thinking)
		}
		for _, tu := range msg.ToolUses {
			if flat := tu.Input.Flatten(); flat != "" {
				parts = append(parts, flat)
			}
		}
	}
	return strings.Join(parts, " ")
}
