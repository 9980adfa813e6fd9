package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// logEntry is one line of a Claude Code session JSONL file
type logEntry struct {
	Type      string          `json:"type"`
	Cwd       string          `json:"cwd,omitempty"`
	GitBranch string          `json:"gitBranch,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Message   *logMessage     `json:"message,omitempty"`
}

type logMessage struct {
	Model   string          `json:"model,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	Usage   *logUsage       `json:"usage,omitempty"`
}

type logUsage struct {
	InputTokens          int `json:"input_tokens"`
	OutputTokens         int `json:"output_tokens"`
	CacheReadInputTokens int `json:"cache_read_input_tokens"`
}

// contentBlock is one element of an assistant message's content array
type contentBlock struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Thinking string          `json:"thinking,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

// ParseSessionFile parses one session JSONL file into a Session. Malformed
// lines are counted and skipped, never fatal. Returns nil when the file
// yields no messages at all.
func ParseSessionFile(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: "session", Key: path, Err: err}
	}
	defer f.Close()

	session := &Session{
		ID: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	skipped := 0
	sawMeta := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			skipped++
			continue
		}

		if !sawMeta && entry.Cwd != "" {
			sawMeta = true
			session.GitBranch = entry.GitBranch
			if entry.SessionID != "" {
				session.ID = entry.SessionID
			}
		}

		processEntry(&entry, session)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Source: "session", Key: path, Err: err}
	}

	if skipped > 0 {
		LogDebug("Skipped %d malformed lines in %s", skipped, filepath.Base(path))
	}
	session.Stats.SkippedLines = skipped

	if len(session.Messages) == 0 {
		return nil, nil
	}
	return session, nil
}

func processEntry(entry *logEntry, session *Session) {
	timestamp := normalizeTimestamp(entry.Timestamp)

	switch entry.Type {
	case "user":
		content := extractUserContent(entry)
		if content == "" {
			return
		}
		session.Messages = append(session.Messages, Message{
			Role:      "user",
			Content:   content,
			Timestamp: timestamp,
		})
		session.Stats.UserMessages++
		if session.StartTime == "" {
			session.StartTime = timestamp
		}
		session.EndTime = timestamp

	case "assistant":
		msg := extractAssistantContent(entry)
		if msg == nil {
			return
		}
		if session.Model == "" && entry.Message != nil {
			session.Model = entry.Message.Model
		}
		if entry.Message != nil && entry.Message.Usage != nil {
			u := entry.Message.Usage
			session.Stats.InputTokens += u.InputTokens + u.CacheReadInputTokens
			session.Stats.OutputTokens += u.OutputTokens
		}
		session.Stats.ToolUses += len(msg.ToolUses)
		msg.Timestamp = timestamp
		session.Messages = append(session.Messages, *msg)
		session.Stats.AssistantMessages++
		session.EndTime = timestamp
	}
}

// extractUserContent handles both string content and block-array content
func extractUserContent(entry *logEntry) string {
	if entry.Message == nil || len(entry.Message.Content) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(entry.Message.Content, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var blocks []contentBlock
	if err := json.Unmarshal(entry.Message.Content, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func extractAssistantContent(entry *logEntry) *Message {
	if entry.Message == nil || len(entry.Message.Content) == 0 {
		return nil
	}

	var blocks []contentBlock
	if err := json.Unmarshal(entry.Message.Content, &blocks); err != nil {
		return nil
	}

	var textParts, thinkingParts []string
	var toolUses []ToolUse

	for _, b := range blocks {
		switch b.Type {
		case "text":
			if text := strings.TrimSpace(b.Text); text != "" {
				textParts = append(textParts, text)
			}
		case "thinking":
			if thinking := strings.TrimSpace(b.Thinking); thinking != "" {
				thinkingParts = append(thinkingParts, thinking)
			}
		case "tool_use":
			toolUses = append(toolUses, ToolUse{
				Tool:  b.Name,
				Input: parseToolInput(b.Name, b.Input),
			})
		}
	}

	if len(textParts) == 0 && len(thinkingParts) == 0 && len(toolUses) == 0 {
		return nil
	}

	return &Message{
		Role:     "assistant",
		Content:  strings.Join(textParts, "\n\n"),
		Thinking: strings.Join(thinkingParts, "\n\n"),
		ToolUses: toolUses,
	}
}

// parseToolInput summarizes a tool invocation's input to the fields worth
// keeping per tool. The values stay raw here; redaction happens on the
// full value later, before any truncation.
func parseToolInput(toolName string, raw json.RawMessage) ToolInput {
	if len(raw) == 0 {
		return ToolInput{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return TextInput(string(raw))
	}

	str := func(key string) string {
		var s string
		if err := json.Unmarshal(fields[key], &s); err != nil {
			return ""
		}
		return s
	}

	switch strings.ToLower(toolName) {
	case "read", "edit":
		return FieldInput(map[string]string{"file_path": str("file_path")})
	case "write":
		return FieldInput(map[string]string{
			"file_path":     str("file_path"),
			"content_chars": fmt.Sprintf("%d", len(str("content"))),
		})
	case "bash":
		return TextInput(str("command"))
	case "grep":
		return FieldInput(map[string]string{"pattern": str("pattern"), "path": str("path")})
	case "glob":
		return FieldInput(map[string]string{"pattern": str("pattern"), "path": str("path")})
	case "task":
		return TextInput(str("prompt"))
	case "websearch":
		return TextInput(str("query"))
	case "webfetch":
		return TextInput(str("url"))
	default:
		return TextInput(string(raw))
	}
}

// normalizeTimestamp accepts RFC3339 strings or Unix millisecond numbers
func normalizeTimestamp(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
	}
	return ""
}

// ParseProjectSessions parses every session in one project directory.
// Sessions that fail to parse are skipped with a warning; one bad file
// never aborts the batch.
func ParseProjectSessions(claudeDir, projectDirName string) ([]*Session, error) {
	projectPath := filepath.Join(claudeDir, "projects", projectDirName)
	files, err := filepath.Glob(filepath.Join(projectPath, "*.jsonl"))
	if err != nil {
		return nil, &ParseError{Source: "session", Key: projectPath, Err: err}
	}
	sort.Strings(files)

	displayName := BuildProjectName(projectDirName)

	var sessions []*Session
	for _, file := range files {
		session, err := ParseSessionFile(file)
		if err != nil {
			LogWarn("Skipping %s: %v", filepath.Base(file), err)
			continue
		}
		if session == nil {
			continue
		}
		session.Project = displayName
		sessions = append(sessions, session)
	}
	return sessions, nil
}
