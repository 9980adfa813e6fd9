package internal

// CreateTestSession creates a session with sample messages
func CreateTestSession(id string) *Session {
	return &Session{
		ID:        id,
		Project:   "test-project",
		Model:     "claude-sonnet-4",
		StartTime: "2026-01-10T12:00:00Z",
		EndTime:   "2026-01-10T12:05:00Z",
		Messages: []Message{
			{
				Role:      "user",
				Content:   "Help me fix the parser",
				Timestamp: "2026-01-10T12:00:00Z",
			},
			{
				Role:      "assistant",
				Content:   "Sure, let's look at the tokenizer first.",
				Timestamp: "2026-01-10T12:01:00Z",
			},
		},
		Stats: Stats{UserMessages: 1, AssistantMessages: 1},
	}
}

// CreateTestSessionWithContent creates a session whose single user message
// carries the given content, for index and search tests.
func CreateTestSessionWithContent(id, startTime, content string) *Session {
	return &Session{
		ID:        id,
		Project:   "test-project",
		StartTime: startTime,
		Messages: []Message{
			{Role: "user", Content: content, Timestamp: startTime},
		},
		Stats: Stats{UserMessages: 1},
	}
}

// TestConfig returns a config with deterministic test values and a fixed
// extra username list.
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Salt = "test-salt"
	cfg.RedactUsernames = []string{"alice", "bob_dev"}
	return cfg
}
