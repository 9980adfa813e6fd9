package cmd

import (
	"testing"

	"github.com/dataclaw/dataclaw/testutil"
)

func TestStatsCommand_NoIndex(t *testing.T) {
	home := t.TempDir()

	// A fresh machine with no index prints guidance, not an error.
	if err := runCommand(t, home, "stats"); err != nil {
		t.Errorf("stats without index: %v", err)
	}
}

func TestStatsCommand_WithIndex(t *testing.T) {
	home := t.TempDir()
	claudeDir := testutil.WriteClaudeDir(t, map[string][]string{
		"-Users-alice-myapp": {"sess-one"},
	})

	if err := runCommand(t, home, "index", "--claude-dir", claudeDir); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := runCommand(t, home, "stats"); err != nil {
		t.Errorf("stats: %v", err)
	}
}
