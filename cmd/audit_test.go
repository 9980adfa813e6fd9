package cmd

import (
	"path/filepath"
	"testing"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/dataclaw/dataclaw/testutil"
)

func TestAuditCommand_Empty(t *testing.T) {
	home := t.TempDir()

	if err := runCommand(t, home, "audit"); err != nil {
		t.Errorf("audit with empty log: %v", err)
	}
}

func TestAuditCommand_AfterExport(t *testing.T) {
	home := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "exports")
	claudeDir := testutil.WriteClaudeDir(t, map[string][]string{
		"-Users-alice-myapp": {"sess-one"},
	})
	writeHomeConfig(t, home, "redact_usernames:\n  - alice\n")

	if err := runCommand(t, home, "export", "--claude-dir", claudeDir, "--out", outDir); err != nil {
		t.Fatalf("export: %v", err)
	}

	// Export anonymized the fixture's alice paths, so records must exist.
	log := internal.NewFileAuditLog(filepath.Join(home, ".dataclaw", "audit.log"))
	count, err := log.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Error("export produced no audit records")
	}

	if err := runCommand(t, home, "audit", "--limit", "5"); err != nil {
		t.Errorf("audit: %v", err)
	}
}
