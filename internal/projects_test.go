package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildProjectName(t *testing.T) {
	tests := []struct {
		dirName string
		want    string
	}{
		{"-Users-alice-myapp", "myapp"},
		{"-Users-alice-Documents-myapp", "myapp"},
		{"-Users-alice-Downloads-tool", "tool"},
		{"-Users-alice-my-app", "my-app"},
		{"-home-bob-project", "project"},
		{"-home-bob-code-deep-tree", "code-deep-tree"},
		{"-Users-alice", "~home"},
		{"-home-bob", "~home"},
		{"-Users-alice-Documents", "~Documents"},
		{"-Users-alice-Desktop", "~Desktop"},
		{"standalone", "standalone"},
		{"two-words", "two-words"},
		{"", "unknown"},
		{"---", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.dirName, func(t *testing.T) {
			if got := BuildProjectName(tt.dirName); got != tt.want {
				t.Errorf("BuildProjectName(%q) = %q, want %q", tt.dirName, got, tt.want)
			}
		})
	}
}

func TestDiscoverProjects(t *testing.T) {
	claudeDir := t.TempDir()
	projects := filepath.Join(claudeDir, "projects")

	mk := func(dir string, files map[string]string) {
		t.Helper()
		full := filepath.Join(projects, dir)
		if err := os.MkdirAll(full, 0755); err != nil {
			t.Fatal(err)
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}

	mk("-Users-alice-beta", map[string]string{"s1.jsonl": "12345", "s2.jsonl": "123"})
	mk("-Users-alice-alpha", map[string]string{"s1.jsonl": "1234567890"})
	mk("-Users-alice-empty", map[string]string{"notes.txt": "no sessions here"})

	got, err := DiscoverProjects(claudeDir)
	if err != nil {
		t.Fatalf("DiscoverProjects: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d projects, want 2 (empty dir excluded): %+v", len(got), got)
	}

	// Sorted by directory name.
	if got[0].DisplayName != "alpha" || got[1].DisplayName != "beta" {
		t.Errorf("order/names wrong: %+v", got)
	}
	if got[0].SessionCount != 1 || got[0].TotalSizeBytes != 10 {
		t.Errorf("alpha = %+v", got[0])
	}
	if got[1].SessionCount != 2 || got[1].TotalSizeBytes != 8 {
		t.Errorf("beta = %+v", got[1])
	}
}

func TestDiscoverProjects_MissingDir(t *testing.T) {
	got, err := DiscoverProjects(filepath.Join(t.TempDir(), "nowhere"))
	if err != nil {
		t.Fatalf("DiscoverProjects: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d projects, want 0", len(got))
	}
}
