package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Entropy.Threshold != DefaultEntropyThreshold {
		t.Errorf("entropy threshold = %f", cfg.Entropy.Threshold)
	}
	if cfg.Entropy.MinLength != DefaultEntropyMinLength {
		t.Errorf("entropy min length = %d", cfg.Entropy.MinLength)
	}
	if cfg.Search.K1 != DefaultBM25K1 || cfg.Search.B != DefaultBM25B {
		t.Errorf("bm25 params = %f/%f", cfg.Search.K1, cfg.Search.B)
	}
	if cfg.Search.MaxContentLength != DefaultMaxContentLength {
		t.Errorf("max content length = %d", cfg.Search.MaxContentLength)
	}
	if cfg.Salt != "" {
		t.Errorf("default salt = %q, want empty", cfg.Salt)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Search.K1 != DefaultBM25K1 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "salt: pepper\nredact_usernames:\n  - alice\nentropy:\n  threshold: 3.5\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Salt != "pepper" {
		t.Errorf("salt = %q", cfg.Salt)
	}
	if len(cfg.RedactUsernames) != 1 || cfg.RedactUsernames[0] != "alice" {
		t.Errorf("redact_usernames = %v", cfg.RedactUsernames)
	}
	if cfg.Entropy.Threshold != 3.5 {
		t.Errorf("entropy threshold = %f, want 3.5", cfg.Entropy.Threshold)
	}
	// Unset values keep their defaults.
	if cfg.Entropy.MinLength != DefaultEntropyMinLength {
		t.Errorf("entropy min length = %d", cfg.Entropy.MinLength)
	}
	if cfg.Search.K1 != DefaultBM25K1 {
		t.Errorf("k1 = %f", cfg.Search.K1)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("salt: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	want := DefaultConfig()
	want.Salt = "pepper"
	want.RedactUsernames = []string{"alice", "bob_dev"}
	want.RedactStrings = []string{"project-hush"}

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Salt != want.Salt {
		t.Errorf("salt = %q", got.Salt)
	}
	if len(got.RedactUsernames) != 2 || got.RedactUsernames[1] != "bob_dev" {
		t.Errorf("redact_usernames = %v", got.RedactUsernames)
	}
	if len(got.RedactStrings) != 1 || got.RedactStrings[0] != "project-hush" {
		t.Errorf("redact_strings = %v", got.RedactStrings)
	}
}

func TestResolveClaudeDir(t *testing.T) {
	t.Run("explicit config wins", func(t *testing.T) {
		t.Setenv("CLAUDE_DIR", "/env/claude")
		cfg := Config{ClaudeDir: "/cfg/claude"}
		got, err := cfg.ResolveClaudeDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != "/cfg/claude" {
			t.Errorf("dir = %s", got)
		}
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("CLAUDE_DIR", "/env/claude")
		got, err := Config{}.ResolveClaudeDir()
		if err != nil {
			t.Fatal(err)
		}
		if got != "/env/claude" {
			t.Errorf("dir = %s", got)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		t.Setenv("CLAUDE_DIR", "")
		got, err := Config{}.ResolveClaudeDir()
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(got) != ".claude" {
			t.Errorf("dir = %s", got)
		}
	})
}
