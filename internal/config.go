package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default tuning values. All of them can be overridden in the config file.
const (
	DefaultEntropyThreshold  = 4.0
	DefaultEntropyMinLength  = 24
	DefaultBM25K1            = 1.4
	DefaultBM25B             = 0.75
	DefaultMaxContentLength  = 80000
	DefaultMaxToolInputChars = 300
	DefaultSnippetWindow     = 100
)

// Config holds everything the redaction and search core consumes. It is
// threaded explicitly through anonymizer/redactor/index calls so that
// pseudonymization stays a pure function of its inputs.
type Config struct {
	// Salt is mixed into pseudonym hashing. An empty salt keeps output
	// compatible with indexes built before a salt was configured.
	Salt string `yaml:"salt,omitempty"`

	// RedactUsernames lists extra identifiers (GitHub handles, Discord
	// names) anonymized with the same pseudonym scheme as the OS user.
	RedactUsernames []string `yaml:"redact_usernames,omitempty"`

	// RedactStrings lists literal strings that are always redacted.
	RedactStrings []string `yaml:"redact_strings,omitempty"`

	Entropy EntropyConfig `yaml:"entropy,omitempty"`
	Search  SearchConfig  `yaml:"search,omitempty"`

	// ClaudeDir overrides the session log location (default ~/.claude).
	ClaudeDir string `yaml:"claude_dir,omitempty"`
}

// EntropyConfig tunes the high-entropy string heuristic
type EntropyConfig struct {
	Threshold float64 `yaml:"threshold,omitempty"`
	MinLength int     `yaml:"min_length,omitempty"`
}

// SearchConfig tunes BM25 scoring and index size
type SearchConfig struct {
	K1               float64 `yaml:"k1,omitempty"`
	B                float64 `yaml:"b,omitempty"`
	MaxContentLength int     `yaml:"max_content_length,omitempty"`
}

// DefaultConfig returns a config with all tuning values at their defaults
func DefaultConfig() Config {
	return Config{
		Entropy: EntropyConfig{
			Threshold: DefaultEntropyThreshold,
			MinLength: DefaultEntropyMinLength,
		},
		Search: SearchConfig{
			K1:               DefaultBM25K1,
			B:                DefaultBM25B,
			MaxContentLength: DefaultMaxContentLength,
		},
	}
}

// ConfigDir returns the dataclaw data directory (~/.dataclaw)
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dataclaw"), nil
}

// DefaultConfigPath returns the well-known config file location
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultIndexPath returns the well-known search index location
func DefaultIndexPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "search.db"), nil
}

// DefaultAuditPath returns the well-known audit log location
func DefaultAuditPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.log"), nil
}

// LoadConfig reads a YAML config file and fills in defaults for any value
// left unset. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), &ParseError{Source: "config", Key: path, Err: err}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// SaveConfig writes the config as YAML, creating the directory if needed
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyDefaults() {
	if c.Entropy.Threshold == 0 {
		c.Entropy.Threshold = DefaultEntropyThreshold
	}
	if c.Entropy.MinLength == 0 {
		c.Entropy.MinLength = DefaultEntropyMinLength
	}
	if c.Search.K1 == 0 {
		c.Search.K1 = DefaultBM25K1
	}
	if c.Search.B == 0 {
		c.Search.B = DefaultBM25B
	}
	if c.Search.MaxContentLength == 0 {
		c.Search.MaxContentLength = DefaultMaxContentLength
	}
}

// ResolveClaudeDir returns the session log directory: explicit config
// first, then the CLAUDE_DIR environment variable, then ~/.claude.
func (c Config) ResolveClaudeDir() (string, error) {
	if c.ClaudeDir != "" {
		return c.ClaudeDir, nil
	}
	if env := os.Getenv("CLAUDE_DIR"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude"), nil
}
