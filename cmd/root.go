package cmd

import (
	"fmt"
	"os"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	claudeDir  string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dataclaw",
	Short: "Redact and search your Claude Code sessions",
	Long: `Parse Claude Code session logs, strip secrets and PII, and search them
locally with BM25 ranking.

Raw session content is indexed locally so you can search for the exact
strings you remember (your own paths, your own handle). Anything shown
to you or exported has passed through the redactor and anonymizer first;
the raw index never leaves this machine.

Quick Start:
  dataclaw projects                 # List discovered projects
  dataclaw index                    # Build the local search index
  dataclaw search "tokenizer bug"   # Search your sessions
  dataclaw export --format jsonl    # Redact and export sessions

Configuration lives at ~/.dataclaw/config.yaml.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Custom config file location")
	rootCmd.PersistentFlags().StringVar(&claudeDir, "claude-dir", "", "Custom Claude Code directory (default ~/.claude)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig loads the config file, honoring the --config and
// --claude-dir overrides.
func loadConfig() (internal.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = internal.DefaultConfigPath()
		if err != nil {
			return internal.DefaultConfig(), err
		}
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if claudeDir != "" {
		cfg.ClaudeDir = claudeDir
	}
	return cfg, nil
}

// openStore opens the search index at its well-known location
func openStore(cfg internal.Config) (*internal.Store, error) {
	indexPath, err := internal.DefaultIndexPath()
	if err != nil {
		return nil, err
	}
	return internal.OpenStore(indexPath, cfg)
}

// newAuditLog opens the append-only audit log at its well-known location
func newAuditLog() (*internal.FileAuditLog, error) {
	auditPath, err := internal.DefaultAuditPath()
	if err != nil {
		return nil, err
	}
	return internal.NewFileAuditLog(auditPath), nil
}
