package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/dataclaw/dataclaw/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat   string
	exportOut      string
	exportProjects []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Redact sessions and export them to files",
	Long: `Redact and anonymize sessions, then write them in the chosen format
(jsonl, md, yaml, json).

Every exported session has passed through secret redaction and username
anonymization; a per-category match summary is printed for review before
publishing anywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := cfg.ResolveClaudeDir()
		if err != nil {
			return err
		}

		projects, err := internal.DiscoverProjects(dir)
		if err != nil {
			return fmt.Errorf("failed to discover projects: %w", err)
		}
		if len(exportProjects) > 0 {
			want := make(map[string]bool, len(exportProjects))
			for _, name := range exportProjects {
				want[name] = true
			}
			filtered := projects[:0]
			for _, p := range projects {
				if want[p.DisplayName] {
					filtered = append(filtered, p)
				}
			}
			projects = filtered
		}
		if len(projects) == 0 {
			return fmt.Errorf("no matching projects found under %s", dir)
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(exportOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		audit, err := newAuditLog()
		if err != nil {
			return err
		}
		anon := internal.NewAnonymizer(cfg, audit)
		redactor := internal.NewRedactor(cfg, anon)

		exported := 0
		report := internal.RedactionReport{}

		ctx := context.Background()
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d project(s) to %s", len(projects), exportOut), func() error {
			for _, p := range projects {
				sessions, err := internal.ParseProjectSessions(dir, p.DirName)
				if err != nil {
					internal.LogWarn("Skipping %s: %v", p.DisplayName, err)
					continue
				}
				for _, session := range sessions {
					redacted, sessionReport, err := redactor.RedactSession(session)
					if err != nil {
						// An unwritable audit log must stop the export:
						// anonymization may not proceed unlogged.
						return err
					}
					for cat, n := range sessionReport.ByCategory {
						if report.ByCategory == nil {
							report.ByCategory = make(map[string]int)
						}
						report.ByCategory[cat] += n
					}

					filename := fmt.Sprintf("session_%s.%s", redacted.ID, exporter.Extension())
					path := filepath.Join(exportOut, filename)
					file, err := os.Create(path)
					if err != nil {
						internal.LogError("Failed to create file %s: %v", path, err)
						continue
					}
					if err := exporter.Export(redacted, file); err != nil {
						_ = file.Close()
						internal.LogError("Failed to export session %s: %v", redacted.ID, err)
						continue
					}
					if err := file.Close(); err != nil {
						internal.LogWarn("Failed to close file %s: %v", path, err)
					}
					exported++
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, exportOut))
		internal.PrintInfo(fmt.Sprintf("Redaction summary: %s", report.String()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringSliceVar(&exportProjects, "project", nil, "Only export the named project(s)")
}
