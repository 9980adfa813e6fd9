package cmd

import (
	"context"
	"fmt"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var (
	indexProjects []string
	indexForce    bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or update the local search index",
	Long: `Parse session logs and add them to the local search index.

Raw (un-anonymized) content is indexed so you can search for the exact
strings you remember. The index stays on this machine; search results
are anonymized at display time.

With --force the index is rebuilt from scratch into a temporary file and
swapped in atomically, so an interrupted rebuild never corrupts the
existing index.`,
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
		if len(projects) == 0 {
			return fmt.Errorf("no Claude Code sessions found under %s (use --claude-dir to specify the path)", dir)
		}

		if len(indexProjects) > 0 {
			known := make(map[string]internal.Project, len(projects))
			for _, p := range projects {
				known[p.DisplayName] = p
			}
			filtered := make([]internal.Project, 0, len(indexProjects))
			for _, name := range indexProjects {
				p, ok := known[name]
				if !ok {
					return fmt.Errorf("unknown project: %s (use 'dataclaw projects' to list them)", name)
				}
				filtered = append(filtered, p)
			}
			projects = filtered
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var sessions []*internal.Session
		for _, p := range projects {
			parsed, err := internal.ParseProjectSessions(dir, p.DirName)
			if err != nil {
				internal.LogWarn("Error indexing %s: %v", p.DisplayName, err)
				continue
			}
			sessions = append(sessions, parsed...)
			internal.LogDebug("Parsed %d session(s) from %s", len(parsed), p.DisplayName)
		}
		if len(sessions) == 0 {
			internal.PrintWarning("No parseable sessions found")
			return nil
		}

		indexed := 0
		ctx := context.Background()
		if indexForce {
			err = internal.ShowProgress(ctx, fmt.Sprintf("Rebuilding index from %d session(s)", len(sessions)), func() error {
				return store.Rebuild(sessions, func(done, total int) {
					internal.LogDebug("Rebuilding: %d/%d", done, total)
				})
			})
			if err != nil {
				return err
			}
			indexed = len(sessions)
		} else {
			err = internal.ShowProgress(ctx, fmt.Sprintf("Indexing %d session(s)", len(sessions)), func() error {
				for _, session := range sessions {
					exists, err := store.Has(session.ID)
					if err != nil {
						return err
					}
					if exists {
						continue
					}
					if err := store.Add(session); err != nil {
						return err
					}
					indexed++
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		stats, err := store.Stats()
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Indexed %d new session(s), %d total in %s", indexed, stats.DocumentCount, store.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringSliceVar(&indexProjects, "project", nil, "Only index the named project(s)")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "Rebuild the index from scratch")
}
