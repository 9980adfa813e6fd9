package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List discovered Claude Code projects",
	Long:  `List all Claude Code projects that contain session logs, with session counts and sizes.`,
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
			internal.PrintWarning(fmt.Sprintf("No Claude Code sessions found under %s", dir))
			return nil
		}

		fmt.Println(headerStyle.Render("Projects"))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSESSIONS\tSIZE")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%d\t%s\n", p.DisplayName, p.SessionCount, formatSize(p.TotalSizeBytes))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%s project(s)\n", countStyle.Render(fmt.Sprintf("%d", len(projects))))
		return nil
	},
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
