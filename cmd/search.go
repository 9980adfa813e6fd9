package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var (
	searchLimit         int
	searchMinConfidence int
	searchRaw           bool
)

var (
	confidenceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed sessions",
	Long: `Search your indexed sessions with BM25 ranking.

Snippets are redacted and anonymized before display. The --raw flag
skips display-time anonymization and is intended for debugging only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		audit, err := newAuditLog()
		if err != nil {
			return err
		}
		anon := internal.NewAnonymizer(cfg, audit)
		redactor := internal.NewRedactor(cfg, anon)
		engine := internal.NewSearchEngine(store, cfg, redactor, anon)

		var results []internal.SearchResult
		if searchRaw {
			internal.PrintWarning("Raw mode: snippets are NOT anonymized")
			results, err = engine.SearchRaw(query, searchLimit, searchMinConfidence)
		} else {
			results, err = engine.Search(query, searchLimit, searchMinConfidence)
		}
		if err != nil {
			return err
		}

		if len(results) == 0 {
			internal.PrintInfo("No results")
			return nil
		}

		for i, r := range results {
			date := r.StartTime
			if len(date) > 10 {
				date = date[:10]
			}
			fmt.Printf("%d. %s %s %s\n",
				i+1,
				confidenceStyle.Render(fmt.Sprintf("[%d%%]", r.Confidence)),
				projectStyle.Render(r.Project),
				dateStyle.Render(date),
			)
			fmt.Printf("   %s\n", idStyle.Render(r.SessionID))
			fmt.Printf("   %s\n\n", r.Snippet)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
	searchCmd.Flags().IntVar(&searchMinConfidence, "min-confidence", 0, "Minimum confidence score (0-100)")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "Skip display-time anonymization (debugging only)")
}
