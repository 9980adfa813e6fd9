package cmd

import (
	"fmt"
	"os"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and audit log statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		indexPath, err := internal.DefaultIndexPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			internal.PrintInfo(fmt.Sprintf("No index at %s (run 'dataclaw index' to build one)", indexPath))
		} else {
			store, err := internal.OpenStore(indexPath, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			var size int64
			if info, err := os.Stat(indexPath); err == nil {
				size = info.Size()
			}
			fmt.Printf("Index:     %s\n", indexPath)
			fmt.Printf("Documents: %d\n", stats.DocumentCount)
			fmt.Printf("Avg terms: %.0f\n", stats.AvgDocLength)
			fmt.Printf("Size:      %s\n", formatSize(size))
		}

		audit, err := newAuditLog()
		if err != nil {
			return err
		}
		count, err := audit.Count()
		if err != nil {
			return err
		}
		fmt.Printf("Audit:     %d record(s)\n", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
