package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dataclaw/dataclaw/internal"
	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent anonymization audit records",
	Long: `Show recent entries from the append-only anonymization audit log.

Audit records capture that an anonymization occurred (category, pseudonym,
context) but never the original sensitive value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		audit, err := newAuditLog()
		if err != nil {
			return err
		}

		records, err := audit.ReadRecent(auditLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			internal.PrintInfo("Audit log is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tCATEGORY\tPSEUDONYM\tCONTEXT")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Timestamp, rec.Category, rec.Pseudonym, rec.Context)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Number of records to show")
}
