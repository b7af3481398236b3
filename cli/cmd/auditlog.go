package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TJLW/airbitz-core/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the audit log",
	Long: `Query the wallet audit log. Requires audit logging to be enabled
with a file-backed logger; syslog-backed logs are queried through the
syslog daemon instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		walletID, _ := cmd.Flags().GetString("wallet")
		action, _ := cmd.Flags().GetString("action")
		limit, _ := cmd.Flags().GetInt("limit")
		failuresOnly, _ := cmd.Flags().GetBool("failures")

		options := audit.QueryOptions{
			WalletID: walletID,
			Action:   action,
			Limit:    limit,
		}
		if failuresOnly {
			failed := false
			options.Success = &failed
		}

		result, err := auditLogger.Query(options)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIMESTAMP\tACTION\tWALLET\tOK\tERROR")
		for _, event := range result.Events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.Action, event.WalletID, event.Success, event.Error)
		}
		if err = w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d of %d events shown\n", len(result.Events), result.Filtered)
		return nil
	},
}

func init() {
	auditCmd.Flags().String("wallet", "", "filter by wallet identity")
	auditCmd.Flags().String("action", "", "filter by action")
	auditCmd.Flags().Int("limit", 50, "maximum events to show")
	auditCmd.Flags().Bool("failures", false, "show only failed operations")
	rootCmd.AddCommand(auditCmd)
}
