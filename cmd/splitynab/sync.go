package main

import (
	"fmt"

	"github.com/matheuscscp/splitynab/internal/syncer"
	"github.com/matheuscscp/splitynab/models"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var req models.SyncRequest
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push new Splitwise debts and reimbursements to YNAB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := syncer.Run(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
	addDateFlags(cmd, &req.DatedAfter, &req.DatedBefore)
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "Classify and format without sending anything to YNAB")
	return cmd
}

func addDateFlags(cmd *cobra.Command, datedAfter, datedBefore *string) {
	cmd.Flags().StringVar(datedAfter, "dated-after", "", "Only expenses dated after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(datedBefore, "dated-before", "", "Only expenses dated before this day (YYYY-MM-DD)")
}
