package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/matheuscscp/splitynab/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "splitynab",
		Short:         "Import Splitwise debts and reimbursements into YNAB",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSyncCmd(),
		newFriendsCmd(),
		newExpensesCmd(),
		newCreateExpenseCmd(),
		newScenariosCmd(),
		newTokenCmd(),
		newTriggerCmd(),
		newRotateSecretCmd(),
	)
	return root
}
