package main

import (
	"fmt"

	"github.com/matheuscscp/splitynab/internal/scenarios"

	"github.com/spf13/cobra"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Run the built-in classification and formatting scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := scenarios.Run(cmd.OutOrStdout())
			if res.Failed > 0 {
				return fmt.Errorf("%d scenario(s) failed", res.Failed)
			}
			return nil
		},
	}
}
