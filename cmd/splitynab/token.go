package main

import (
	"fmt"
	"time"

	"github.com/matheuscscp/splitynab/internal/trigger"
	"github.com/matheuscscp/splitynab/services/secrets"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration
	var newSecret bool
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the trigger endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var secret string
			if newSecret {
				var err error
				if secret, err = secrets.Generate(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "secret: %s\n", secret)
			} else {
				conf, err := trigger.LoadConfig(cmd.Context())
				if err != nil {
					return err
				}
				secret = conf.JWTSecret
			}
			token, err := trigger.IssueToken(secret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token: %s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "Subject claim of the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&newSecret, "new-secret", false, "Generate a fresh signing secret instead of using the configured one")
	return cmd
}
