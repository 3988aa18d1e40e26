package main

import (
	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/internal/rotatesecret"
	"github.com/matheuscscp/splitynab/services/secrets"

	"github.com/spf13/cobra"
)

func newRotateSecretCmd() *cobra.Command {
	var secretID string
	cmd := &cobra.Command{
		Use:   "rotate-secret",
		Short: "Rotate the secret that signs trigger tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secretID == "" {
				var conf config.Trigger
				if err := config.Load(&conf); err != nil {
					return err
				}
				secretID = conf.JWTSecretID
			}
			return rotatesecret.Run(cmd.Context(), secrets.NewService, secretID)
		},
	}
	cmd.Flags().StringVar(&secretID, "secret-id", "", "Secret resource name (default from config)")
	return cmd
}
