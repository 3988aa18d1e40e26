// Package rotatesecret replaces the secret that signs trigger tokens.
package rotatesecret

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuscscp/splitynab/services/secrets"
)

// EventTypeSecretRotate is the event type Secret Manager sets on rotation notifications.
const EventTypeSecretRotate = "SECRET_ROTATE"

// ErrMissingSecretID ...
var ErrMissingSecretID = errors.New("secret id is not configured")

// Run rotates the given secret. Tokens signed with the previous version stop
// being accepted once the trigger reloads its config.
func Run(ctx context.Context, newService func(context.Context) (secrets.Service, error), secretID string) error {
	if secretID == "" {
		return ErrMissingSecretID
	}
	secretsService, err := newService(ctx)
	if err != nil {
		return fmt.Errorf("error creating secrets service: %w", err)
	}
	defer secretsService.Close()
	return secretsService.Rotate(ctx, secretID)
}
