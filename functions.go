package splitynab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/internal/rotatesecret"
	"github.com/matheuscscp/splitynab/internal/syncer"
	"github.com/matheuscscp/splitynab/internal/trigger"
	_ "github.com/matheuscscp/splitynab/logging"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/services/secrets"

	"github.com/sirupsen/logrus"
)

// Sync is a Pub/Sub Cloud Function. The message data is a JSON SyncRequest, empty data
// syncs everything the Splitwise page limit allows.
func Sync(ctx context.Context, m PubSubMessage) error {
	req, err := ParseSyncRequest(m.Data)
	if err != nil {
		return err
	}
	l := logrus.WithField("message_id", m.MessageID)
	l.Info("sync requested")
	report, err := syncer.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("error running sync: %w", err)
	}
	l.WithField("imported", report.Imported).Info("sync done")
	return nil
}

// Trigger is an HTTP Cloud Function.
func Trigger(w http.ResponseWriter, r *http.Request) {
	trigger.Run(w, r)
}

// RotateJWTSecret is a Pub/Sub Cloud Function subscribed to the rotation
// notifications of the secret that signs trigger tokens.
func RotateJWTSecret(ctx context.Context, m PubSubMessage) error {
	if m.Attributes.EventType != rotatesecret.EventTypeSecretRotate {
		logrus.Infof("event type is not secret rotation: %s", m.Attributes.EventType)
		return nil
	}
	var conf config.Trigger
	if err := config.Load(&conf); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	return rotatesecret.Run(ctx, secrets.NewService, conf.JWTSecretID)
}

// ParseSyncRequest decodes the data of a sync message.
func ParseSyncRequest(data []byte) (*models.SyncRequest, error) {
	var req models.SyncRequest
	if len(data) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("error unmarshaling sync request '%s': %w", string(data), err)
	}
	return &req, nil
}
