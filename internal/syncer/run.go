package syncer

import (
	"context"
	"fmt"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/internal/ynab"
	"github.com/matheuscscp/splitynab/logging"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/services/checkpoint"
	"github.com/matheuscscp/splitynab/services/events"
	"github.com/matheuscscp/splitynab/services/notify"
	"github.com/matheuscscp/splitynab/services/secrets"
	"github.com/matheuscscp/splitynab/splitwise"
)

// LoadConfig loads the sync config and resolves the credentials kept in Secret Manager.
func LoadConfig(ctx context.Context) (*config.Sync, error) {
	var conf config.Sync
	if err := config.Load(&conf); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logging.SetLevel(conf.LogLevel)
	err := secrets.Resolve(ctx, secrets.NewService,
		secrets.Ref{ID: conf.Splitwise.APIKeySecretID, Dst: &conf.Splitwise.APIKey},
		secrets.Ref{ID: conf.YNAB.TokenSecretID, Dst: &conf.YNAB.Token},
	)
	if err != nil {
		return nil, err
	}
	if err := conf.Splitwise.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Run loads the config, wires the services and runs one sync.
func Run(ctx context.Context, req *models.SyncRequest) (*Report, error) {
	conf, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || !req.DryRun {
		if err := conf.YNAB.Validate(); err != nil {
			return nil, err
		}
	}

	checkpointService, err := checkpoint.NewService(ctx, conf.CheckpointBucket, conf.CheckpointFile)
	if err != nil {
		return nil, fmt.Errorf("error creating checkpoint service: %w", err)
	}
	defer checkpointService.Close()

	eventsService, err := events.NewService(ctx, conf.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error creating events service: %w", err)
	}
	defer eventsService.Close()

	notifyService, err := notify.NewService(&conf.Telegram)
	if err != nil {
		return nil, fmt.Errorf("error creating notify service: %w", err)
	}

	s := &Syncer{
		Source:        splitwise.NewClient(ctx, &conf.Splitwise),
		Sink:          ynab.NewClient(&conf.YNAB),
		Checkpoint:    checkpointService,
		Events:        eventsService,
		Notifier:      notifyService,
		AccountID:     conf.YNAB.AccountID,
		ReportTopicID: conf.ReportTopicID,
	}
	return s.Run(ctx, req)
}
