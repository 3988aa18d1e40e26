package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/matheuscscp/splitynab/internal/trigger"
	"github.com/matheuscscp/splitynab/services/events"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newTriggerCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Serve the trigger endpoint locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, err := trigger.LoadConfig(ctx)
			if err != nil {
				return err
			}
			eventsService, err := events.NewService(ctx, conf.ProjectID)
			if err != nil {
				return err
			}
			defer eventsService.Close()

			srv := &http.Server{
				Addr:    addr,
				Handler: trigger.NewHandler(conf, eventsService),
			}
			logrus.Infof("listening on %s", addr)
			return serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	return cmd
}

// serve runs srv until ctx is done. The shutdown goroutine always exits before serve
// returns, also when the server fails to start.
func serve(ctx context.Context, srv *http.Server) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("error shutting down server: %v", err)
		}
	}()

	err := srv.ListenAndServe()
	cancel()
	<-shutdownDone
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error serving on %s: %w", srv.Addr, err)
	}
	return nil
}
