package events_test

import (
	"context"
	"testing"

	"github.com/matheuscscp/splitynab/services/events"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestPublishJSON(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.Dial(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	admin, err := pubsub.NewClient(ctx, "project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	_, err = admin.CreateTopic(ctx, "reports")
	require.NoError(t, err)

	svc, err := events.NewService(ctx, "project", option.WithGRPCConn(conn))
	require.NoError(t, err)

	id, err := svc.PublishJSON(ctx, "reports", map[string]int{"imported": 2})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"imported":2}`, string(msgs[0].Data))
}

func TestNotConfigured(t *testing.T) {
	svc, err := events.NewService(context.Background(), "" /*projectID*/)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Publish(context.Background(), "topic", []byte("start"))
	assert.ErrorIs(t, err, events.ErrServiceNotConfigured)
}
