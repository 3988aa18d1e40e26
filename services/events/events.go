package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

type (
	// Service ...
	Service interface {
		Publish(ctx context.Context, topicID string, data []byte) (id string, err error)
		PublishJSON(ctx context.Context, topicID string, v interface{}) (id string, err error)
		Close()
	}

	service struct {
		client *pubsub.Client
	}
)

var (
	// ErrServiceNotConfigured ...
	ErrServiceNotConfigured = errors.New("the pubsub client was not configured with a projectID")
)

// NewService returns a service that is not configured when projectID is empty. Publishing
// on such a service fails with ErrServiceNotConfigured.
func NewService(ctx context.Context, projectID string, opts ...option.ClientOption) (Service, error) {
	if projectID == "" {
		return &service{}, nil
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("error creating pubsub client: %w", err)
	}
	return &service{client}, nil
}

func (s *service) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *service) Publish(ctx context.Context, topicID string, data []byte) (id string, err error) {
	if s.client == nil {
		return "", ErrServiceNotConfigured
	}
	topic := s.client.Topic(topicID)
	defer topic.Stop()
	id, err = topic.Publish(ctx, &pubsub.Message{Data: data}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("error publishing pubsub message to topic '%s': %w", topicID, err)
	}
	return
}

func (s *service) PublishJSON(ctx context.Context, topicID string, v interface{}) (id string, err error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error marshaling pubsub message: %w", err)
	}
	return s.Publish(ctx, topicID, b)
}
