package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"github.com/sirupsen/logrus"
	secretmanagerpb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
)

type (
	// Service reads credentials from a secret store.
	Service interface {
		Read(ctx context.Context, id string) (string, error)
		Rotate(ctx context.Context, id string) error
		Close()
	}

	service struct {
		client *secretmanager.Client
	}
)

// NewService ...
func NewService(ctx context.Context) (Service, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating secret manager client: %w", err)
	}
	return &service{client}, nil
}

func (s *service) Close() {
	s.client.Close()
}

// Read returns the latest version of the secret. id is the secret resource name,
// projects/*/secrets/*.
func (s *service) Read(ctx context.Context, id string) (string, error) {
	resp, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", id),
	})
	if err != nil {
		return "", fmt.Errorf("error accessing secret version of '%s': %w", id, err)
	}
	payload := resp.GetPayload()
	if payload == nil {
		return "", fmt.Errorf("secret '%s' has no payload", id)
	}
	if payload.DataCrc32C != nil {
		want := payload.GetDataCrc32C()
		got := int64(crc32.Checksum(payload.Data, crc32.MakeTable(crc32.Castagnoli)))
		if want != got {
			return "", fmt.Errorf("secret checksum mismatch, want %v, got %v", want, got)
		}
	}
	return strings.TrimSpace(string(payload.GetData())), nil
}

// Rotate adds a freshly generated version to the secret and destroys the
// version that was latest before it.
func (s *service) Rotate(ctx context.Context, id string) error {
	latest, err := s.client.GetSecretVersion(ctx, &secretmanagerpb.GetSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", id),
	})
	if err != nil {
		logrus.Warnf("error fetching latest version of secret '%s': %v", id, err)
		latest = nil
	}

	secret, err := Generate()
	if err != nil {
		return err
	}
	payload := []byte(secret)
	checksum := int64(crc32.Checksum(payload, crc32.MakeTable(crc32.Castagnoli)))
	newVersion, err := s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: id,
		Payload: &secretmanagerpb.SecretPayload{
			Data:       payload,
			DataCrc32C: &checksum,
		},
	})
	if err != nil {
		return fmt.Errorf("error adding version to secret '%s': %w", id, err)
	}

	if latest != nil {
		_, err = s.client.DestroySecretVersion(ctx, &secretmanagerpb.DestroySecretVersionRequest{
			Name: latest.Name,
		})
		if err != nil {
			return fmt.Errorf("error destroying previous secret version: %w", err)
		}
	}

	logrus.Infof("secret rotated: %s", newVersion.Name)
	return nil
}
