package secrets

import (
	"context"
	"fmt"
	"sync"
)

type (
	mockService struct {
		secrets   map[string]string
		secretsMu sync.Mutex
		closed    bool
	}
)

// NewMockService returns an in-memory Service holding the given secrets.
func NewMockService(secrets map[string]string) Service {
	if secrets == nil {
		secrets = make(map[string]string)
	}
	return &mockService{secrets: secrets}
}

func (m *mockService) Close() {
	m.secretsMu.Lock()
	defer m.secretsMu.Unlock()
	m.closed = true
}

func (m *mockService) Read(ctx context.Context, id string) (string, error) {
	m.secretsMu.Lock()
	defer m.secretsMu.Unlock()

	if m.closed {
		return "", fmt.Errorf("mock secrets service is closed")
	}
	s, ok := m.secrets[id]
	if !ok {
		return "", fmt.Errorf("secret '%s' not found", id)
	}
	return s, nil
}

func (m *mockService) Rotate(ctx context.Context, id string) error {
	secret, err := Generate()
	if err != nil {
		return err
	}

	m.secretsMu.Lock()
	defer m.secretsMu.Unlock()

	if m.closed {
		return fmt.Errorf("mock secrets service is closed")
	}
	m.secrets[id] = secret
	return nil
}
