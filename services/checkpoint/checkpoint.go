package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"gopkg.in/yaml.v3"
)

type (
	// Service persists the sync State between runs.
	Service interface {
		Store(ctx context.Context, state *State) error
		Load(ctx context.Context) (*State, error)
		Delete(ctx context.Context) error
		Close()
	}

	service struct {
		client *storage.ObjectHandle
		close  func()
	}
)

const objectName = "checkpoint.yml"

var (
	// ErrCheckpointNotExist ...
	ErrCheckpointNotExist = errors.New("checkpoint does not exist")
)

// NewService returns a GCS-backed service when bucket is set and a local file service
// otherwise.
func NewService(ctx context.Context, bucket, file string) (Service, error) {
	if bucket == "" {
		if file == "" {
			file = objectName
		}
		return NewFileService(file), nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating cloud storage client: %w", err)
	}
	return &service{
		client: client.Bucket(bucket).Object(objectName),
		close:  func() { client.Close() },
	}, nil
}

func (s *service) Close() {
	s.close()
}

func (s *service) Store(ctx context.Context, state *State) error {
	return store(ctx, func(ctx context.Context) io.WriteCloser { return s.client.NewWriter(ctx) }, state)
}

// store closes the writer only after a successful encode. On GCS, closing commits the
// object, so a failed encode cancels the writer context to abort the upload instead.
func store(ctx context.Context, newWriter func(context.Context) io.WriteCloser, state *State) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := newWriter(ctx)
	if err := encode(w, state); err != nil {
		cancel()
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error writing checkpoint object: %w", err)
	}
	return nil
}

func (s *service) Load(ctx context.Context) (*State, error) {
	r, err := s.client.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrCheckpointNotExist
		}
		return nil, fmt.Errorf("error creating checkpoint reader: %w", err)
	}
	defer r.Close()
	return decode(r)
}

func (s *service) Delete(ctx context.Context) error {
	if err := s.client.Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("error deleting checkpoint object: %w", err)
	}
	return nil
}

func encode(w io.Writer, state *State) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(state); err != nil {
		return fmt.Errorf("error marshaling checkpoint: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("error marshaling checkpoint: %w", err)
	}
	return nil
}

func decode(r io.Reader) (*State, error) {
	var state State
	if err := yaml.NewDecoder(r).Decode(&state); err != nil {
		if errors.Is(err, io.EOF) {
			return &state, nil
		}
		return nil, fmt.Errorf("error unmarshaling checkpoint: %w", err)
	}
	return &state, nil
}
