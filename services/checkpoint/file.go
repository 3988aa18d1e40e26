package checkpoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type (
	fileService struct {
		path string
	}
)

// NewFileService stores the checkpoint in a local yaml file.
func NewFileService(path string) Service {
	return &fileService{path: path}
}

func (f *fileService) Close() {
}

func (f *fileService) Store(ctx context.Context, state *State) error {
	var buf bytes.Buffer
	if err := encode(&buf, state); err != nil {
		return err
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("error writing checkpoint file '%s': %w", f.path, err)
	}
	return nil
}

func (f *fileService) Load(ctx context.Context) (*State, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCheckpointNotExist
		}
		return nil, fmt.Errorf("error reading checkpoint file '%s': %w", f.path, err)
	}
	return decode(bytes.NewReader(b))
}

func (f *fileService) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error deleting checkpoint file '%s': %w", f.path, err)
	}
	return nil
}
