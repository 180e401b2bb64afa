package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"research_assistant_backend/internal/adapters/storage"
)

// ErrSourceNotFound is returned when the configured catalog file or object is missing.
var ErrSourceNotFound = errors.New("catalog source not found")

// Source opens the raw catalog CSV.
type Source interface {
	// Name describes the source for logs and snapshot metadata.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the catalog from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string { return "file://" + f.Path }

func (f FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrSourceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	return file, nil
}

// ObjectSource reads the catalog from object storage.
type ObjectSource struct {
	Storage storage.StorageService
	Bucket  string
	Key     string
}

func (o ObjectSource) Name() string { return fmt.Sprintf("s3://%s/%s", o.Bucket, o.Key) }

func (o ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := o.Storage.Open(ctx, o.Bucket, o.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%s: %w", o.Name(), ErrSourceNotFound)
	}
	return rc, err
}
