// Package storage provides a domain-agnostic interface for S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// StorageService defines the object storage operations the application needs.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
	// Open streams an object. The caller closes the reader.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	// Put stores an object under key, replacing any previous version.
	Put(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error
	// ValidateUpload checks content type and size before Put.
	ValidateUpload(contentType string, sizeBytes int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
