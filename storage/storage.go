// Package storage keeps uploaded and generated flyer images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrFileNotFound is returned when a requested file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath is returned when a path is empty, absolute or escapes the root.
	ErrInvalidPath = errors.New("invalid path")
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// BlobStorage defines the interface for storing and retrieving binary data.
type BlobStorage interface {
	// Upload stores data from the reader at the specified path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download retrieves data from the specified path.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the data at the specified path.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the specified path.
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a URL a browser can fetch the data from.
	GetURL(ctx context.Context, path string) (string, error)
}

// Config selects and configures a BlobStorage backend.
type Config struct {
	Type string

	// Local
	BaseDir       string
	PublicBaseURL string

	// S3
	Bucket string
	Region string
	// S3BaseURL optionally replaces the bucket endpoint in returned URLs.
	S3BaseURL string
}

// NewBlobStorage creates the BlobStorage named by cfg.Type.
func NewBlobStorage(ctx context.Context, cfg Config) (BlobStorage, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeLocal:
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base_dir is required for local storage")
		}
		return NewLocalStorage(cfg.BaseDir, cfg.PublicBaseURL)

	case TypeS3:
		s3Storage, err := NewS3Storage(ctx, cfg.Bucket, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		if cfg.S3BaseURL != "" {
			return s3Storage.WithBaseURL(cfg.S3BaseURL)
		}
		return s3Storage, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %q", cfg.Type)
	}
}
