package storage

import (
	"context"
	"io"

	"github.com/dukerupert/thaiaddress/internal"
)

// Storage is a read-only blob store the address dataset is fetched from.
// Implementations can use the local filesystem, R2, or any S3-compatible
// backend.
type Storage interface {
	// Get retrieves an object by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage creates a Storage implementation based on configuration.
// Returns LocalStorage for "local" provider, R2Storage for "r2" provider.
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
