package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage using a directory on the local filesystem.
type LocalStorage struct {
	basePath string // Root directory holding dataset files (e.g., "./data")
}

// NewLocalStorage creates a local filesystem storage rooted at basePath.
// The directory must already exist.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", basePath)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Path returns the filesystem path for key.
func (s *LocalStorage) Path(key string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+key))
}

// Get opens a file below the base directory.
func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound(key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Exists checks if a file exists below the base directory.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, nil
	}

	_, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}

	return true, nil
}
