// internal/store/file.go
// File-backed local store: one JSON file per collection.

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileStore persists each collection as <dir>/<collection>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(_ context.Context, collection string) ([]byte, error) {
	payload, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return payload, nil
}

func (s *FileStore) Set(_ context.Context, collection string, payload []byte) error {
	// Write-then-rename so a crash mid-write never corrupts the collection.
	tmp := s.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		if isNoSpace(err) {
			return fmt.Errorf("writing collection %s: %w", collection, ErrQuotaExceeded)
		}
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	if err := os.Rename(tmp, s.path(collection)); err != nil {
		return fmt.Errorf("failed to commit collection %s: %w", collection, err)
	}
	return nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func isNoSpace(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}
