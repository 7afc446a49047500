package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage stores objects as files under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage rooted at baseDir, creating the
// directory if it does not exist.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %q: %w", baseDir, err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) Upload(_ context.Context, objectName string, data []byte) error {
	path := filepath.Join(s.baseDir, filepath.Clean(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write object %q: %w", objectName, err)
	}
	return nil
}

func (s *LocalStorage) Download(_ context.Context, objectName string) ([]byte, error) {
	path := filepath.Join(s.baseDir, filepath.Clean(objectName))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", objectName, err)
	}
	return data, nil
}

func (s *LocalStorage) Exists(_ context.Context, objectName string) (bool, error) {
	path := filepath.Join(s.baseDir, filepath.Clean(objectName))
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat object %q: %w", objectName, err)
}
