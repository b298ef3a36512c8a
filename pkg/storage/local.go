package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists files on disk under a base directory and serves them from a public base URL.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, baseURL: baseURL}, nil
}

// Dir returns the root directory, used by the router to serve /uploads.
func (s *LocalStore) Dir() string {
	return s.baseDir
}

// Put copies r into a freshly named file below folder.
func (s *LocalStore) Put(ctx context.Context, folder, filename, _ string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	key := ObjectKey(folder, filename)
	target, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return Object{}, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return Object{}, fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		return Object{}, fmt.Errorf("close upload file: %w", err)
	}
	return Object{Key: key, URL: joinURL(s.baseURL, key)}, nil
}

// Delete removes a stored file if present.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Path exposes the on-disk location of key.
func (s *LocalStore) Path(key string) string {
	target, err := s.resolve(key)
	if err != nil {
		return ""
	}
	return target
}

func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
