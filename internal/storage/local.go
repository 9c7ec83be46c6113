package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LocalStore persists snapshots on the local filesystem
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates a local store rooted at baseDir
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Close is a no-op for local storage
func (l *LocalStore) Close() error {
	return nil
}

// StoreSnapshot writes a snapshot artifact into the timestamped folder
func (l *LocalStore) StoreSnapshot(ctx context.Context, filename string, data []byte, takenAt time.Time) (string, error) {
	relPath := filepath.Join(SnapshotFolderPath(takenAt), filename)
	fullPath := filepath.Join(l.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", fullPath, err)
	}
	return relPath, nil
}

// GetFile reads a stored artifact by its path relative to the base dir
func (l *LocalStore) GetFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ListSnapshots lists stored snapshot artifacts, newest first
func (l *LocalStore) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	root := filepath.Join(l.baseDir, "snapshots")

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !info.IsDir() {
			if rel, relErr := filepath.Rel(l.baseDir, path); relErr == nil {
				paths = append(paths, rel)
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	// Folder names embed the timestamp, so path order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}
