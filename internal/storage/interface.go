package storage

import (
	"context"
	"time"
)

// SnapshotStore persists rendered chart snapshots (HTML pages and PNG
// images) and serves them back for the file proxy.
type SnapshotStore interface {
	// Close releases the store's resources
	Close() error

	// StoreSnapshot stores a snapshot artifact under the timestamped
	// snapshot folder and returns the stored path
	StoreSnapshot(ctx context.Context, filename string, data []byte, takenAt time.Time) (string, error)

	// GetFile retrieves a stored artifact by path
	GetFile(ctx context.Context, path string) ([]byte, error)

	// ListSnapshots lists stored snapshot paths, newest first, up to limit
	ListSnapshots(ctx context.Context, limit int) ([]string, error)
}
