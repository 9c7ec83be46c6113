package storage

import (
	"context"
	"fmt"

	"github.com/intelligent-username/Tachion/internal/config"
)

// NewSnapshotStore creates a snapshot store from configuration: the GCS
// bucket when one is configured, the local filesystem otherwise.
func NewSnapshotStore(ctx context.Context, cfg *config.Config) (SnapshotStore, error) {
	if cfg.GCSBucket != "" {
		store, err := NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS snapshot store: %w", err)
		}
		return store, nil
	}

	dir := cfg.SnapshotsDir
	if dir == "" {
		dir = "snapshots"
	}
	store, err := NewLocalStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local snapshot store: %w", err)
	}
	return store, nil
}
