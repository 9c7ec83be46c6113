package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/intelligent-username/Tachion/internal/logger"
)

// GCSStore persists snapshots in a Google Cloud Storage bucket
type GCSStore struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSStore creates a store over the given bucket
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		log:    logger.GetGlobalLogger().WithComponent("storage"),
	}, nil
}

// Close closes the underlying GCS client
func (g *GCSStore) Close() error {
	return g.client.Close()
}

// StoreSnapshot uploads a snapshot artifact into the timestamped folder
func (g *GCSStore) StoreSnapshot(ctx context.Context, filename string, data []byte, takenAt time.Time) (string, error) {
	objectPath := SnapshotFolderPath(takenAt) + "/" + filename
	g.log.Debugf("storing snapshot to gs://%s/%s", g.bucket, objectPath)

	obj := g.client.Bucket(g.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = ContentType(filename)
	writer.Metadata = map[string]string{
		"taken-at": takenAt.Format(time.RFC3339),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write snapshot to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS upload: %w", err)
	}
	return objectPath, nil
}

// GetFile downloads a stored artifact by object path
func (g *GCSStore) GetFile(ctx context.Context, path string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", g.bucket, path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", g.bucket, path, err)
	}
	return data, nil
}

// ListSnapshots lists stored snapshot object paths, newest first
func (g *GCSStore) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: "snapshots/"})

	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", err)
		}
		paths = append(paths, attrs.Name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}
