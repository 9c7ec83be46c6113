package storage

import (
	"fmt"
	"strings"
	"time"
)

// SnapshotFolderPath generates the folder path for a snapshot taken at
// the given time. Format: snapshots/YYYY-MM-DD_HH-MM-SS
func SnapshotFolderPath(takenAt time.Time) string {
	return fmt.Sprintf("snapshots/%04d-%02d-%02d_%02d-%02d-%02d",
		takenAt.Year(), takenAt.Month(), takenAt.Day(),
		takenAt.Hour(), takenAt.Minute(), takenAt.Second())
}

// ContentType determines the MIME content type from the file extension
func ContentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".html"):
		return "text/html"
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	case strings.HasSuffix(filename, ".json"):
		return "application/json"
	case strings.HasSuffix(filename, ".txt"):
		return "text/plain"
	case strings.HasSuffix(filename, ".md"):
		return "text/markdown"
	default:
		return "application/octet-stream"
	}
}
