package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// StorageService defines the interface for blob storage operations
type StorageService interface {
	// Upload uploads a blob and returns the object name
	Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error)

	// Download downloads a blob from storage
	Download(ctx context.Context, bucket, objectName string) ([]byte, error)

	// Delete deletes a blob from storage
	Delete(ctx context.Context, bucket, objectName string) error

	// StreamUpload uploads a blob from a reader
	StreamUpload(ctx context.Context, bucket, objectName string, reader io.Reader, contentType string) (string, error)
}

// ArchiveConfiguration stores a superseded configuration blob so updates keep
// an auditable history. The blob is already an opaque text-safe envelope, so
// it is stored as-is.
func ArchiveConfiguration(ctx context.Context, client StorageService, bucket, workspaceID, eventSourceID string, supersededAt time.Time, blob []byte) (string, error) {
	if client == nil {
		return "", fmt.Errorf("no storage client configured")
	}

	objectName := fmt.Sprintf("configurations/%s/%s/%d.blob", workspaceID, eventSourceID, supersededAt.UnixNano())
	return client.Upload(ctx, bucket, objectName, blob, "application/octet-stream")
}
