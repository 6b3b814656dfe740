// Package ports declares the contracts between clipforge and its adapters.
package ports

import (
	"context"
	"io"
)

// UploadInput describes one artifact upload.
type UploadInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

// UploadResult reports where the artifact landed. For the local provider the
// key is the input key; for gdrive it is the Drive file ID, which later Get
// and Delete calls must use.
type UploadResult struct {
	ObjectKey string
	Size      int64
}

// ArtifactStore is where rendered clips and source media can be archived.
// Implementations: localfs, gdrive.
type ArtifactStore interface {
	Provider() string

	PutObject(ctx context.Context, in UploadInput) (UploadResult, error)
	GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error)
	DeleteObject(ctx context.Context, objectKey string) error
}
