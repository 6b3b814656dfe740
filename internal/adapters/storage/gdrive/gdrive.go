// Package gdrive archives artifacts in a Google Drive folder. The Drive file
// ID becomes the object key, so Get and Delete must be called with the key
// returned from PutObject, not the upload name.
package gdrive

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"clipforge/internal/ports"
)

// Store implements ports.ArtifactStore backed by Drive v3.
type Store struct {
	srv      *drive.Service
	folderID string
}

func New(srv *drive.Service, folderID string) *Store {
	return &Store{srv: srv, folderID: folderID}
}

func (s *Store) Provider() string { return "gdrive" }

func (s *Store) PutObject(ctx context.Context, in ports.UploadInput) (ports.UploadResult, error) {
	if in.ObjectKey == "" {
		return ports.UploadResult{}, fmt.Errorf("object key is required")
	}

	file := &drive.File{Name: in.ObjectKey}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	call := s.srv.Files.Create(file)
	if in.ContentType != "" {
		call = call.Media(in.Reader, googleapi.ContentType(in.ContentType))
	} else {
		call = call.Media(in.Reader)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("gdrive upload failed: %w", err)
	}

	return ports.UploadResult{ObjectKey: created.Id, Size: in.Size}, nil
}

func (s *Store) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	resp, err := s.srv.Files.Get(objectKey).
		SupportsAllDrives(true).
		Download()
	if err != nil {
		return nil, "", 0, err
	}

	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

func (s *Store) DeleteObject(ctx context.Context, objectKey string) error {
	return s.srv.Files.Delete(objectKey).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}
