// Package localfs stores artifacts on the local filesystem under a root
// directory. This is the default provider; it backs the /clips and /sources
// endpoints directly.
package localfs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"clipforge/internal/ports"
)

// Store implements ports.ArtifactStore on a directory tree.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Provider() string { return "local" }

// PutObject writes through a temp file and renames, so a crashed upload
// never leaves a half-written object under its final key.
func (s *Store) PutObject(ctx context.Context, in ports.UploadInput) (ports.UploadResult, error) {
	if in.ObjectKey == "" {
		return ports.UploadResult{}, fmt.Errorf("object key is required")
	}

	dst := filepath.Join(s.root, filepath.FromSlash(in.ObjectKey))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ports.UploadResult{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return ports.UploadResult{}, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, in.Reader)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ports.UploadResult{}, err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ports.UploadResult{}, err
	}
	return ports.UploadResult{ObjectKey: in.ObjectKey, Size: n}, nil
}

func (s *Store) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	p := filepath.Join(s.root, filepath.FromSlash(objectKey))
	f, err := os.Open(p)
	if err != nil {
		return nil, "", 0, err
	}

	if st, statErr := f.Stat(); statErr == nil {
		size = st.Size()
	}

	// Extension first; sniff only when the extension says nothing.
	contentType = mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := f.Read(buf)
		_, _ = f.Seek(0, io.SeekStart)
		contentType = http.DetectContentType(buf[:n])
	}

	return f, contentType, size, nil
}

func (s *Store) DeleteObject(ctx context.Context, objectKey string) error {
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(objectKey)))
}
