package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clipforge/internal/httpkit"
	"clipforge/internal/pkg/errors"
)

// maxUploadBytes caps source uploads at 2 GiB.
const maxUploadBytes = 2 << 30

// SourceEntry is one uploaded source as listed by the API.
type SourceEntry struct {
	Ref       string    `json:"ref"`
	SizeBytes int64     `json:"sizeBytes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostSource uploads source media into the input directory. The stored name
// is generated server-side; only the extension survives from the upload.
func (h *Handler) PostSource(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "sources.upload", "invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return errors.Validation("file is required").WithField("field", "file")
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		return errors.Validation("file too large").WithField("size_bytes", header.Size)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = guessExt(header.Header.Get("Content-Type"))
	}
	if ext == "" {
		ext = ".mp4"
	}

	ref := fmt.Sprintf("src_%s%s", uuid.NewString()[:12], ext)
	dst := filepath.Join(h.cfg.InputDir, ref)

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "sources.upload", "could not create source file")
	}
	defer out.Close()

	n, err := out.ReadFrom(file)
	if err != nil {
		os.Remove(dst)
		return errors.Wrap(err, "sources.upload", "could not write source file")
	}

	httpkit.WriteJSON(w, http.StatusCreated, SourceEntry{
		Ref:       ref,
		SizeBytes: n,
		UpdatedAt: time.Now().UTC(),
	})
	return nil
}

// ListSources lists the files in the input directory.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) error {
	entries, err := os.ReadDir(h.cfg.InputDir)
	if err != nil {
		return errors.Wrap(err, "sources.list", "could not read input directory")
	}

	out := make([]SourceEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, SourceEntry{
			Ref:       e.Name(),
			SizeBytes: info.Size(),
			UpdatedAt: info.ModTime().UTC(),
		})
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"sources": out})
	return nil
}

// GetSourceMetadata probes a source. A missing source is 404; a failed probe
// degrades to empty metadata, never to an error.
func (h *Handler) GetSourceMetadata(w http.ResponseWriter, r *http.Request) error {
	ref := chi.URLParam(r, "ref")

	path, err := h.resolveSource(ref)
	if err != nil {
		return err
	}

	httpkit.WriteJSON(w, http.StatusOK, h.meta.Lookup(r.Context(), ref, path))
	return nil
}

// resolveSource mirrors the render service's sanitization: refs stay inside
// the input directory or they do not exist.
func (h *Handler) resolveSource(ref string) (string, error) {
	clean := filepath.Clean(ref)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", errors.SourceNotFound(ref)
	}
	path := filepath.Join(h.cfg.InputDir, clean)
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return "", errors.SourceNotFound(ref)
	}
	return path, nil
}

func guessExt(contentType string) string {
	if contentType == "" {
		return ""
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
