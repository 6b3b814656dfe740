package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"clipforge/internal/pkg/errors"
)

// GetClip serves a rendered artifact. http.ServeContent handles byte ranges,
// so players can seek without downloading the whole clip.
func (h *Handler) GetClip(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")

	// Artifact names never contain path separators.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return errors.NotFound("clip", name)
	}

	path := filepath.Join(h.cfg.OutputDir, name)
	f, err := os.Open(path)
	if err != nil {
		return errors.NotFound("clip", name)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		return errors.NotFound("clip", name)
	}

	w.Header().Set("Content-Type", "video/mp4")
	http.ServeContent(w, r, name, st.ModTime(), f)
	return nil
}
