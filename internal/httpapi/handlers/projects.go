package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clipforge/internal/edit"
	"clipforge/internal/httpkit"
	"clipforge/internal/models"
	"clipforge/internal/pkg/errors"
)

type projectRequest struct {
	Name      string        `json:"name"`
	SourceRef string        `json:"sourceRef"`
	Spec      edit.EditSpec `json:"editSpec"`
}

// PostProject creates a project with its initial edit spec.
func (h *Handler) PostProject(w http.ResponseWriter, r *http.Request) error {
	var req projectRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "projects.decode", "invalid project body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return errors.Validation("name is required").WithField("field", "name")
	}
	if strings.TrimSpace(req.SourceRef) == "" {
		return errors.Validation("sourceRef is required").WithField("field", "sourceRef")
	}

	req.Spec.Normalize()

	p := &models.Project{
		Name:      req.Name,
		SourceRef: req.SourceRef,
		Spec:      req.Spec,
	}
	if err := h.projects.Create(r.Context(), p); err != nil {
		return err
	}

	httpkit.WriteJSON(w, http.StatusCreated, p)
	return nil
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) error {
	list, err := h.projects.List(r.Context())
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"projects": list})
	return nil
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) error {
	p, err := h.projects.Get(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, p)
	return nil
}

// PatchProject replaces the project's edit spec and appends a history
// revision. The spec is validated against a synthetic moment-independent
// check: field ranges only, since the moment is chosen at render time.
func (h *Handler) PatchProject(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Spec edit.EditSpec `json:"editSpec"`
	}
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "projects.decode", "invalid patch body")
	}

	req.Spec.Normalize()
	if err := req.Spec.Validate(edit.Moment{StartTime: 0, EndTime: edit.MaxMomentSeconds}); err != nil {
		return err
	}

	id := chi.URLParam(r, "projectId")
	if err := h.projects.UpdateSpec(r.Context(), id, req.Spec); err != nil {
		return err
	}

	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, p)
	return nil
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) error {
	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "projectId")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) GetProjectHistory(w http.ResponseWriter, r *http.Request) error {
	revs, err := h.projects.History(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"revisions": revs})
	return nil
}
