package handlers

import (
	"net/http"

	"clipforge/internal/httpkit"
	"clipforge/internal/pkg/errors"
	"clipforge/internal/render"
)

// PostRender accepts a render request, runs it to completion and returns the
// artifact name and its access URL. Invalid specs never reach the engine.
func (h *Handler) PostRender(w http.ResponseWriter, r *http.Request) error {
	var req render.Request
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return errors.WrapWithCode(err, errors.CodeValidation, "renders.decode", "invalid render request body")
	}

	result, err := h.renderer.Render(r.Context(), req)
	if err != nil {
		return err
	}

	httpkit.WriteJSON(w, http.StatusCreated, result)
	return nil
}
