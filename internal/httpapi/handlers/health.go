package handlers

import (
	"context"
	"net/http"
	"os/exec"
	"time"

	"clipforge/internal/httpkit"
)

// Health reports service liveness; ?deep=true also checks the database and
// the engine binary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "ok",
		"service": "clipforge-api",
		"version": "0.1.0",
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(r.Context())
		health["checks"] = checks

		for _, check := range checks {
			if m, ok := check.(map[string]any); ok && m["status"] != "ok" {
				health["status"] = "degraded"
				h.log.FromContext(r.Context()).Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) deepHealthCheck(ctx context.Context) map[string]any {
	checks := map[string]any{
		"engine": h.checkEngine(),
	}
	if h.pool != nil {
		checks["postgres"] = h.checkPostgres(ctx)
	}
	return checks
}

func (h *Handler) checkPostgres(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.pool.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	} else {
		stats := h.pool.Stat()
		result["total_conns"] = stats.TotalConns()
		result["idle_conns"] = stats.IdleConns()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkEngine() map[string]any {
	result := map[string]any{"status": "ok", "bin": h.cfg.FFmpegBin}
	if _, err := exec.LookPath(h.cfg.FFmpegBin); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}
	return result
}
