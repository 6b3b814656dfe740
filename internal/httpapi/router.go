// Package httpapi wires the chi router for the clipforge API.
package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge/internal/config"
	"clipforge/internal/httpapi/handlers"
	"clipforge/internal/httpkit"
	"clipforge/internal/metadata"
	"clipforge/internal/pkg/logger"
	mw "clipforge/internal/pkg/middleware"
	"clipforge/internal/repositories"
)

// Deps carries everything the handlers need. Pool and Projects are nil when
// no database is configured; the project routes are simply not mounted then.
type Deps struct {
	Renderer handlers.Renderer
	Metadata *metadata.Service
	Projects *repositories.ProjectRepository
	Pool     *pgxpool.Pool
	Cfg      config.Config
	Log      *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("httpapi")

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging(log))
	r.Use(mw.Recovery(log))
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins: envCSV("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:8081",
		}),
	}))

	h := handlers.New(handlers.Deps{
		Renderer: d.Renderer,
		Metadata: d.Metadata,
		Projects: d.Projects,
		Pool:     d.Pool,
		Cfg:      d.Cfg,
		Log:      log,
	})
	wrap := func(fn mw.HandlerFunc) http.HandlerFunc {
		return mw.WrapHandler(log, fn)
	}

	r.Get("/health", h.Health)

	r.Post("/renders", wrap(h.PostRender))
	r.Get("/clips/{name}", wrap(h.GetClip))

	r.Post("/sources", wrap(h.PostSource))
	r.Get("/sources", wrap(h.ListSources))
	r.Get("/sources/{ref}/metadata", wrap(h.GetSourceMetadata))

	if d.Projects != nil {
		r.Post("/projects", wrap(h.PostProject))
		r.Get("/projects", wrap(h.ListProjects))
		r.Get("/projects/{projectId}", wrap(h.GetProject))
		r.Patch("/projects/{projectId}", wrap(h.PatchProject))
		r.Delete("/projects/{projectId}", wrap(h.DeleteProject))
		r.Get("/projects/{projectId}/history", wrap(h.GetProjectHistory))
	}

	return r
}

func envCSV(key string, def []string) []string {
	raw := strings.TrimSpace(config.Env(key, ""))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
