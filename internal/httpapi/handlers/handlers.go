// Package handlers implements the clipforge HTTP endpoints.
package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"clipforge/internal/config"
	"clipforge/internal/metadata"
	"clipforge/internal/pkg/logger"
	"clipforge/internal/render"
	"clipforge/internal/repositories"
)

// Renderer runs one render to completion; *render.Service satisfies it.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (render.Result, error)
}

type Deps struct {
	Renderer Renderer
	Metadata *metadata.Service
	Projects *repositories.ProjectRepository
	Pool     *pgxpool.Pool
	Cfg      config.Config
	Log      *logger.Logger
}

type Handler struct {
	renderer Renderer
	meta     *metadata.Service
	projects *repositories.ProjectRepository
	pool     *pgxpool.Pool
	cfg      config.Config
	log      *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		renderer: d.Renderer,
		meta:     d.Metadata,
		projects: d.Projects,
		pool:     d.Pool,
		cfg:      d.Cfg,
		log:      log,
	}
}
