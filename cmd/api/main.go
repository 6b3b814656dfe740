package main

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"clipforge/internal/config"
	"clipforge/internal/ffmpeg"
	"clipforge/internal/httpapi"
	"clipforge/internal/metadata"
	"clipforge/internal/pkg/logger"
	"clipforge/internal/pkg/shutdown"
	"clipforge/internal/render"
	"clipforge/internal/repositories"
	"clipforge/internal/storage"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       config.Env("LOG_LEVEL", "info"),
		Format:      config.Env("LOG_FORMAT", "json"),
		ServiceName: "clipforge-api",
		AddSource:   config.Env("LOG_SOURCE", "false") == "true",
	})

	log.Info("starting clipforge API", "version", "0.1.0")

	if err := cfg.EnsureDirs(); err != nil {
		log.LogFatal("failed to create media directories", err)
	}

	ctx := context.Background()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// PostgreSQL is optional; without it the API runs renders only.
	var pool *pgxpool.Pool
	var projects *repositories.ProjectRepository
	if cfg.DatabaseURL != "" {
		log.Info("connecting to PostgreSQL")
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.LogFatal("failed to connect to PostgreSQL", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.LogFatal("failed to ping PostgreSQL", err)
		}
		shutdownMgr.RegisterSimple("postgres", pool.Close)
		projects = repositories.NewProjectRepository(pool)
		log.Info("PostgreSQL connected")
	} else {
		log.Info("DATABASE_URL not set, project endpoints disabled")
	}

	// Redis is optional; without it metadata lookups probe every time.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		log.Info("connecting to Redis")
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.LogFatal("failed to ping Redis", err)
		}
		shutdownMgr.Register("redis", func(context.Context) error { return rdb.Close() })
		log.Info("Redis connected")
	} else {
		log.Info("REDIS_ADDR not set, metadata cache disabled")
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider initialized", "provider", store.Provider())

	executor := ffmpeg.NewExecutor(cfg.FFmpegBin, log)
	renderer := render.NewService(render.Config{
		InputDir:      cfg.InputDir,
		OutputDir:     cfg.OutputDir,
		Timeout:       cfg.RenderTimeout,
		MaxConcurrent: cfg.MaxConcurrentRenders,
	}, executor, log).WithArchive(store)

	meta := metadata.NewService(ffmpeg.NewProber(cfg.FFprobeBin), rdb, cfg.MetadataTTL, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Renderer: renderer,
		Metadata: meta,
		Projects: projects,
		Pool:     pool,
		Cfg:      cfg,
		Log:      log,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // renders are synchronous
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
