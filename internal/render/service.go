// Package render orchestrates one clip render: resolve the source, compile
// the edit spec into filter chains, invoke the engine under a concurrency
// bound, and hand back the artifact name. Jobs live in memory for the length
// of the invocation only; nothing here persists.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"clipforge/internal/edit"
	"clipforge/internal/ffmpeg"
	"clipforge/internal/pkg/errors"
	"clipforge/internal/pkg/logger"
	"clipforge/internal/ports"
)

// Engine runs the external encoder with a prepared argument vector.
type Engine interface {
	Run(ctx context.Context, args []string) error
}

// Config holds the render service settings.
type Config struct {
	// InputDir is the directory source refs resolve under.
	InputDir string
	// OutputDir is where rendered artifacts land.
	OutputDir string
	// Timeout is the per-render wall-clock budget. Zero means unbounded.
	Timeout time.Duration
	// MaxConcurrent caps simultaneous engine processes.
	MaxConcurrent int64
	// AccessPrefix is the URL path rendered clips are served from.
	AccessPrefix string
}

// Request is one render invocation.
type Request struct {
	SourceRef string        `json:"sourceRef"`
	Moment    edit.Moment   `json:"moment"`
	Spec      edit.EditSpec `json:"editSpec"`
}

// Result describes a finished render.
type Result struct {
	OutputName string `json:"outputName"`
	AccessURL  string `json:"accessUrl"`
	RenderMs   int64  `json:"renderMs"`
}

// Service coordinates validation, compilation and engine invocation.
type Service struct {
	cfg     Config
	engine  Engine
	sem     *semaphore.Weighted
	archive ports.ArtifactStore
	log     *logger.Logger
}

// NewService creates a render service.
func NewService(cfg Config, engine Engine, log *logger.Logger) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.AccessPrefix == "" {
		cfg.AccessPrefix = "/clips"
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Service{
		cfg:    cfg,
		engine: engine,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		log:    log.WithComponent("render"),
	}
}

// Render runs one clip render to completion. Validation failures are reported
// before any process is spawned; on any engine error the partial output is
// removed so a broken artifact is never exposed.
func (s *Service) Render(ctx context.Context, req Request) (Result, error) {
	renderID := uuid.NewString()[:8]
	ctx = logger.ContextWithRenderID(ctx, renderID)
	log := s.log.FromContext(ctx)

	spec := req.Spec
	spec.Normalize()
	if err := spec.Validate(req.Moment); err != nil {
		return Result{}, err
	}

	inputPath, err := s.resolveSource(req.SourceRef)
	if err != nil {
		return Result{}, err
	}

	outputName := newOutputName()
	outputPath := filepath.Join(s.cfg.OutputDir, outputName)

	seek, duration := ffmpeg.TimeRange(req.Moment, &spec)
	args := ffmpeg.BuildArgs(ffmpeg.Job{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Seek:       seek,
		Duration:   duration,
		Video:      ffmpeg.CompileVideo(&spec),
		Audio:      ffmpeg.CompileAudio(&spec),
	})

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Result{}, errors.Wrap(err, "render.acquire", "render slot never became available")
	}
	defer s.sem.Release(1)

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	log.Info("starting render",
		"source_ref", req.SourceRef,
		"output", outputName,
		"seek", seek,
		"duration", duration,
	)

	start := time.Now()
	if err := s.engine.Run(runCtx, args); err != nil {
		s.discardPartial(outputPath, log)
		return Result{}, err
	}
	elapsed := time.Since(start)

	log.Info("render completed", "output", outputName, "render_ms", elapsed.Milliseconds())

	s.archiveArtifact(ctx, outputPath, outputName, log)

	return Result{
		OutputName: outputName,
		AccessURL:  s.cfg.AccessPrefix + "/" + outputName,
		RenderMs:   elapsed.Milliseconds(),
	}, nil
}

// WithArchive enables post-render upload of artifacts to an external store.
// The local provider is skipped: it would copy the file onto itself.
func (s *Service) WithArchive(store ports.ArtifactStore) *Service {
	s.archive = store
	return s
}

// archiveArtifact mirrors a finished clip into the configured store. Archive
// failure is logged, never surfaced; the local artifact already serves the
// access URL.
func (s *Service) archiveArtifact(ctx context.Context, path, name string, log *logger.Logger) {
	if s.archive == nil || s.archive.Provider() == "local" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Warn("could not open artifact for archiving", "output", name)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		log.WithError(err).Warn("could not stat artifact for archiving", "output", name)
		return
	}

	result, err := s.archive.PutObject(ctx, ports.UploadInput{
		ObjectKey:   "clips/" + name,
		ContentType: "video/mp4",
		Reader:      f,
		Size:        st.Size(),
	})
	if err != nil {
		log.WithError(err).Warn("artifact archive failed", "output", name, "provider", s.archive.Provider())
		return
	}
	log.Info("artifact archived", "output", name, "provider", s.archive.Provider(), "object_key", result.ObjectKey)
}

// resolveSource maps a source ref onto a readable file under the input
// directory. Absolute paths and anything escaping the directory are treated
// the same as a missing file.
func (s *Service) resolveSource(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.SourceNotFound(ref)
	}

	clean := filepath.Clean(ref)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", errors.SourceNotFound(ref)
	}

	path := filepath.Join(s.cfg.InputDir, clean)
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return "", errors.SourceNotFound(ref)
	}
	return path, nil
}

// discardPartial removes whatever the engine wrote before it died.
func (s *Service) discardPartial(path string, log *logger.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("could not remove partial output", "path", path)
	}
}

func newOutputName() string {
	return fmt.Sprintf("clip_%d_%s.mp4", time.Now().UnixNano(), uuid.NewString()[:8])
}
