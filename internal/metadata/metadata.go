// Package metadata probes source media for duration and dimensions, with a
// redis cache in front of ffprobe. The whole fetch is best-effort: a cache
// miss, cache outage or probe failure degrades to an empty result, never to
// a caller-visible error.
package metadata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"clipforge/internal/ffmpeg"
	"clipforge/internal/pkg/logger"
)

// Prober is the probe dependency; *ffmpeg.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (ffmpeg.SourceInfo, error)
}

// Service answers metadata lookups for resolved source paths.
type Service struct {
	prober Prober
	rdb    *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewService creates a metadata service. rdb may be nil, in which case every
// lookup probes directly.
func NewService(prober Prober, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Service{
		prober: prober,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.WithComponent("metadata"),
	}
}

// Lookup returns metadata for the file at path, keyed in the cache by the
// caller-visible ref. Probe budget is capped so a stuck ffprobe cannot hold
// a request.
func (s *Service) Lookup(ctx context.Context, ref, path string) ffmpeg.SourceInfo {
	log := s.log.FromContext(ctx)

	if info, ok := s.cached(ctx, ref); ok {
		return info
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	info, err := s.prober.Probe(probeCtx, path)
	if err != nil {
		log.WithError(err).Warn("probe failed, returning empty metadata", "source_ref", ref)
		return ffmpeg.SourceInfo{}
	}

	s.store(ctx, ref, info)
	return info
}

func (s *Service) cached(ctx context.Context, ref string) (ffmpeg.SourceInfo, bool) {
	if s.rdb == nil {
		return ffmpeg.SourceInfo{}, false
	}

	raw, err := s.rdb.Get(ctx, cacheKey(ref)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.FromContext(ctx).WithError(err).Warn("metadata cache read failed", "source_ref", ref)
		}
		return ffmpeg.SourceInfo{}, false
	}

	var info ffmpeg.SourceInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ffmpeg.SourceInfo{}, false
	}
	return info, true
}

func (s *Service) store(ctx context.Context, ref string, info ffmpeg.SourceInfo) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(ref), raw, s.ttl).Err(); err != nil {
		s.log.FromContext(ctx).WithError(err).Warn("metadata cache write failed", "source_ref", ref)
	}
}

func cacheKey(ref string) string { return "clipforge:meta:" + ref }
