package metadata

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"clipforge/internal/ffmpeg"
	"clipforge/internal/pkg/logger"
)

type fakeProber struct {
	info  ffmpeg.SourceInfo
	err   error
	calls int
}

func (f *fakeProber) Probe(ctx context.Context, path string) (ffmpeg.SourceInfo, error) {
	f.calls++
	return f.info, f.err
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

func TestLookupProbesWithoutCache(t *testing.T) {
	prober := &fakeProber{info: ffmpeg.SourceInfo{DurationSec: 120, Width: 1920, Height: 1080}}
	svc := NewService(prober, nil, time.Minute, quietLogger())

	info := svc.Lookup(context.Background(), "talk.mp4", "/in/talk.mp4")
	if info.DurationSec != 120 || info.Width != 1920 {
		t.Errorf("unexpected metadata: %+v", info)
	}
	if prober.calls != 1 {
		t.Errorf("probe calls = %d, want 1", prober.calls)
	}
}

func TestLookupDegradesOnProbeFailure(t *testing.T) {
	prober := &fakeProber{err: fmt.Errorf("moov atom not found")}
	svc := NewService(prober, nil, time.Minute, quietLogger())

	info := svc.Lookup(context.Background(), "broken.mp4", "/in/broken.mp4")
	if info != (ffmpeg.SourceInfo{}) {
		t.Errorf("probe failure must yield empty metadata, got %+v", info)
	}
}
