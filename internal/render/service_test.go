package render

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clipforge/internal/edit"
	"clipforge/internal/pkg/errors"
	"clipforge/internal/pkg/logger"
)

var outputNameRe = regexp.MustCompile(`^clip_\d+_[0-9a-f]{8}\.mp4$`)

// fakeEngine records invocations and simulates encoder behavior without
// spawning anything.
type fakeEngine struct {
	mu    sync.Mutex
	calls [][]string

	run func(ctx context.Context, args []string) error
}

func (f *fakeEngine) Run(ctx context.Context, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	if f.run != nil {
		return f.run(ctx, args)
	}
	return nil
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// writeOutput mimics the encoder creating its output file. The output path is
// always the final argument.
func writeOutput(args []string) error {
	return os.WriteFile(args[len(args)-1], []byte("mp4"), 0o644)
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

func newTestService(t *testing.T, engine Engine, mutate func(*Config)) (*Service, string, string) {
	t.Helper()
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "talk.mp4"), []byte("src"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Config{InputDir: inputDir, OutputDir: outputDir, MaxConcurrent: 2}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewService(cfg, engine, quietLogger()), inputDir, outputDir
}

func validRequest() Request {
	return Request{
		SourceRef: "talk.mp4",
		Moment:    edit.Moment{StartTime: 45, EndTime: 90},
	}
}

func TestRenderSuccess(t *testing.T) {
	engine := &fakeEngine{run: func(_ context.Context, args []string) error {
		return writeOutput(args)
	}}
	svc, inputDir, outputDir := newTestService(t, engine, nil)

	req := validRequest()
	req.Spec = edit.EditSpec{AspectRatio: edit.Aspect9x16, Speed: 1.5}

	res, err := svc.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !outputNameRe.MatchString(res.OutputName) {
		t.Errorf("output name %q does not match the naming scheme", res.OutputName)
	}
	if res.AccessURL != "/clips/"+res.OutputName {
		t.Errorf("access URL = %q", res.AccessURL)
	}
	if _, err := os.Stat(filepath.Join(outputDir, res.OutputName)); err != nil {
		t.Errorf("artifact missing after successful render: %v", err)
	}

	args := engine.calls[0]
	if !slices.Contains(args, filepath.Join(inputDir, "talk.mp4")) {
		t.Errorf("resolved input path missing from argv: %v", args)
	}
	if !slices.Contains(args, "-vf") || !slices.Contains(args, "-af") {
		t.Errorf("compiled chains missing from argv: %v", args)
	}
}

func TestRenderRejectsInvalidSpecBeforeSpawning(t *testing.T) {
	engine := &fakeEngine{}
	svc, _, _ := newTestService(t, engine, nil)

	req := validRequest()
	req.Spec = edit.EditSpec{Speed: -2}

	_, err := svc.Render(context.Background(), req)
	if !errors.IsCode(err, errors.CodeInvalidEditSpec) {
		t.Fatalf("expected INVALID_EDIT_SPEC, got %v", err)
	}
	if engine.callCount() != 0 {
		t.Error("engine must not be invoked for a rejected spec")
	}
}

func TestRenderSourceResolution(t *testing.T) {
	engine := &fakeEngine{}
	svc, _, _ := newTestService(t, engine, nil)

	for _, ref := range []string{
		"",
		"missing.mp4",
		"../talk.mp4",
		"a/../../talk.mp4",
		"/etc/passwd",
		".",
	} {
		t.Run(ref, func(t *testing.T) {
			req := validRequest()
			req.SourceRef = ref
			_, err := svc.Render(context.Background(), req)
			if !errors.IsCode(err, errors.CodeSourceNotFound) {
				t.Fatalf("ref %q: expected SOURCE_NOT_FOUND, got %v", ref, err)
			}
		})
	}
	if engine.callCount() != 0 {
		t.Error("engine must not be invoked for an unresolved source")
	}
}

func TestRenderDiscardsPartialOnFailure(t *testing.T) {
	engine := &fakeEngine{run: func(_ context.Context, args []string) error {
		if err := writeOutput(args); err != nil {
			return err
		}
		return errors.EngineFailure(1, "moov atom not found")
	}}
	svc, _, outputDir := newTestService(t, engine, nil)

	_, err := svc.Render(context.Background(), validRequest())
	if !errors.IsCode(err, errors.CodeEngineFailure) {
		t.Fatalf("expected ENGINE_FAILURE, got %v", err)
	}

	entries, readErr := os.ReadDir(outputDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("partial output not removed: %v", entries)
	}
}

func TestRenderTimeoutBudget(t *testing.T) {
	engine := &fakeEngine{run: func(ctx context.Context, _ []string) error {
		<-ctx.Done()
		return errors.EngineTimeout("1s")
	}}
	svc, _, _ := newTestService(t, engine, func(c *Config) {
		c.Timeout = 20 * time.Millisecond
	})

	_, err := svc.Render(context.Background(), validRequest())
	if !errors.IsCode(err, errors.CodeEngineTimeout) {
		t.Fatalf("expected ENGINE_TIMEOUT, got %v", err)
	}
}

func TestRenderConcurrencyBound(t *testing.T) {
	var active, peak atomic.Int64
	engine := &fakeEngine{run: func(_ context.Context, args []string) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		active.Add(-1)
		return writeOutput(args)
	}}
	svc, _, _ := newTestService(t, engine, func(c *Config) {
		c.MaxConcurrent = 2
	})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Render(context.Background(), validRequest()); err != nil {
				t.Errorf("render failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > 2 {
		t.Errorf("observed %d concurrent engine runs, bound is 2", got)
	}
}

func TestOutputNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := newOutputName()
		if !strings.HasPrefix(name, "clip_") {
			t.Fatalf("unexpected name %q", name)
		}
		if seen[name] {
			t.Fatalf("duplicate output name %q", name)
		}
		seen[name] = true
	}
}
