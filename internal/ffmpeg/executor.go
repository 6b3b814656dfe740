package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"clipforge/internal/pkg/errors"
	"clipforge/internal/pkg/logger"
)

// Executor runs the external engine as a scoped resource: spawn, then
// guaranteed reap or kill on every exit path. One invocation per render.
type Executor struct {
	bin string
	log *logger.Logger
}

// NewExecutor creates an executor for the given engine binary. An empty path
// falls back to "ffmpeg" on PATH.
func NewExecutor(bin string, log *logger.Logger) *Executor {
	if bin == "" {
		bin = "ffmpeg"
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Executor{bin: bin, log: log.WithComponent("engine")}
}

// Run executes the engine with the given argument vector and blocks until it
// exits or ctx expires. The process runs in its own group; on timeout or
// cancellation the whole group is killed so no child encoder survives
// undetected. Failures come back as typed errors: ENGINE_TIMEOUT,
// ENGINE_FAILURE (with the stderr tail attached) or INVOCATION_ERROR.
func (e *Executor) Run(ctx context.Context, args []string) error {
	budget := "unbounded"
	if dl, ok := ctx.Deadline(); ok {
		budget = time.Until(dl).Round(time.Second).String()
	}

	cmd := exec.CommandContext(ctx, e.bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	e.log.FromContext(ctx).Debug("spawning engine", "bin", e.bin, "args", args)

	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		e.log.FromContext(ctx).Debug("engine finished", "duration_ms", elapsed.Milliseconds())
		return nil
	}

	switch ctx.Err() {
	case context.DeadlineExceeded:
		e.log.FromContext(ctx).Warn("engine killed after timeout",
			"budget", budget,
			"duration_ms", elapsed.Milliseconds(),
		)
		return errors.EngineTimeout(budget)
	case context.Canceled:
		return errors.Wrap(ctx.Err(), "render.invoke", "render cancelled")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errors.EngineFailure(exitErr.ExitCode(), tail(stderr.String(), 2000))
	}

	// The process never started: missing binary, permissions.
	return errors.Invocation(err)
}

func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
