package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// SourceInfo is the subset of probe output the platform cares about.
type SourceInfo struct {
	DurationSec float64 `json:"durationSec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// Prober wraps ffprobe.
type Prober struct {
	bin string
}

// NewProber creates a prober for the given ffprobe binary, defaulting to
// "ffprobe" on PATH.
func NewProber(bin string) *Prober {
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{bin: bin}
}

// Probe reads container duration and the first video stream's dimensions.
func (p *Prober) Probe(ctx context.Context, path string) (SourceInfo, error) {
	cmd := exec.CommandContext(ctx, p.bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "csv=p=0",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return SourceInfo{}, fmt.Errorf("ffprobe %s: %w\n%s", path, err, string(b))
	}

	// Output is two lines: "width,height" then "duration".
	var info SourceInfo
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) == 2 {
			info.Width, _ = strconv.Atoi(fields[0])
			info.Height, _ = strconv.Atoi(fields[1])
			continue
		}
		if len(fields) == 1 && fields[0] != "" {
			if d, perr := strconv.ParseFloat(fields[0], 64); perr == nil {
				info.DurationSec = d
			}
		}
	}
	return info, nil
}
