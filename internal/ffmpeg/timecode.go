package ffmpeg

import (
	"fmt"
	"math"
)

// Timecode formats seconds as HH:MM:SS.mmm for -ss / -t. Seconds are
// zero-padded to two integer digits and millisecond precision is kept.
func Timecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	// Round to whole milliseconds first so 59.9996 does not print as 60.000.
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
