// Package edit holds the validated, normalized in-memory representation of a
// requested clip edit: crop/aspect choice, color deltas, playback speed,
// trim offsets and timed text overlays. Pure data; the ffmpeg package turns
// it into a filter graph.
package edit

import (
	"fmt"
	"regexp"
	"strings"

	"clipforge/internal/pkg/errors"
)

// Supported target aspect ratios. An empty ratio is treated as Original.
const (
	AspectOriginal = "original"
	Aspect9x16     = "9:16"
	Aspect16x9     = "16:9"
	Aspect1x1      = "1:1"
	Aspect4x3      = "4:3"
)

// MaxMomentSeconds is a generous moment bound for validating a spec before
// a concrete moment exists, e.g. when saving project edits.
const MaxMomentSeconds = 24 * 60 * 60

// Moment is an absolute start/end range (seconds) within the source video.
type Moment struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// Duration returns the moment length in seconds.
func (m Moment) Duration() float64 { return m.EndTime - m.StartTime }

// TextOverlay is one timed text element. X/Y are normalized [0,1] positions;
// nil means "use the default placement" (centered horizontally, 85% down).
// StartSec/EndSec nil means visible for the entire clip.
type TextOverlay struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	FontSize int      `json:"fontSize,omitempty"`
	Color    string   `json:"color,omitempty"`
	StartSec *float64 `json:"startSec,omitempty"`
	EndSec   *float64 `json:"endSec,omitempty"`
	Bold     bool     `json:"bold,omitempty"`
}

// EditSpec is the full set of user-chosen transformations for one moment.
// The free-form crop box (CropX..CropH) is part of the authoring model but
// is superseded by AspectRatio at render time; it is carried and validated
// but never compiled into a filter.
type EditSpec struct {
	AspectRatio string  `json:"aspectRatio,omitempty"`
	Brightness  float64 `json:"brightness,omitempty"`
	Contrast    float64 `json:"contrast,omitempty"`
	Saturation  float64 `json:"saturation,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
	TrimStart   float64 `json:"trimStart,omitempty"`
	TrimEnd     float64 `json:"trimEnd,omitempty"`

	CropX float64 `json:"cropX,omitempty"`
	CropY float64 `json:"cropY,omitempty"`
	CropW float64 `json:"cropW,omitempty"`
	CropH float64 `json:"cropH,omitempty"`

	TextOverlays []TextOverlay `json:"textOverlays,omitempty"`
}

// Overlay defaults applied by Normalize.
const (
	DefaultFontSize = 36
	DefaultColor    = "#ffffff"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Normalize fills zero-valued fields with their neutral defaults so the
// compiler only ever sees a complete spec. It does not validate.
func (s *EditSpec) Normalize() {
	if s.AspectRatio == "" {
		s.AspectRatio = AspectOriginal
	}
	if s.Speed == 0 {
		s.Speed = 1
	}
	for i := range s.TextOverlays {
		ov := &s.TextOverlays[i]
		if ov.FontSize == 0 {
			ov.FontSize = DefaultFontSize
		}
		if ov.Color == "" {
			ov.Color = DefaultColor
		}
		ov.Text = strings.TrimRight(ov.Text, "\n")
	}
}

// Validate checks every field range from the authoring contract. The first
// violation is returned as an INVALID_EDIT_SPEC error; a render request must
// fail here before any external process is spawned.
func (s *EditSpec) Validate(m Moment) error {
	if m.StartTime >= m.EndTime {
		return errors.InvalidEditSpecf("moment start %.3f must be before end %.3f", m.StartTime, m.EndTime)
	}
	if !validAspect(s.AspectRatio) {
		return errors.InvalidEditSpecf("unsupported aspect ratio %q", s.AspectRatio)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
	} {
		if f.v < -1 || f.v > 1 {
			return errors.InvalidEditSpecf("%s %.4f out of range [-1, 1]", f.name, f.v)
		}
	}
	if s.Speed <= 0 {
		return errors.InvalidEditSpecf("speed %.4f must be positive", s.Speed)
	}
	if s.TrimStart < 0 || s.TrimEnd < 0 {
		return errors.InvalidEditSpec("trim offsets must not be negative")
	}
	if s.TrimStart+s.TrimEnd >= m.Duration() {
		return errors.InvalidEditSpecf("trims (%.3f + %.3f) consume the whole %.3fs moment",
			s.TrimStart, s.TrimEnd, m.Duration())
	}
	for i, ov := range s.TextOverlays {
		if err := ov.validate(); err != nil {
			return errors.InvalidEditSpecf("overlay %d: %v", i, err)
		}
	}
	return nil
}

func (ov TextOverlay) validate() error {
	if strings.TrimSpace(ov.Text) == "" {
		return fmt.Errorf("text must not be empty")
	}
	if ov.X != nil && (*ov.X < 0 || *ov.X > 1) {
		return fmt.Errorf("x %.4f out of range [0, 1]", *ov.X)
	}
	if ov.Y != nil && (*ov.Y < 0 || *ov.Y > 1) {
		return fmt.Errorf("y %.4f out of range [0, 1]", *ov.Y)
	}
	if ov.FontSize <= 0 {
		return fmt.Errorf("fontSize %d must be positive", ov.FontSize)
	}
	if ov.Color != "" && !hexColorRe.MatchString(ov.Color) {
		return fmt.Errorf("color %q is not a hex color", ov.Color)
	}
	if (ov.StartSec == nil) != (ov.EndSec == nil) {
		return fmt.Errorf("startSec and endSec must be set together")
	}
	if ov.StartSec != nil {
		if *ov.StartSec < 0 {
			return fmt.Errorf("startSec %.3f must not be negative", *ov.StartSec)
		}
		if *ov.EndSec <= *ov.StartSec {
			return fmt.Errorf("endSec %.3f must be after startSec %.3f", *ov.EndSec, *ov.StartSec)
		}
	}
	return nil
}

func validAspect(r string) bool {
	switch r {
	case "", AspectOriginal, Aspect9x16, Aspect16x9, Aspect1x1, Aspect4x3:
		return true
	}
	return false
}

// Ratio returns the numeric rw:rh pair for the spec's aspect ratio and
// ok=false for "original" (no crop).
func (s *EditSpec) Ratio() (rw, rh int, ok bool) {
	switch s.AspectRatio {
	case Aspect9x16:
		return 9, 16, true
	case Aspect16x9:
		return 16, 9, true
	case Aspect1x1:
		return 1, 1, true
	case Aspect4x3:
		return 4, 3, true
	}
	return 0, 0, false
}
