// Package ffmpeg compiles a normalized edit spec into ffmpeg filter chains
// and drives the bounded external render process. Filters are typed nodes;
// the textual ffmpeg syntax only exists at the serialization boundary.
package ffmpeg

import (
	"fmt"
	"strings"
)

// Filter is a single node in a filter chain.
type Filter interface {
	// Expr returns the node in ffmpeg filter syntax.
	Expr() string
}

// Chain is an ordered list of filters, serialized comma-joined. Order is
// significant: later video filters draw on top of earlier ones.
type Chain []Filter

// Empty reports whether the chain has no nodes.
func (c Chain) Empty() bool { return len(c) == 0 }

// Expr serializes the chain for -vf / -af.
func (c Chain) Expr() string {
	parts := make([]string, 0, len(c))
	for _, f := range c {
		parts = append(parts, f.Expr())
	}
	return strings.Join(parts, ",")
}

// Crop centers a frame of unknown source dimensions onto a target aspect
// ratio without scaling. The source size is only known when the engine
// evaluates the filter, so width and height are runtime expressions: the
// axis overshooting the target ratio is cropped to the ratio, the other is
// kept whole. Both axes are even-rounded; libx264 rejects odd dimensions,
// so a kept axis of an odd-sized source still loses its last pixel.
type Crop struct {
	RW, RH int
}

func (c Crop) Expr() string {
	// Commas inside if() would split filter arguments, hence the quoting.
	w := fmt.Sprintf("'if(gt(iw/ih,%d/%d),floor(ih*%d/%d/2)*2,floor(iw/2)*2)'", c.RW, c.RH, c.RW, c.RH)
	h := fmt.Sprintf("'if(gt(iw/ih,%d/%d),floor(ih/2)*2,floor(iw*%d/%d/2)*2)'", c.RW, c.RH, c.RH, c.RW)
	return fmt.Sprintf("crop=w=%s:h=%s:x=(iw-ow)/2:y=(ih-oh)/2", w, h)
}

// Color maps brightness/contrast/saturation deltas onto a single eq filter.
// Brightness is passed through; contrast and saturation are deltas on the
// neutral multiplier 1.0. Zero-valued fields are omitted.
type Color struct {
	Brightness, Contrast, Saturation float64
}

func (c Color) Expr() string {
	var parts []string
	if c.Brightness != 0 {
		parts = append(parts, fmt.Sprintf("brightness=%.4f", c.Brightness))
	}
	if c.Contrast != 0 {
		parts = append(parts, fmt.Sprintf("contrast=%.4f", 1+c.Contrast))
	}
	if c.Saturation != 0 {
		parts = append(parts, fmt.Sprintf("saturation=%.4f", 1+c.Saturation))
	}
	return "eq=" + strings.Join(parts, ":")
}

// SetPTS rescales video timestamps by 1/Speed.
type SetPTS struct {
	Speed float64
}

func (s SetPTS) Expr() string {
	return fmt.Sprintf("setpts=PTS/%.4f", s.Speed)
}

// Atempo adjusts audio tempo. A single atempo stage only accepts
// [0.5, 2.0]; the compiler clamps into that range.
type Atempo struct {
	Tempo float64
}

func (a Atempo) Expr() string {
	return fmt.Sprintf("atempo=%.4f", a.Tempo)
}

// DrawText renders one text overlay. X and Y are ffmpeg position
// expressions; Enable, when non-empty, is a visibility predicate. Text is
// untrusted and escaped at serialization.
type DrawText struct {
	Text     string
	X, Y     string
	FontSize int
	Color    string
	Bold     bool
	Enable   string
}

func (d DrawText) Expr() string {
	var b strings.Builder
	fmt.Fprintf(&b, "drawtext=text='%s'", EscapeText(d.Text))
	fmt.Fprintf(&b, ":x=%s:y=%s", d.X, d.Y)
	fmt.Fprintf(&b, ":fontsize=%d:fontcolor=%s", d.FontSize, d.Color)
	if d.Bold {
		b.WriteString(":borderw=2:bordercolor=black")
	}
	if d.Enable != "" {
		fmt.Fprintf(&b, ":enable='%s'", d.Enable)
	}
	return b.String()
}
