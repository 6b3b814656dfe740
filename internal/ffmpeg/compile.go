package ffmpeg

import (
	"fmt"

	"clipforge/internal/edit"
)

// Single-stage atempo range. Speeds outside it are clamped; chaining
// multiple tempo stages is a documented limitation, not supported here.
const (
	AtempoMin = 0.5
	AtempoMax = 2.0
)

// CompileVideo assembles the visual filter chain for a normalized spec in
// fixed precedence: crop, then color, then timestamp scaling, then text
// overlays in authoring order. Crop runs first so color work is not spent on
// discarded pixels; overlays run last so they draw on the final framed,
// corrected, time-scaled output. An empty chain means no -vf argument.
func CompileVideo(spec *edit.EditSpec) Chain {
	var chain Chain

	if rw, rh, ok := spec.Ratio(); ok {
		chain = append(chain, Crop{RW: rw, RH: rh})
	}

	if spec.Brightness != 0 || spec.Contrast != 0 || spec.Saturation != 0 {
		chain = append(chain, Color{
			Brightness: spec.Brightness,
			Contrast:   spec.Contrast,
			Saturation: spec.Saturation,
		})
	}

	if spec.Speed != 1 {
		chain = append(chain, SetPTS{Speed: spec.Speed})
	}

	for _, ov := range spec.TextOverlays {
		chain = append(chain, compileOverlay(ov))
	}

	return chain
}

// CompileAudio assembles the audio filter chain. Speed is the only audio
// adjustment; it must stay in sync with the setpts node on the video chain
// but is a separate chain entry, never conflated with it.
func CompileAudio(spec *edit.EditSpec) Chain {
	if spec.Speed == 1 {
		return nil
	}
	tempo := spec.Speed
	if tempo < AtempoMin {
		tempo = AtempoMin
	}
	if tempo > AtempoMax {
		tempo = AtempoMax
	}
	return Chain{Atempo{Tempo: tempo}}
}

func compileOverlay(ov edit.TextOverlay) DrawText {
	d := DrawText{
		Text:     ov.Text,
		X:        "(w-text_w)/2",
		Y:        "0.85*h",
		FontSize: ov.FontSize,
		Color:    ov.Color,
		Bold:     ov.Bold,
	}
	if ov.X != nil {
		d.X = fmt.Sprintf("%.4f*w", *ov.X)
	}
	if ov.Y != nil {
		d.Y = fmt.Sprintf("%.4f*h", *ov.Y)
	}
	if ov.StartSec != nil && ov.EndSec != nil {
		d.Enable = fmt.Sprintf("between(t,%.3f,%.3f)", *ov.StartSec, *ov.EndSec)
	}
	return d
}

// TimeRange converts a moment plus trim offsets into the absolute seek
// timestamp and clip duration the engine consumes. Trims shrink the moment
// from both ends; validation guarantees a positive remaining duration.
func TimeRange(m edit.Moment, spec *edit.EditSpec) (seek, duration string) {
	start := m.StartTime + spec.TrimStart
	end := m.EndTime - spec.TrimEnd
	return Timecode(start), Timecode(end - start)
}
