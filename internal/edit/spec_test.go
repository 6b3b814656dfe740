package edit

import (
	"testing"

	"clipforge/internal/pkg/errors"
)

func f(v float64) *float64 { return &v }

func validMoment() Moment { return Moment{StartTime: 10, EndTime: 40} }

func TestValidateAcceptsDefaults(t *testing.T) {
	spec := &EditSpec{}
	spec.Normalize()

	if err := spec.Validate(validMoment()); err != nil {
		t.Fatalf("normalized empty spec must validate: %v", err)
	}
	if spec.Speed != 1 {
		t.Errorf("Normalize should default speed to 1, got %v", spec.Speed)
	}
	if spec.AspectRatio != AspectOriginal {
		t.Errorf("Normalize should default aspect to original, got %q", spec.AspectRatio)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		spec   EditSpec
		moment Moment
	}{
		{"inverted moment", EditSpec{}, Moment{StartTime: 40, EndTime: 10}},
		{"empty moment", EditSpec{}, Moment{StartTime: 10, EndTime: 10}},
		{"bad aspect", EditSpec{AspectRatio: "2:1"}, validMoment()},
		{"brightness too high", EditSpec{Brightness: 1.5}, validMoment()},
		{"contrast too low", EditSpec{Contrast: -1.01}, validMoment()},
		{"saturation too high", EditSpec{Saturation: 2}, validMoment()},
		{"negative speed", EditSpec{Speed: -1}, validMoment()},
		{"negative trim", EditSpec{TrimStart: -1}, validMoment()},
		{"trims consume moment", EditSpec{TrimStart: 20, TrimEnd: 10}, validMoment()},
		{"empty overlay text", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "  "}}}, validMoment()},
		{"overlay x out of range", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", X: f(1.2)}}}, validMoment()},
		{"overlay y out of range", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", Y: f(-0.1)}}}, validMoment()},
		{"overlay zero font size", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi"}}}, validMoment()},
		{"overlay negative font size", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", FontSize: -12}}}, validMoment()},
		{"overlay bad color", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", FontSize: 36, Color: "red"}}}, validMoment()},
		{"overlay half window", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", FontSize: 36, StartSec: f(1)}}}, validMoment()},
		{"overlay inverted window", EditSpec{TextOverlays: []TextOverlay{{ID: "a", Text: "hi", FontSize: 36, StartSec: f(3), EndSec: f(1)}}}, validMoment()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			if spec.Speed == 0 {
				spec.Speed = 1
			}
			err := spec.Validate(tt.moment)
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			if !errors.IsCode(err, errors.CodeInvalidEditSpec) {
				t.Errorf("expected INVALID_EDIT_SPEC, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsFullSpec(t *testing.T) {
	spec := &EditSpec{
		AspectRatio: Aspect9x16,
		Brightness:  -0.2,
		Contrast:    0.3,
		Saturation:  1,
		Speed:       1.5,
		TrimStart:   1,
		TrimEnd:     2,
		TextOverlays: []TextOverlay{
			{ID: "a", Text: "hook", X: f(0.5), Y: f(0.1), StartSec: f(0), EndSec: f(2.5), Bold: true},
			{ID: "b", Text: "outro", Color: "#ff0055"},
		},
	}
	spec.Normalize()

	if err := spec.Validate(validMoment()); err != nil {
		t.Fatalf("full spec should validate: %v", err)
	}
	if spec.TextOverlays[1].FontSize != DefaultFontSize {
		t.Errorf("Normalize should default overlay font size, got %d", spec.TextOverlays[1].FontSize)
	}
	if spec.TextOverlays[0].Color != DefaultColor {
		t.Errorf("Normalize should default overlay color, got %q", spec.TextOverlays[0].Color)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		aspect string
		rw, rh int
		ok     bool
	}{
		{Aspect9x16, 9, 16, true},
		{Aspect16x9, 16, 9, true},
		{Aspect1x1, 1, 1, true},
		{Aspect4x3, 4, 3, true},
		{AspectOriginal, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.aspect, func(t *testing.T) {
			s := EditSpec{AspectRatio: tt.aspect}
			rw, rh, ok := s.Ratio()
			if rw != tt.rw || rh != tt.rh || ok != tt.ok {
				t.Errorf("Ratio() = %d,%d,%v want %d,%d,%v", rw, rh, ok, tt.rw, tt.rh, tt.ok)
			}
		})
	}
}
