package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidEditSpec, "speed must be positive")

	if err.Code != CodeInvalidEditSpec {
		t.Errorf("expected code=%s, got %s", CodeInvalidEditSpec, err.Code)
	}
	if err.Message != "speed must be positive" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      InvalidEditSpec("bad aspect ratio"),
			contains: []string{"INVALID_EDIT_SPEC", "bad aspect ratio"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeEngineFailure,
				Message: "engine exited with code 1",
				Op:      "render.invoke",
			},
			contains: []string{"render.invoke", "ENGINE_FAILURE", "exited with code 1"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := SourceNotFound("talk.mp4")
	wrapped := Wrap(original, "render.resolve", "resolve failed")

	if wrapped.Code != CodeSourceNotFound {
		t.Errorf("expected preserved code %s, got %s", CodeSourceNotFound, wrapped.Code)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return the original error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "op", "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapWithCode(nil, CodeTimeout, "op", "message") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidEditSpec, 400},
		{CodeValidation, 400},
		{CodeSourceNotFound, 404},
		{CodeNotFound, 404},
		{CodeConflict, 409},
		{CodeEngineTimeout, 504},
		{CodeEngineFailure, 502},
		{CodeInvocation, 502},
		{CodeInternal, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}

	if got := HTTPStatus(fmt.Errorf("plain")); got != 500 {
		t.Errorf("untyped error should map to 500, got %d", got)
	}
}

func TestEngineFailureFields(t *testing.T) {
	err := EngineFailure(187, "Invalid data found when processing input")

	fields := GetFields(err)
	if fields["exit_code"] != 187 {
		t.Errorf("expected exit_code field, got %v", fields["exit_code"])
	}
	if fields["stderr"] != "Invalid data found when processing input" {
		t.Errorf("expected stderr field, got %v", fields["stderr"])
	}
}

func TestIsMatchesOnCode(t *testing.T) {
	err := Wrap(EngineTimeout("120s"), "render", "clip render failed")

	if !errors.Is(err, New(CodeEngineTimeout, "")) {
		t.Error("errors.Is should match on code through wrapping")
	}
	if !IsCode(err, CodeEngineTimeout) {
		t.Error("IsCode should report ENGINE_TIMEOUT")
	}
	if IsCode(err, CodeEngineFailure) {
		t.Error("IsCode should not report ENGINE_FAILURE")
	}
}

func TestGetCodeUntyped(t *testing.T) {
	if got := GetCode(fmt.Errorf("boom")); got != CodeInternal {
		t.Errorf("untyped error should report CodeInternal, got %s", got)
	}
}
