package httpkit

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"clipforge/internal/pkg/errors"
)

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/renders", strings.NewReader(`{"speeed": 2}`))

	var body struct {
		Speed float64 `json:"speed"`
	}
	if err := DecodeJSON(req, &body); err == nil {
		t.Fatal("unknown field must be rejected")
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid spec", errors.InvalidEditSpec("speed must be positive"), 400, "INVALID_EDIT_SPEC"},
		{"source missing", errors.SourceNotFound("ghost.mp4"), 404, "SOURCE_NOT_FOUND"},
		{"engine timeout", errors.EngineTimeout("2m"), 504, "ENGINE_TIMEOUT"},
		{"engine failure", errors.EngineFailure(1, "moov atom not found"), 502, "ENGINE_FAILURE"},
		{"untyped", fmt.Errorf("disk on fire"), 500, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("response is not a valid envelope: %v", err)
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if env.Error.Message == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

func TestWriteErrorDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.EngineFailure(187, "Error opening input"))

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error.Details["stderr"] != "Error opening input" {
		t.Errorf("stderr detail missing: %v", env.Error.Details)
	}
}
