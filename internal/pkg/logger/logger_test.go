package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf, ServiceName: "render-test"})

	log.Info("render complete", "output", "clip_1.mp4")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "render complete" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if rec["service"] != "render-test" {
		t.Errorf("expected service attr, got %v", rec["service"])
	}
	if rec["output"] != "clip_1.mp4" {
		t.Errorf("expected output attr, got %v", rec["output"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "text", Output: &buf})

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info records should be filtered: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-42")
	ctx = ContextWithRenderID(ctx, "rnd-7")

	log.FromContext(ctx).Info("working")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["request_id"] != "req-42" {
		t.Errorf("expected request_id=req-42, got %v", rec["request_id"])
	}
	if rec["render_id"] != "rnd-7" {
		t.Errorf("expected render_id=rnd-7, got %v", rec["render_id"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithComponent("compiler").Info("chain assembled")

	if !strings.Contains(buf.String(), `"component":"compiler"`) {
		t.Errorf("component attr missing: %s", buf.String())
	}
}
