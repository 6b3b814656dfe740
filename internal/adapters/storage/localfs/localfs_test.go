package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"clipforge/internal/ports"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	put, err := store.PutObject(ctx, ports.UploadInput{
		ObjectKey:   "clips/clip_1_abcd1234.mp4",
		ContentType: "video/mp4",
		Reader:      strings.NewReader("payload"),
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if put.Size != 7 {
		t.Errorf("size = %d, want 7", put.Size)
	}

	rc, contentType, size, err := store.GetObject(ctx, "clips/clip_1_abcd1234.mp4")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()

	body, _ := io.ReadAll(rc)
	if string(body) != "payload" {
		t.Errorf("body = %q", body)
	}
	if size != 7 {
		t.Errorf("size = %d", size)
	}
	if contentType != "video/mp4" {
		t.Errorf("content type = %q", contentType)
	}

	if err := store.DeleteObject(ctx, "clips/clip_1_abcd1234.mp4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, _, err := store.GetObject(ctx, "clips/clip_1_abcd1234.mp4"); err == nil {
		t.Error("object readable after delete")
	}
}

func TestPutRequiresKey(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.PutObject(context.Background(), ports.UploadInput{Reader: strings.NewReader("x")}); err == nil {
		t.Error("empty object key must be rejected")
	}
}
