package blob

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	key, err := store.Put(ctx, strings.NewReader("fake jpeg bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("expected .jpg key, got %q", key)
	}

	content, contentType, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "fake jpeg bytes" {
		t.Errorf("unexpected content: %q", data)
	}
	if contentType != "image/jpeg" {
		t.Errorf("unexpected content type: %q", contentType)
	}
}

func TestLocalStoreRejectsPathlikeKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if _, _, err := store.Get(ctx, key); err != ErrNotFound {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestLocalStoreDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	ctx := context.Background()

	key, err := store.Put(ctx, strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := store.Get(ctx, key); err != ErrNotFound {
		t.Errorf("Get after delete: expected ErrNotFound, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}
