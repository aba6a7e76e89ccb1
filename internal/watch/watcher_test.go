package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(`{"ES": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan manifest.Manifest, 4)
	w, err := New(path, 50*time.Millisecond, func(m manifest.Manifest) { got <- m })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Unrelated files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"ES": {}, "NQU25": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-got:
		if _, ok := m["NQU25"]; !ok {
			t.Errorf("reloaded manifest missing NQU25: %v", m)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherKeepsOldManifestOnBadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan manifest.Manifest, 4)
	w, err := New(path, 50*time.Millisecond, func(m manifest.Manifest) { got <- m })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-got:
		t.Fatalf("unexpected reload with %v", m)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "manifest.json"), 0, func(manifest.Manifest) {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
