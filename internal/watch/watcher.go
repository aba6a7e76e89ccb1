// Package watch reloads the manifest when its file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

// DefaultDebounce batches the burst of writes a manifest generator emits.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives each successfully reloaded manifest.
type ReloadFunc func(manifest.Manifest)

// Watcher watches one manifest file. The parent directory is watched so
// that generators replacing the file via rename are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload ReloadFunc

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending bool
	lastEv  time.Time
}

// New creates a watcher for the manifest at path.
func New(path string, debounce time.Duration, onReload ReloadFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onReload: onReload,
		watcher:  fw,
	}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	tick := time.NewTicker(w.debounce / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("manifest watcher error", "err", err)

		case <-tick.C:
			if w.due() {
				w.reload(ctx)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return
	}
	slog.Debug("manifest changed", "op", ev.Op.String(), "path", ev.Name)

	w.mu.Lock()
	w.pending = true
	w.lastEv = time.Now()
	w.mu.Unlock()
}

// due reports whether a pending change has settled past the debounce window.
func (w *Watcher) due() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || time.Since(w.lastEv) < w.debounce {
		return false
	}
	w.pending = false
	return true
}

func (w *Watcher) reload(ctx context.Context) {
	m, err := manifest.Load(ctx, w.path)
	if err != nil {
		// Keep serving the previous manifest; a half-written file is retried
		// on its next write event.
		slog.Warn("manifest reload failed", "err", err)
		return
	}
	slog.Info("manifest reloaded", "path", w.path, "contracts", len(m))
	w.onReload(m)
}
