package main

import (
	"context"
	"embed"
	"flag"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sdibella/vwap-gallery/internal/config"
	"github.com/sdibella/vwap-gallery/internal/gallery"
	"github.com/sdibella/vwap-gallery/internal/live"
	"github.com/sdibella/vwap-gallery/internal/manifest"
	"github.com/sdibella/vwap-gallery/internal/watch"
)

//go:embed web/templates/*
var templateFS embed.FS

var templates *template.Template

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "web/templates/*.html")
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	docsDir := flag.String("docs", "", "docs directory (overrides GALLERY_DOCS_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	if *docsDir != "" {
		cfg.DocsDir = *docsDir
	}

	// Logging
	logLevel := cfg.SlogLevel()
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	templates, err = parseTemplates()
	if err != nil {
		slog.Error("failed to parse templates", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed load is kept and shown on every page; it is never retried.
	src := cfg.ManifestSource()
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	m, loadErr := manifest.Load(loadCtx, src)
	loadCancel()
	if loadErr != nil {
		slog.Error("error loading manifest", "err", loadErr)
	} else {
		slog.Info("manifest loaded", "source", src, "contracts", len(m))
	}
	state := gallery.NewState(m, loadErr)

	// The live feed only exists while the manifest file is watched.
	var hub *live.Hub
	if cfg.Watch && loadErr == nil && !cfg.ManifestIsRemote() {
		hub = live.NewHub()
		if !startWatcher(ctx, src, state, hub) {
			hub = nil
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newMux(state, hub, cfg.DocsDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("VWAP reports gallery starting", "url", "http://"+cfg.Addr(), "docs", cfg.DocsDir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("received signal, shutting down", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

func startWatcher(ctx context.Context, src string, state *gallery.State, hub *live.Hub) bool {
	w, err := watch.New(src, watch.DefaultDebounce, func(m manifest.Manifest) {
		if state.Replace(m) {
			hub.Broadcast(live.ManifestReloaded())
		}
	})
	if err != nil {
		slog.Warn("manifest watcher disabled", "err", err)
		return false
	}
	go func() {
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("manifest watcher stopped", "err", err)
		}
	}()
	slog.Info("watching manifest", "path", src)
	return true
}
