package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sdibella/vwap-gallery/internal/gallery"
	"github.com/sdibella/vwap-gallery/internal/live"
)

type pageData struct {
	View gallery.View
	Live bool
}

func newMux(state *gallery.State, hub *live.Hub, docsDir string) *http.ServeMux {
	files := http.FileServer(http.Dir(docsDir))

	mux := http.NewServeMux()
	mux.HandleFunc("/select", handleSelect(state))
	mux.HandleFunc("/api/links", handleLinks(state))
	if hub != nil {
		mux.Handle("/ws", hub)
	}
	mux.Handle("/reports/", files)
	mux.Handle("/manifest.json", files)
	mux.HandleFunc("/", handleIndex(state, hub != nil))
	return mux
}

// handleIndex renders the full page, applying contract/tf/range from the
// query string. The address bar is left as is.
func handleIndex(state *gallery.State, liveEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		m, err := state.Manifest()
		if err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			if err := templates.ExecuteTemplate(w, "error.html", err.Error()); err != nil {
				slog.Error("failed to render error template", "err", err)
			}
			return
		}

		view := gallery.NewController(m).FromQuery(r.URL.Query())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ExecuteTemplate(w, "index.html", pageData{View: view, Live: liveEnabled}); err != nil {
			slog.Error("failed to render index template", "err", err)
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// handleSelect applies one dropdown change and returns the gallery
// fragment. HX-Replace-Url carries the synced address bar.
func handleSelect(state *gallery.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := state.Manifest()
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		q := r.URL.Query()
		c := gallery.NewController(m)

		var view gallery.View
		switch q.Get("changed") {
		case "contract":
			view = c.OnContractChange(q.Get("contract"))
		case "tf":
			c.Restore(gallery.Selection{Contract: q.Get("contract")})
			view = c.OnTimeframeChange(q.Get("tf"))
		default:
			http.Error(w, `changed must be "contract" or "tf"`, http.StatusBadRequest)
			return
		}

		w.Header().Set("HX-Replace-Url", gallery.ReplaceURL(currentPath(r), view.Selection))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ExecuteTemplate(w, "gallery.html", view); err != nil {
			slog.Error("failed to render gallery template", "err", err)
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// handleLinks returns the view model as JSON, resolving the query the
// same way a page load does.
func handleLinks(state *gallery.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		m, err := state.Manifest()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		view := gallery.NewController(m).FromQuery(r.URL.Query())
		if err := json.NewEncoder(w).Encode(view); err != nil {
			slog.Error("failed to encode view", "err", err)
		}
	}
}

// currentPath is the page path htmx reports for the request, or "/".
func currentPath(r *http.Request) string {
	cur := r.Header.Get("HX-Current-URL")
	if cur == "" {
		return "/"
	}
	u, err := url.Parse(cur)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
