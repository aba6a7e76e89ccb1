// Package manifest loads the precomputed report index that drives the gallery.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Manifest maps contract -> timeframe -> date range -> report batch.
type Manifest map[string]map[string]map[string]Report

// Report is one report batch. Only HTML is used by the gallery.
type Report struct {
	HTML      []string `json:"html"`
	PNG       []string `json:"png,omitempty"`
	CSV       []string `json:"csv,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

// Lookup returns the report at m[contract][timeframe][dateRange].
func (m Manifest) Lookup(contract, timeframe, dateRange string) (Report, bool) {
	r, ok := m[contract][timeframe][dateRange]
	return r, ok
}

// LoadError is the single failure kind of the gallery: the manifest could
// not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load manifest %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the manifest from a file path or an http(s) URL.
func Load(ctx context.Context, src string) (Manifest, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		data, err = fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}

	m, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}
	return m, nil
}

// Parse decodes a manifest document.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to load manifest: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
