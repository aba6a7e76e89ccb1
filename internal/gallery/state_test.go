package gallery

import (
	"errors"
	"testing"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

func TestStateReplace(t *testing.T) {
	s := NewState(manifest.Manifest{"ES": {}}, nil)
	m, err := s.Manifest()
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if _, ok := m["ES"]; !ok {
		t.Fatal("expected ES")
	}

	if !s.Replace(manifest.Manifest{"NQU25": {}}) {
		t.Fatal("Replace should succeed after a good load")
	}
	m, _ = s.Manifest()
	if _, ok := m["NQU25"]; !ok {
		t.Error("expected reloaded manifest")
	}
}

func TestStateLoadFailureIsTerminal(t *testing.T) {
	loadErr := &manifest.LoadError{Source: "manifest.json", Err: errors.New("boom")}
	s := NewState(nil, loadErr)

	if s.Replace(manifest.Manifest{"ES": {}}) {
		t.Error("Replace should refuse after a failed initial load")
	}
	_, err := s.Manifest()
	var le *manifest.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *manifest.LoadError, got %v", err)
	}
}

func TestStateNilManifest(t *testing.T) {
	m, err := NewState(nil, nil).Manifest()
	if err != nil || m == nil {
		t.Errorf("got %v, %v; want empty manifest", m, err)
	}
}
