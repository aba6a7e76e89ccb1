package gallery

import (
	"sync/atomic"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

// State owns the loaded manifest, or the error that prevented loading it.
// A failed initial load is terminal; Replace never clears it.
type State struct {
	current atomic.Pointer[manifest.Manifest]
	loadErr error
}

// NewState wraps the result of the initial manifest load.
func NewState(m manifest.Manifest, err error) *State {
	s := &State{loadErr: err}
	if err == nil {
		if m == nil {
			m = manifest.Manifest{}
		}
		s.current.Store(&m)
	}
	return s
}

// Manifest returns the manifest in use, or the initial load error.
func (s *State) Manifest() (manifest.Manifest, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return *s.current.Load(), nil
}

// Replace swaps in a reloaded manifest for new sessions. It reports false
// when the initial load failed.
func (s *State) Replace(m manifest.Manifest) bool {
	if s.loadErr != nil {
		return false
	}
	s.current.Store(&m)
	return true
}
