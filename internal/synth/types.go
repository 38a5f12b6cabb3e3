package synth

import (
	"sync"

	"github.com/danielpatrickdp/forager/internal/config"
)

// #region settings

// Settings holds the shared command-generation parameters. Workers
// snapshot them per synthesis; the tuner adjusts Length between
// iterations. All methods are goroutine-safe.
type Settings struct {
	mu     sync.Mutex
	length int
	scope  int
}

// NewSettings returns settings clamped into their legal ranges.
func NewSettings(length, scope int) *Settings {
	return &Settings{
		length: clamp(length, config.CmdMin, config.CmdMax),
		scope:  clamp(scope, config.ScopeMin, config.ScopeMax),
	}
}

// Snapshot returns a consistent (length, scope) pair.
func (s *Settings) Snapshot() (length, scope int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length, s.scope
}

// AdjustLength adds delta to the length, clamped to [CmdMin, CmdMax],
// and returns the resulting value.
func (s *Settings) AdjustLength(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.length = clamp(s.length+delta, config.CmdMin, config.CmdMax)
	return s.length
}

// SetScope replaces the scope percentage, clamped to its range.
func (s *Settings) SetScope(scope int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = clamp(scope, config.ScopeMin, config.ScopeMax)
}

// #endregion settings

// #region helpers

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion helpers
