// Package slot holds the single currently running program.
package slot

import (
	"sync"

	"github.com/sudankdk/pxexec/internal/runtime"
)

// Slot stores zero or one handle. The lock is held only for the swap itself;
// callers terminate whatever they get back outside of it.
type Slot struct {
	mu      sync.Mutex
	current runtime.Handle
}

func New() *Slot {
	return &Slot{}
}

// Install stores h and returns the handle it replaced, or nil.
// A replaced handle is returned to exactly one caller.
func (s *Slot) Install(h runtime.Handle) runtime.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = h
	return prev
}

// Take empties the slot and returns what it held, or nil.
func (s *Slot) Take() runtime.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = nil
	return prev
}
