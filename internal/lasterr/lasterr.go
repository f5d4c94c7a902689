// Package lasterr holds the single pending error slot consulted by foreign
// binding layers after every API call.
//
// The slot is sticky: it is cleared at the start of every entry point, set
// at most once if that entry point fails, and read-and-cleared by the
// caller's post-call poll. When a second failure lands before the first has
// been polled, the first error wins; the later one is logged and dropped so
// the root cause of a broken call sequence is what the caller sees.
package lasterr

import (
	"log/slog"
	"sync"
)

// Slot is the process-wide pending-error state.
type Slot struct {
	mu     sync.Mutex
	err    error
	logger *slog.Logger
}

// New creates an empty slot. logger may be nil.
func New(logger *slog.Logger) *Slot {
	return &Slot{logger: logger}
}

// Clear discards any pending error. Called on entry to every API call.
func (s *Slot) Clear() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// Record stores err as the pending error if the slot is empty. A nil err is
// ignored. Returns true if the error was stored, false if an earlier error
// was kept instead.
func (s *Slot) Record(err error) bool {
	if err == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		if s.logger != nil {
			s.logger.Warn("error dropped: earlier error not yet polled",
				"kept", s.err, "dropped", err)
		}
		return false
	}
	s.err = err
	return true
}

// Take returns the pending error message and clears the slot. The second
// return value reports whether an error was pending.
func (s *Slot) Take() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return "", false
	}
	msg := s.err.Error()
	s.err = nil
	return msg, true
}

// Pending reports whether an error is waiting to be polled, without
// clearing it.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err != nil
}
