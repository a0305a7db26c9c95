// Package frameslot implements the single-slot latest-wins frame buffer
// shared between the H.264 decoder and the renderer. A slow renderer must
// never make the decoder block or accumulate latency, so both push and
// consume use try-lock and never block the caller.
package frameslot

import (
	"sync"
	"sync/atomic"

	"github.com/cowby123/mirror-go/internal/h264"
)

// Slot holds at most one pending decoded frame.
type Slot struct {
	mu      sync.Mutex
	pending *h264.YuvFrame
	total   atomic.Int64
}

// New returns an empty slot.
func New() *Slot { return &Slot{} }

// Push installs frame as the pending one. If the lock is currently held by
// a concurrent Consume/Push, the frame is dropped and skipped reports true
// (contention itself counts as a skip, per the latest-wins contract). If
// the lock is free but a frame was already waiting, that frame is
// overwritten and skipped also reports true.
func (s *Slot) Push(frame *h264.YuvFrame) (skipped bool) {
	if !s.mu.TryLock() {
		return true
	}
	defer s.mu.Unlock()
	skipped = s.pending != nil
	s.pending = frame
	s.total.Add(1)
	return skipped
}

// Consume removes and returns the pending frame, or nil if none is
// present or the slot is momentarily locked by a concurrent Push.
func (s *Slot) Consume() *h264.YuvFrame {
	if !s.mu.TryLock() {
		return nil
	}
	defer s.mu.Unlock()
	f := s.pending
	s.pending = nil
	return f
}

// Count returns the monotonically increasing number of successful pushes.
func (s *Slot) Count() int64 { return s.total.Load() }
