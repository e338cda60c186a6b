// snapshot.go - lock-free triple buffer for the waveform window

package bytebeat

import (
	"sync"
	"sync/atomic"
)

const snapFresh = 1 << 31

// snapshotBuffer hands complete windows from the render goroutine to readers.
// The writer fills back and swaps it with middle; a reader swaps a fresh
// middle into front. Neither side ever sees the other's buffer, so a window
// is never torn and the writer never waits.
type snapshotBuffer struct {
	bufs [3][]float32
	lens [3]int

	back   uint32        // writer owned
	middle atomic.Uint32 // index | snapFresh when unread

	readMu sync.Mutex // serializes readers only
	front  uint32
}

func newSnapshotBuffer(window int) *snapshotBuffer {
	s := &snapshotBuffer{back: 0, front: 2}
	for i := range s.bufs {
		s.bufs[i] = make([]float32, window)
	}
	s.middle.Store(1)
	return s
}

// writeBuf returns the writer's buffer. Only the render goroutine calls it.
func (s *snapshotBuffer) writeBuf() []float32 {
	return s.bufs[s.back]
}

// publish makes the first n values of the write buffer the current window.
func (s *snapshotBuffer) publish(n int) {
	s.lens[s.back] = n
	prev := s.middle.Swap(s.back | snapFresh)
	s.back = prev &^ snapFresh
}

// read copies the latest window into dst, growing it as needed.
func (s *snapshotBuffer) read(dst []float32) []float32 {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if s.middle.Load()&snapFresh != 0 {
		prev := s.middle.Swap(s.front)
		s.front = prev &^ snapFresh
	}
	n := s.lens[s.front]
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	copy(dst, s.bufs[s.front][:n])
	return dst
}
