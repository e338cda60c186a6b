package bytebeat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotBuffer_LatestWins(t *testing.T) {
	s := newSnapshotBuffer(4)
	assert.Empty(t, s.read(nil), "nothing published yet")

	for round := 1; round <= 3; round++ {
		w := s.writeBuf()
		for i := range w {
			w[i] = float32(round)
		}
		s.publish(len(w))
	}
	assert.Equal(t, []float32{3, 3, 3, 3}, s.read(nil))

	// No new publish: the reader keeps the same window.
	assert.Equal(t, []float32{3, 3, 3, 3}, s.read(nil))

	w := s.writeBuf()
	w[0], w[1] = 9, 8
	s.publish(2)
	assert.Equal(t, []float32{9, 8}, s.read(nil))
}

func TestSnapshotBuffer_ReusesDst(t *testing.T) {
	s := newSnapshotBuffer(8)
	copy(s.writeBuf(), []float32{1, 2, 3})
	s.publish(3)

	dst := make([]float32, 0, 8)
	got := s.read(dst)
	require.Len(t, got, 3)
	assert.Same(t, &dst[:1][0], &got[0], "should reuse caller storage")
}

// TestSnapshotBuffer_NoTearing publishes windows filled with one value and
// checks every read window is uniform. Run with -race.
func TestSnapshotBuffer_NoTearing(t *testing.T) {
	const window = 256
	s := newSnapshotBuffer(window)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Go(func() {
		for v := float32(1); ; v++ {
			select {
			case <-stop:
				return
			default:
			}
			w := s.writeBuf()
			for i := range w {
				w[i] = v
			}
			s.publish(window)
		}
	})

	var torn int
	wg.Go(func() {
		var dst []float32
		for {
			select {
			case <-stop:
				return
			default:
			}
			dst = s.read(dst)
			for _, v := range dst {
				if v != dst[0] {
					torn++
					break
				}
			}
		}
	})

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()
	assert.Zero(t, torn)
}
