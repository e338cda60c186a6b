// audio_backend_null.go - device-less audio host paced by the wall clock

package main

import (
	"sync/atomic"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

// NullPlayer renders into a scratch buffer at the rate a real device would
// consume it. Headless builds and CI use it to run the full render path.
type NullPlayer struct {
	pushStream
	sampleBuf []float32
	period    time.Duration
	next      time.Time // writer goroutine only
	rendered  atomic.Uint64 // frames

	// Sink, if set, receives every rendered period before it is paced out.
	// An error from Sink ends the stream the way a device failure would.
	Sink func([]float32) error
}

func NewNullPlayer(e *bytebeat.Engine, frames int) *NullPlayer {
	cfg := e.Config()
	if frames < 1 {
		frames = PUSH_PERIOD_FRAMES
	}
	period := time.Duration(frames) * time.Second / time.Duration(cfg.SampleRate)
	if period <= 0 {
		period = time.Millisecond
	}
	np := &NullPlayer{
		sampleBuf: make([]float32, frames*cfg.Channels),
		period:    period,
	}
	np.pushStream = pushStream{
		name:   "null",
		engine: e,
		buf:    np.sampleBuf,
		write:  np.pace,
	}
	return np
}

func (np *NullPlayer) Name() string { return "null" }

func (np *NullPlayer) pace(buf []float32, stop <-chan struct{}) error {
	if np.Sink != nil {
		if err := np.Sink(buf); err != nil {
			return err
		}
	}
	np.rendered.Add(uint64(len(buf) / np.engine.Config().Channels))

	now := time.Now()
	if np.next.Before(now) {
		// First period, or the writer fell behind.
		np.next = now
	}
	np.next = np.next.Add(np.period)
	wait := time.NewTimer(time.Until(np.next))
	defer wait.Stop()
	select {
	case <-stop:
	case <-wait.C:
	}
	return nil
}

func (np *NullPlayer) Close() error {
	return np.Stop()
}

// Frames reports how many frames have been rendered since creation.
func (np *NullPlayer) Frames() uint64 {
	return np.rendered.Load()
}
