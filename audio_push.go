// audio_push.go - writer goroutine shared by the push-model hosts

package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

// pushStream renders one period into buf and hands it to write, which blocks
// until the device has taken it. A write error ends the stream and is
// reported to the engine through HostFailed, so IsPlaying drops to false.
type pushStream struct {
	name   string
	engine *bytebeat.Engine
	buf    []float32
	write  func(buf []float32, stop <-chan struct{}) error
	reset  func() // after the writer has exited; may be nil

	mutex   sync.Mutex
	started bool
	failed  atomic.Bool
	stopCh  chan struct{}
	done    chan struct{}
}

func (ps *pushStream) Start() error {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if ps.started {
		if !ps.failed.Load() {
			return nil
		}
		ps.stopLocked()
	}
	ps.failed.Store(false)
	ps.stopCh = make(chan struct{})
	ps.done = make(chan struct{})
	go ps.loop(ps.stopCh, ps.done)
	ps.started = true
	return nil
}

func (ps *pushStream) loop(stopCh, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stopCh:
			return
		default:
		}
		ps.engine.Render(ps.buf)
		if err := ps.write(ps.buf, stopCh); err != nil {
			ps.failed.Store(true)
			fmt.Printf("%s: %v\n", ps.name, err)
			ps.engine.HostFailed(fmt.Errorf("%s: %w", ps.name, err))
			return
		}
	}
}

func (ps *pushStream) Stop() error {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	if ps.started {
		ps.stopLocked()
	}
	return nil
}

func (ps *pushStream) stopLocked() {
	close(ps.stopCh)
	<-ps.done
	ps.started = false
	if ps.reset != nil {
		ps.reset()
	}
}

// IsStarted is false once the writer has died, even before Stop.
func (ps *pushStream) IsStarted() bool {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	return ps.started && !ps.failed.Load()
}
