// engine.go - real-time render engine

/*
██████╗ ██╗████████╗██████╗ ███████╗ █████╗ ████████╗
██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗╚══██╔══╝
██████╔╝██║   ██║   ██████╔╝█████╗  ███████║   ██║
██╔══██╗██║   ██║   ██╔══██╗██╔══╝  ██╔══██║   ██║
██████╔╝██║   ██║   ██████╔╝███████╗██║  ██║   ██║
╚═════╝ ╚═╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/BitBeat
License: GPLv3 or later
*/

package bytebeat

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Host drives Engine.Render from an audio device or a timer. Start and Stop
// are only called from the control goroutine.
type Host interface {
	Start() error
	Stop() error
	Close() error
}

// Fault describes a panic absorbed inside Render.
type Fault struct {
	Generation uint64 // generation of the faulting generator
	Time       uint32 // counter value of the frame that faulted
	Source     string
	Value      any
}

func (f Fault) Error() string {
	return fmt.Sprintf("generator %d (%q) faulted at t=%d: %v", f.Generation, f.Source, f.Time, f.Value)
}

type activeFunc struct {
	gen        *Generator
	generation uint64
}

type retiredFunc struct {
	gen   *Generator
	after uint64 // safe once a callback that loaded this generation completed
}

// Engine owns the time counter, the active generator and the live params.
//
// Render runs on the real-time goroutine and never blocks: it loads the
// active generator once per callback, reads params per frame and publishes
// the waveform window without locks. Everything else is the control side
// and is serialized by mu.
type Engine struct {
	cfg   Config
	stepQ uint32 // whole counter steps per frame
	stepR uint32 // remainder, in 1/SampleRate units

	// Render goroutine only.
	counter uint32
	acc     uint32

	resetPending atomic.Bool
	running      atomic.Bool
	hostErr      atomic.Pointer[error]
	busy         atomic.Bool   // inside Render
	observed     atomic.Uint64 // generation of the last completed callback
	now          atomic.Uint32 // counter after the last callback

	active     atomic.Pointer[activeFunc]
	params     paramStore
	snap       *snapshotBuffer
	faults     chan Fault
	faultCount atomic.Uint64

	mu      sync.Mutex
	host    Host
	nextGen uint64
	retired []retiredFunc
}

// NewEngine creates a stopped engine with DefaultGenerator active and
// DefaultParams loaded. Attach a host before calling Start.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		stepQ:  uint32(cfg.BytebeatRate / cfg.SampleRate),
		stepR:  uint32(cfg.BytebeatRate % cfg.SampleRate),
		snap:   newSnapshotBuffer(cfg.Window),
		faults: make(chan Fault, FAULT_QUEUE_SIZE),
	}
	e.active.Store(&activeFunc{gen: DefaultGenerator})
	e.params.storeAll(DefaultParams)
	return e, nil
}

func (e *Engine) Config() Config { return e.cfg }

// AttachHost sets the host used by Start and Stop.
func (e *Engine) AttachHost(h Host) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running.Load() {
		return fmt.Errorf("engine: cannot replace host while playing")
	}
	e.host = h
	return nil
}

// Start resets the counter to 0 and starts the host. It is a no-op while
// already playing. If the host fails the engine stays stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running.Load() {
		return nil
	}
	if e.host == nil {
		return fmt.Errorf("%w: no host attached", ErrHostStart)
	}
	e.resetPending.Store(true)
	e.now.Store(0)
	e.hostErr.Store(nil)
	e.running.Store(true)
	if err := e.host.Start(); err != nil {
		e.running.Store(false)
		return fmt.Errorf("%w: %w", ErrHostStart, err)
	}
	return nil
}

// Stop halts the host. The counter and active generator are kept.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running.Load() {
		return nil
	}
	e.running.Store(false)
	err := e.host.Stop()
	e.reclaimLocked()
	if err != nil {
		return fmt.Errorf("engine: stop host: %w", err)
	}
	return nil
}

// Close stops and closes the host and releases every generator.
func (e *Engine) Close() error {
	stopErr := e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	var closeErr error
	if e.host != nil {
		closeErr = e.host.Close()
		e.host = nil
	}
	e.installLocked(DefaultGenerator)
	e.reclaimLocked()
	if stopErr != nil {
		return stopErr
	}
	return closeErr
}

func (e *Engine) IsPlaying() bool { return e.running.Load() }

// HostFailed is called by a host whose stream died on its own goroutine. It
// marks the engine stopped without calling back into the host and never
// blocks, so it is safe while Stop is waiting for that goroutine. A later
// Start restarts the host.
func (e *Engine) HostFailed(err error) {
	e.hostErr.Store(&err)
	e.running.Store(false)
}

// HostError returns the error from the last HostFailed since the last Start.
func (e *Engine) HostError() error {
	if p := e.hostErr.Load(); p != nil {
		return *p
	}
	return nil
}

// SetActiveFunction publishes g for the next callback and returns its
// generation. A nil g installs DefaultGenerator. The superseded generator is
// released once no callback can still be evaluating it, so a generator must
// not be installed again after it has been superseded and reclaimed.
func (e *Engine) SetActiveFunction(g *Generator) uint64 {
	if g == nil {
		g = DefaultGenerator
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	gen := e.installLocked(g)
	e.reclaimLocked()
	return gen
}

func (e *Engine) installLocked(g *Generator) uint64 {
	e.nextGen++
	gen := e.nextGen
	prev := e.active.Swap(&activeFunc{gen: g, generation: gen})
	if prev != nil && prev.gen != g && prev.gen != DefaultGenerator {
		e.retired = append(e.retired, retiredFunc{gen: prev.gen, after: gen})
	}
	return gen
}

// Reclaim releases retired generators that no callback can still reach and
// returns how many were released. The Session calls it periodically.
func (e *Engine) Reclaim() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reclaimLocked()
}

func (e *Engine) reclaimLocked() int {
	if len(e.retired) == 0 {
		return 0
	}
	cur := e.active.Load().gen
	// Render sets busy before loading the active pointer, so when busy reads
	// false here any later callback sees the current generator.
	idle := !e.busy.Load()
	seen := e.observed.Load()

	released := 0
	kept := e.retired[:0]
	for _, r := range e.retired {
		switch {
		case r.gen == cur:
			// reinstalled; a later swap retires it again
		case idle || seen >= r.after:
			r.gen.Release()
			released++
		default:
			kept = append(kept, r)
		}
	}
	clear(e.retired[len(kept):])
	e.retired = kept
	return released
}

// Pending reports how many retired generators await release.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.retired)
}

// Generation of the active generator.
func (e *Engine) Generation() uint64 { return e.active.Load().generation }

func (e *Engine) Active() *Generator { return e.active.Load().gen }

// SetParam stores one scalar, clamped to [ParamMin, ParamMax].
func (e *Engine) SetParam(name ParamName, v float32) {
	e.params.store(name, ClampParam(v))
}

func (e *Engine) SetParams(p Params) {
	e.params.storeAll(p.Clamped())
}

func (e *Engine) Params() Params { return e.params.load() }

// Time returns the counter value at the end of the last callback.
func (e *Engine) Time() uint32 { return e.now.Load() }

// Faults delivers panics absorbed by Render. Faults are dropped when the
// channel is full; FaultCount still counts them.
func (e *Engine) Faults() <-chan Fault { return e.faults }

func (e *Engine) FaultCount() uint64 { return e.faultCount.Load() }

// Snapshot returns a copy of the latest waveform window.
func (e *Engine) Snapshot() []float32 { return e.snap.read(nil) }

// SnapshotInto copies the latest window into dst, reusing its storage.
func (e *Engine) SnapshotInto(dst []float32) []float32 { return e.snap.read(dst) }

// Render fills out with interleaved frames. It is the host callback and must
// only be called from one goroutine at a time.
func (e *Engine) Render(out []float32) {
	e.busy.Store(true)

	if e.resetPending.Swap(false) {
		e.counter, e.acc = 0, 0
	}
	af := e.active.Load()

	ch := e.cfg.Channels
	frames := len(out) / ch
	clear(out[frames*ch:])
	if frames == 0 {
		e.observed.Store(af.generation)
		e.busy.Store(false)
		return
	}

	win := e.snap.writeBuf()
	g := af.gen
	from := 0
	for {
		i, fault := e.renderFrames(g, out, from, frames, win)
		if fault == nil {
			break
		}
		e.reportFault(Fault{Generation: af.generation, Time: e.counter, Source: g.Source(), Value: fault})
		if g == DefaultGenerator {
			clear(out[i*ch:])
			break
		}
		g, from = DefaultGenerator, i
	}

	e.snap.publish(min(frames, len(win)))
	e.now.Store(e.counter)
	e.observed.Store(af.generation)
	e.busy.Store(false)
}

// renderFrames renders frames [from, frames). On a panic it returns the index
// of the frame that faulted; that frame was not written and the counter was
// not advanced for it.
func (e *Engine) renderFrames(g *Generator, out []float32, from, frames int, win []float32) (i int, fault any) {
	defer func() {
		if r := recover(); r != nil {
			fault = r
		}
	}()

	ch := e.cfg.Channels
	sr := uint32(e.cfg.SampleRate)
	for i = from; i < frames; i++ {
		b := g.Sample(e.counter, e.params.load())
		v := (float32(b) - 128) / 128

		frame := out[i*ch : i*ch+ch]
		for c := range frame {
			frame[c] = v
		}
		if i < len(win) {
			win[i] = v
		}

		e.counter += e.stepQ
		e.acc += e.stepR
		if e.acc >= sr {
			e.acc -= sr
			e.counter++
		}
	}
	return i, nil
}

func (e *Engine) reportFault(f Fault) {
	e.faultCount.Add(1)
	select {
	case e.faults <- f:
	default:
	}
}
