//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

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

package main

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"
	"github.com/intuitionamiga/bitbeat/bytebeat"
)

const OTO_BUFFER = 20 * time.Millisecond

// otoStream is the part of *oto.Player the host drives.
type otoStream interface {
	Play()
	Pause()
	Close() error
}

type OtoPlayer struct {
	ctx       *oto.Context
	player    otoStream
	newPlayer func() otoStream
	engine    atomic.Pointer[bytebeat.Engine] // Atomic for lock-free Read()
	sampleBuf []float32                       // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(e *bytebeat.Engine) (*OtoPlayer, error) {
	cfg := e.Config()
	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   OTO_BUFFER,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &OtoPlayer{
		ctx: ctx,
		// 4096 bytes = 1024 float32 samples, the usual oto request size
		sampleBuf: make([]float32, 1024),
	}
	p.engine.Store(e)
	p.newPlayer = func() otoStream { return ctx.NewPlayer(p) }
	p.player = p.newPlayer()
	return p, nil
}

func (op *OtoPlayer) Name() string { return "oto" }

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load engine pointer atomically - no lock needed for the hot path
	e := op.engine.Load()
	numSamples := len(p) / 4
	if e == nil || numSamples == 0 {
		clear(p)
		return len(p), nil
	}

	// Grows at most a few times, on the first large requests
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]
	e.Render(samples)

	n = numSamples * 4
	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:n])
	return n, nil
}

func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
	return nil
}

func (op *OtoPlayer) Stop() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		// Closing drops what oto has buffered; the next Start is heard from
		// the reset counter on a fresh player.
		op.player.Close()
		op.player = op.newPlayer()
		op.started = false
	}
	return nil
}

func (op *OtoPlayer) Close() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
		op.engine.Store(nil)
	}
	op.started = false
	return nil
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
