package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

const (
	runtimeUINone = iota
	runtimeUIGUI
	runtimeUITerminal
)

type runtimeStatusSnapshot struct {
	ui int

	engine  *bytebeat.Engine
	session *bytebeat.Session
	audio   AudioOutput

	midiPort  string
	startedAt time.Time
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setUI(ui int) {
	s.mu.Lock()
	s.ui = ui
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setCore(engine *bytebeat.Engine, session *bytebeat.Session, audio AudioOutput) {
	s.mu.Lock()
	s.engine = engine
	s.session = session
	s.audio = audio
	s.startedAt = time.Now()
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setMIDI(port string) {
	s.mu.Lock()
	s.midiPort = port
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

var runtimeStatus = &runtimeStatusStore{}

// statusLine renders the one-line summary shown in the GUI status bar and by
// the terminal's :status command.
func (snap runtimeStatusSnapshot) statusLine() string {
	if snap.engine == nil {
		return "not initialized"
	}
	state := "STOP"
	if snap.engine.IsPlaying() {
		state = "PLAY"
	}
	p := snap.engine.Params()
	line := fmt.Sprintf("%s  t=%d  gen=%d  x=%.1f y=%.1f a=%.1f b=%.1f",
		state, snap.engine.Time(), snap.engine.Generation(), p.X, p.Y, p.A, p.B)
	if snap.audio != nil {
		line += "  " + snap.audio.Name()
	}
	if snap.midiPort != "" {
		line += "  midi:" + snap.midiPort
	}
	if n := snap.engine.FaultCount(); n > 0 {
		line += fmt.Sprintf("  faults=%d", n)
	}
	if err := snap.engine.HostError(); err != nil {
		line += "  host error: " + err.Error()
	}
	return line
}
