//go:build portaudio && !headless

// audio_backend_portaudio.go - PortAudio callback-driven audio output

package main

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:portaudio")
}

// 0 lets PortAudio pick the callback size for the device
const PORTAUDIO_FRAMES = 0

// PortAudioPlayer hands Engine.Render straight to the stream callback.
type PortAudioPlayer struct {
	stream  *portaudio.Stream
	started bool
	mutex   sync.Mutex
}

func openPortAudio(e *bytebeat.Engine) (AudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialize: %w", err)
	}
	cfg := e.Config()
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), PORTAUDIO_FRAMES, e.Render)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: open default output: %w", err)
	}
	return &PortAudioPlayer{stream: stream}, nil
}

func (pp *PortAudioPlayer) Name() string { return "portaudio" }

func (pp *PortAudioPlayer) Start() error {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.started || pp.stream == nil {
		return nil
	}
	if err := pp.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	pp.started = true
	return nil
}

func (pp *PortAudioPlayer) Stop() error {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if !pp.started {
		return nil
	}
	pp.started = false
	if err := pp.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop: %w", err)
	}
	return nil
}

func (pp *PortAudioPlayer) Close() error {
	stopErr := pp.Stop()

	pp.mutex.Lock()
	defer pp.mutex.Unlock()
	if pp.stream == nil {
		return stopErr
	}
	err := pp.stream.Close()
	pp.stream = nil
	if termErr := portaudio.Terminate(); err == nil {
		err = termErr
	}
	if err != nil {
		return fmt.Errorf("portaudio: close: %w", err)
	}
	return stopErr
}

func (pp *PortAudioPlayer) IsStarted() bool {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()
	return pp.started
}
