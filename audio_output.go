// audio_output.go - audio host selection

package main

import (
	"fmt"
	"strings"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_PORTAUDIO
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_NULL
)

// Frames rendered per callback by the push-model hosts (null, ALSA).
const PUSH_PERIOD_FRAMES = 512

// AudioOutput is a bytebeat.Host bound to one engine. Every backend calls
// Engine.Render from exactly one goroutine.
type AudioOutput interface {
	bytebeat.Host
	Name() string
	IsStarted() bool
}

var audioBackendNames = map[string]int{
	"oto":       AUDIO_BACKEND_OTO,
	"portaudio": AUDIO_BACKEND_PORTAUDIO,
	"alsa":      AUDIO_BACKEND_ALSA,
	"null":      AUDIO_BACKEND_NULL,
	"none":      AUDIO_BACKEND_NULL,
}

func parseAudioBackend(s string) (int, error) {
	if b, ok := audioBackendNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return b, nil
	}
	return 0, fmt.Errorf("unknown audio backend %q (want oto, portaudio, alsa or null)", s)
}

func NewAudioOutput(backend int, e *bytebeat.Engine) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		op, err := NewOtoPlayer(e)
		if err != nil {
			return nil, fmt.Errorf("oto: %w", err)
		}
		return op, nil
	case AUDIO_BACKEND_PORTAUDIO:
		return openPortAudio(e)
	case AUDIO_BACKEND_ALSA:
		return openALSA(e)
	case AUDIO_BACKEND_NULL:
		return NewNullPlayer(e, PUSH_PERIOD_FRAMES), nil
	}
	return nil, fmt.Errorf("unknown audio backend: %d", backend)
}
