//go:build !portaudio || headless

package main

import (
	"fmt"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:portaudio-unavailable")
}

func openPortAudio(*bytebeat.Engine) (AudioOutput, error) {
	return nil, fmt.Errorf("portaudio output not compiled in (build with -tags portaudio)")
}
