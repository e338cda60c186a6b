//go:build !linux || !alsa || headless

package main

import (
	"fmt"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func openALSA(*bytebeat.Engine) (AudioOutput, error) {
	return nil, fmt.Errorf("alsa output not compiled in (build on linux with -tags alsa)")
}
