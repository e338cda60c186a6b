//go:build headless

package main

import "github.com/intuitionamiga/bitbeat/bytebeat"

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

// OtoPlayer in headless builds renders without a device.
type OtoPlayer struct {
	*NullPlayer
}

func NewOtoPlayer(e *bytebeat.Engine) (*OtoPlayer, error) {
	return &OtoPlayer{NullPlayer: NewNullPlayer(e, PUSH_PERIOD_FRAMES)}, nil
}

func (op *OtoPlayer) Name() string { return "oto (headless)" }
