//go:build !midi

package main

import "fmt"

func init() {
	compiledFeatures = append(compiledFeatures, "midi:unavailable")
}

type MIDIInput struct{}

func OpenMIDIInput(func(GUIEvent) error, string, [4]uint8) (*MIDIInput, error) {
	return nil, fmt.Errorf("midi input not compiled in (build with -tags midi)")
}

func (m *MIDIInput) Name() string { return "" }

func (m *MIDIInput) Close() error { return nil }
