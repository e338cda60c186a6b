//go:build midi

// midi_input.go - MIDI controller input via rtmidi

package main

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func init() {
	compiledFeatures = append(compiledFeatures, "midi:rtmidi")
}

// MIDIInput listens on one input port and turns control changes into
// parameter events. The listener runs on the driver's goroutine, so send
// must be safe to call from there.
type MIDIInput struct {
	drv  *rtmididrv.Driver
	in   drivers.In
	stop func()
}

// OpenMIDIInput opens the first input whose name contains port, or the first
// input at all when port is empty. Mapped control changes go to send.
func OpenMIDIInput(send func(GUIEvent) error, port string, ccMap [4]uint8) (*MIDIInput, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi: driver: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi: failed to list inputs: %w", err)
	}

	var found drivers.In
	for _, in := range ins {
		if port == "" || strings.Contains(strings.ToLower(in.String()), strings.ToLower(port)) {
			found = in
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("midi: input %q not found", port)
	}
	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi: failed to open %q: %w", found.String(), err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		applyMIDI(send, ccMap, msg)
	}, midi.HandleError(func(listenErr error) {
		fmt.Printf("midi: listener error on %q: %v\n", found.String(), listenErr)
	}))
	if err != nil {
		found.Close()
		drv.Close()
		return nil, fmt.Errorf("midi: failed to start listener: %w", err)
	}
	return &MIDIInput{drv: drv, in: found, stop: stop}, nil
}

func (m *MIDIInput) Name() string {
	return m.in.String()
}

func (m *MIDIInput) Close() error {
	m.stop()
	err := m.in.Close()
	if derr := m.drv.Close(); err == nil {
		err = derr
	}
	return err
}
