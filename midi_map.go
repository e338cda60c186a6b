// midi_map.go - MIDI control-change to parameter mapping

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/intuitionamiga/bitbeat/bytebeat"
	"gitlab.com/gomidi/midi/v2"
)

// DefaultCCMap assigns CC 1..4 to x, y, a and b.
var DefaultCCMap = [4]uint8{1, 2, 3, 4}

// parseCCMap reads four comma-separated controller numbers in x,y,a,b order.
func parseCCMap(s string) ([4]uint8, error) {
	var m [4]uint8
	parts := strings.Split(s, ",")
	if len(parts) != len(m) {
		return m, fmt.Errorf("midi cc map %q: want 4 controller numbers, got %d", s, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil || v > 127 {
			return m, fmt.Errorf("midi cc map %q: bad controller %q", s, p)
		}
		m[i] = uint8(v)
	}
	return m, nil
}

// ccToParam scales a 7-bit controller value onto the parameter range.
func ccToParam(v uint8) float32 {
	return float32(min(v, 127)) * bytebeat.ParamMax / 127
}

// applyMIDI sends the parameter change mapped to a control change and
// reports whether msg was one.
func applyMIDI(send func(GUIEvent) error, ccMap [4]uint8, msg midi.Message) bool {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return false
	}
	for i, n := range ccMap {
		if n == cc {
			err := send(GUIEvent{Type: EventSetParam, Data: ParamChange{Name: bytebeat.ParamName(i), Value: ccToParam(val)}})
			if err != nil {
				fmt.Printf("midi: %v\n", err)
			}
			return true
		}
	}
	return false
}
