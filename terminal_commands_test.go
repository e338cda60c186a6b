package main

import (
	"strings"
	"testing"

	"github.com/intuitionamiga/bitbeat/bytebeat"
	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		name  string
		args  []string
	}{
		{"", "", nil},
		{"   ", "", nil},
		{"play", "play", []string{}},
		{"  X  5 ", "x", []string{"5"}},
		{"set b 12.5", "set", []string{"b", "12.5"}},
	}
	for _, tt := range tests {
		cmd := ParseCommand(tt.input)
		if cmd.Name != tt.name {
			t.Errorf("ParseCommand(%q).Name = %q, want %q", tt.input, cmd.Name, tt.name)
		}
		if len(cmd.Args) != len(tt.args) {
			t.Errorf("ParseCommand(%q).Args = %v, want %v", tt.input, cmd.Args, tt.args)
		}
	}
}

func TestCommandPlayStopToggle(t *testing.T) {
	tc := newTestConsole(t)

	assert.False(t, tc.ExecuteCommand("play"))
	assert.True(t, tc.actions.engine.IsPlaying())
	assert.Contains(t, tc.DrainOutput(), "playing")

	tc.ExecuteCommand("s")
	assert.False(t, tc.actions.engine.IsPlaying())
	assert.Contains(t, tc.DrainOutput(), "stopped")

	tc.ExecuteCommand("toggle")
	assert.True(t, tc.actions.engine.IsPlaying())
	tc.ExecuteCommand("t")
	assert.False(t, tc.actions.engine.IsPlaying())
}

func TestCommandParams(t *testing.T) {
	tc := newTestConsole(t)

	tc.ExecuteCommand("set a 2.5")
	assert.Equal(t, float32(2.5), tc.actions.engine.Params().A)
	tc.ExecuteCommand("y 40")
	assert.Equal(t, float32(bytebeat.ParamMax), tc.actions.engine.Params().Y)
	tc.DrainOutput()

	tc.ExecuteCommand("a")
	assert.Contains(t, tc.DrainOutput(), "a = 2.5")

	tc.ExecuteCommand("x seven")
	assert.Contains(t, tc.DrainOutput(), "Invalid value: seven")

	tc.ExecuteCommand("set z 1")
	assert.Contains(t, tc.DrainOutput(), ansiRed)

	tc.ExecuteCommand("reset")
	assert.Equal(t, bytebeat.DefaultParams, tc.actions.engine.Params())
	assert.Contains(t, tc.DrainOutput(), "x = 5  y = 8  a = 3  b = 11")
}

func TestCommandScope(t *testing.T) {
	tc := newTestConsole(t)

	tc.ExecuteCommand("scope")
	assert.Contains(t, tc.DrainOutput(), "no waveform yet")

	tc.actions.Commit("t*4")
	tc.actions.engine.Render(make([]float32, 64))
	tc.DrainOutput()
	tc.ExecuteCommand("scope 16")
	out := tc.DrainOutput()
	n := 0
	for _, r := range out {
		if strings.ContainsRune(string(sparkLevels), r) {
			n++
		}
	}
	assert.Equal(t, 16, n)

	tc.ExecuteCommand("scope -1")
	assert.Contains(t, tc.DrainOutput(), "Invalid width")
}

func TestCommandDiagAndSource(t *testing.T) {
	tc := newTestConsole(t)

	tc.ExecuteCommand("diag")
	assert.Contains(t, tc.DrainOutput(), "no diagnostic")

	tc.actions.Commit("t>>1")
	tc.actions.Commit("t>>")
	tc.DrainOutput()
	tc.ExecuteCommand("diag")
	assert.Contains(t, tc.DrainOutput(), "syntax error")
	tc.ExecuteCommand("src")
	assert.Contains(t, tc.DrainOutput(), "t>>1")
}

func TestCommandHelpAboutUnknown(t *testing.T) {
	tc := newTestConsole(t)

	tc.ExecuteCommand("help")
	assert.Contains(t, tc.DrainOutput(), ":scope")
	tc.ExecuteCommand("about")
	assert.Contains(t, tc.DrainOutput(), "BitBeat")
	tc.ExecuteCommand("frobnicate")
	assert.Contains(t, tc.DrainOutput(), "Unknown command: frobnicate")
	assert.True(t, tc.ExecuteCommand("exit"))
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		samples []float32
		cols    int
		want    string
	}{
		{nil, 4, ""},
		{[]float32{-1, -1, -1}, 3, "▁▁▁"},
		{[]float32{1, 1}, 2, "██"},
		{[]float32{-1, 1}, 5, "▁█"},
		{[]float32{-1, 0.99, -1, -1}, 2, "█▁"},
	}
	for _, tt := range tests {
		if got := sparkline(tt.samples, tt.cols); got != tt.want {
			t.Errorf("sparkline(%v, %d) = %q, want %q", tt.samples, tt.cols, got, tt.want)
		}
	}
}
