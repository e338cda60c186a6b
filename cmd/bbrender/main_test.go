package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/intuitionamiga/bitbeat/bytebeat"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"-seconds", "2", "-bits", "8", "-x", "3", "t*x", "&", "255"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "t*x & 255", opts.expr)
	assert.Equal(t, 2.0, opts.seconds)
	assert.Equal(t, 8, opts.bits)
	assert.Equal(t, float32(3), opts.params.X)
	assert.Equal(t, bytebeat.DefaultParams.Y, opts.params.Y)
	assert.Equal(t, "bytebeat.wav", opts.out)

	for _, bad := range [][]string{
		{},
		{"-bits", "12", "t"},
		{"-seconds", "0", "t"},
		{"-backend", "wasm", "t"},
		{"-rate", "-1", "t"},
	} {
		_, err := parseArgs(bad, io.Discard)
		assert.Error(t, err, "%v", bad)
	}
}

func TestParseArgs_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/tmp/bbhome")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	opts, err := parseArgs([]string{"-o", "~/beat.wav", "t"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/bbhome", "beat.wav"), opts.out)
}

func TestPCMValue(t *testing.T) {
	for b := 0; b < 256; b++ {
		v := (float32(b) - 128) / 128
		assert.Equal(t, b, pcmValue(v, 8))
		assert.Equal(t, (b-128)*256, pcmValue(v, 16))
		assert.Equal(t, (b-128)*65536, pcmValue(v, 24))
	}
}

func TestRenderRejectsBadExpression(t *testing.T) {
	opts := renderOptions{seconds: 1, bits: 16, cfg: bytebeat.DefaultConfig(), params: bytebeat.DefaultParams, expr: "t >>"}
	_, err := render(opts)
	assert.Error(t, err)

	opts.expr = "  "
	_, err = render(opts)
	assert.ErrorContains(t, err, "empty expression")
}

func TestRunWritesWAV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ramp.wav")
	require.NoError(t, run([]string{
		"-o", out, "-seconds", "0.5", "-rate", "8000", "-sample-rate", "8000", "t&255",
	}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	d := wav.NewDecoder(f)
	require.True(t, d.IsValidFile())
	require.NoError(t, d.FwdToPCM())
	format := d.Format()
	assert.Equal(t, 8000, format.SampleRate)
	assert.Equal(t, 1, format.NumChannels)
	assert.EqualValues(t, 16, d.SampleBitDepth())

	buf := &audio.IntBuffer{Format: format, Data: make([]int, 4000), SourceBitDepth: 16}
	n, err := d.PCMBuffer(buf)
	require.NoError(t, err)
	require.Equal(t, 4000, n)
	for i, got := range buf.Data {
		want := (i&255 - 128) * 256
		if got != want {
			t.Fatalf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestWarnFaults(t *testing.T) {
	var buf bytes.Buffer
	warnFaults(&buf, 0)
	assert.Empty(t, buf.String())

	warnFaults(&buf, 3)
	assert.Contains(t, buf.String(), "3 render faults")
	assert.Contains(t, buf.String(), "default generator (t & 255)")
	assert.NotContains(t, buf.String(), "silence")
}
