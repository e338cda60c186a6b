//go:build !headless

package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/intuitionamiga/bitbeat/bytebeat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOtoStream struct {
	playing bool
	closed  bool
}

func (s *fakeOtoStream) Play()  { s.playing = true }
func (s *fakeOtoStream) Pause() { s.playing = false }
func (s *fakeOtoStream) Close() error {
	s.playing = false
	s.closed = true
	return nil
}

func newFakeOtoPlayer(e *bytebeat.Engine) (*OtoPlayer, *[]*fakeOtoStream) {
	var streams []*fakeOtoStream
	op := &OtoPlayer{sampleBuf: make([]float32, 16)}
	op.engine.Store(e)
	op.newPlayer = func() otoStream {
		s := &fakeOtoStream{}
		streams = append(streams, s)
		return s
	}
	op.player = op.newPlayer()
	return op, &streams
}

func TestOtoPlayer_StopDropsBufferedAudio(t *testing.T) {
	op, streams := newFakeOtoPlayer(nil)

	require.NoError(t, op.Start())
	assert.True(t, (*streams)[0].playing)
	assert.True(t, op.IsStarted())

	require.NoError(t, op.Stop())
	assert.True(t, (*streams)[0].closed, "the player holding old audio is closed")
	require.Len(t, *streams, 2)
	assert.False(t, (*streams)[1].playing)
	assert.False(t, op.IsStarted())

	require.NoError(t, op.Stop())
	assert.Len(t, *streams, 2, "stop while stopped keeps the player")

	require.NoError(t, op.Start())
	assert.True(t, (*streams)[1].playing)

	require.NoError(t, op.Close())
	assert.True(t, (*streams)[1].closed)
	assert.Len(t, *streams, 2, "close does not open another player")
	assert.False(t, op.IsStarted())
	assert.NoError(t, op.Start(), "start after close is a no-op")
	assert.False(t, op.IsStarted())
}

func TestOtoPlayer_ReadRendersEngine(t *testing.T) {
	e, err := bytebeat.NewEngine(bytebeat.Config{SampleRate: 8000, BytebeatRate: 8000, Channels: 1, Window: 8})
	require.NoError(t, err)
	op, _ := newFakeOtoPlayer(e)

	p := make([]byte, 4*32)
	n, err := op.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	for i := 0; i < 32; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
		assert.Equal(t, (float32(i)-128)/128, v, "frame %d", i)
	}

	require.NoError(t, op.Close())
	p[0] = 0xAA
	n, err = op.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)
	assert.Zero(t, p[0], "a closed player reads silence")
}
