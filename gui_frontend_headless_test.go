//go:build headless

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadlessFrontend_TracksPushedState(t *testing.T) {
	a := newTestActions(t)
	gf, err := NewEbitenFrontend(a)
	require.NoError(t, err)
	f := gf.(*HeadlessFrontend)

	require.NoError(t, f.SendEvent(GUIEvent{Type: EventStartPlayback}))
	require.NoError(t, f.UpdateState(a.State()))
	assert.True(t, f.last.Playing)

	require.NoError(t, f.SendEvent(GUIEvent{Type: EventQuit}))
	select {
	case <-f.closed:
	default:
		t.Fatal("quit event did not close the frontend")
	}
}
