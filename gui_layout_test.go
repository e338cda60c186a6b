package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLayout_Default(t *testing.T) {
	l := computeLayout(defaultGUIW, defaultGUIH)

	assert.Greater(t, l.Scope.H, float64(minScopeH))
	assert.LessOrEqual(t, l.Editor.Y+l.Editor.H, float64(l.DiagY))
	assert.LessOrEqual(t, float64(l.DiagY), l.Scope.Y)

	for i, p := range l.Pads {
		assert.Equal(t, p.W, p.H, "pad %d is square", i)
		assert.Greater(t, p.W, 100.0)
		assert.GreaterOrEqual(t, p.Y, l.Scope.Y+l.Scope.H, "pad %d below scope", i)
		assert.LessOrEqual(t, p.X+p.W, float64(defaultGUIW))
		assert.LessOrEqual(t, p.Y+p.H, float64(defaultGUIH-statusBarH))
	}
	assert.Less(t, l.Pads[0].X+l.Pads[0].W, l.Pads[1].X, "pads do not overlap")
	assert.Less(t, l.PlayButton.X+l.PlayButton.W, float64(defaultGUIW))
}

func TestComputeLayout_TinyWindow(t *testing.T) {
	l := computeLayout(120, 80)
	assert.GreaterOrEqual(t, l.Scope.H, 0.0)
	for _, p := range l.Pads {
		assert.GreaterOrEqual(t, p.W, 0.0)
		assert.GreaterOrEqual(t, p.H, 0.0)
	}
	assert.Equal(t, 1, guiLayout{}.editorColumns())
}

func TestWrapEditor(t *testing.T) {
	lines, row, col := wrapEditor("abcdefgh", 3, 4, 4)
	assert.Equal(t, []string{"abcd", "efgh"}, lines)
	assert.Equal(t, 0, row)
	assert.Equal(t, 3, col)

	// Cursor at the end of a full row opens a new one
	lines, row, col = wrapEditor("abcdefgh", 8, 4, 4)
	assert.Equal(t, []string{"abcd", "efgh", ""}, lines)
	assert.Equal(t, 2, row)
	assert.Equal(t, 0, col)

	lines, row, col = wrapEditor("0123456789", 9, 3, 2)
	assert.Equal(t, []string{"678", "9"}, lines)
	assert.Equal(t, 1, row)
	assert.Equal(t, 0, col)

	lines, row, _ = wrapEditor("0123456789", 0, 3, 2)
	assert.Equal(t, []string{"012", "345"}, lines)
	assert.Equal(t, 0, row)

	lines, row, col = wrapEditor("", 0, 10, 4)
	assert.Equal(t, []string{""}, lines)
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)
}
