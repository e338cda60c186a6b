// gui_layout.go - window geometry for the ebiten frontend

package main

const (
	glyphW        = 7 // basicfont.Face7x13
	glyphH        = 13
	lineH         = 16
	guiMargin     = 12
	titleH        = 24
	editorLines   = 4
	statusBarH    = 44
	playButtonW   = 72
	defaultGUIW   = 960
	defaultGUIH   = 640
	minScopeH     = 60
	scopeFraction = 0.35
)

type guiLayout struct {
	Width, Height int

	PlayButton rect
	Editor     rect
	DiagY      int // baseline of the diagnostic line
	Scope      rect
	Pads       [PAD_COUNT]rect
}

// computeLayout stacks title row, editor, diagnostic line, scope and the two
// square pads from top to bottom, leaving room for the status bar.
func computeLayout(w, h int) guiLayout {
	l := guiLayout{Width: w, Height: h}
	fw, fh := float64(w), float64(h)
	m := float64(guiMargin)

	l.PlayButton = rect{X: fw - m - playButtonW, Y: 4, W: playButtonW, H: titleH - 6}

	l.Editor = rect{X: m, Y: titleH + 4, W: fw - 2*m, H: editorLines*lineH + 8}
	l.DiagY = int(l.Editor.Y+l.Editor.H) + lineH

	top := float64(l.DiagY) + 8
	bottom := fh - statusBarH - m
	avail := max(bottom-top, 0)

	scopeH := max(avail*scopeFraction, minScopeH)
	scopeH = min(scopeH, avail)
	l.Scope = rect{X: m, Y: top, W: fw - 2*m, H: scopeH}

	padTop := top + scopeH + m
	padH := max(bottom-padTop, 0)
	side := min((fw-3*m)/2, padH)
	gap := fw - 2*side
	x0 := gap / 3
	for i := range l.Pads {
		l.Pads[i] = rect{X: x0 + float64(i)*(side+x0), Y: padTop, W: side, H: side}
	}
	return l
}

// editorColumns is how many glyphs fit on one editor row.
func (l guiLayout) editorColumns() int {
	return max(int(l.Editor.W-12)/glyphW, 1)
}

// wrapEditor splits text into rows of cols glyphs and returns the rows to
// show, keeping the cursor row visible, plus the cursor's row and column
// within them.
func wrapEditor(text string, cursor, cols, rows int) (lines []string, curRow, curCol int) {
	for i := 0; i < len(text); i += cols {
		lines = append(lines, text[i:min(i+cols, len(text))])
	}
	curRow, curCol = cursor/cols, cursor%cols
	if curRow >= len(lines) {
		lines = append(lines, "")
	}
	if first := curRow - rows + 1; first > 0 {
		lines = lines[first:]
		curRow -= first
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return lines, curRow, curCol
}
