// editor_buffer.go - single-line expression editor with history

package main

import "github.com/intuitionamiga/bitbeat/bytebeat"

// EditorBuffer is the line editing state shared by the GUI editor and the
// terminal console. Expressions are ASCII, so the line is kept as bytes.
type EditorBuffer struct {
	line       []byte
	cursorPos  int
	maxLen     int
	history    []string
	historyIdx int
}

func NewEditorBuffer(text string) *EditorBuffer {
	b := &EditorBuffer{maxLen: bytebeat.MAX_SOURCE_LEN}
	b.Set(text)
	return b
}

func (b *EditorBuffer) String() string { return string(b.line) }

func (b *EditorBuffer) Len() int { return len(b.line) }

func (b *EditorBuffer) Cursor() int { return b.cursorPos }

// Set replaces the line and moves the cursor to its end.
func (b *EditorBuffer) Set(text string) {
	b.line = b.line[:0]
	for i := 0; i < len(text) && len(b.line) < b.maxLen; i++ {
		if c := text[i]; c >= 0x20 && c < 0x7F {
			b.line = append(b.line, c)
		}
	}
	b.cursorPos = len(b.line)
}

// Insert adds printable ASCII at the cursor and reports whether the line changed.
func (b *EditorBuffer) Insert(s string) bool {
	changed := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 0x20 || ch >= 0x7F || len(b.line) >= b.maxLen {
			continue
		}
		b.line = append(b.line, 0)
		copy(b.line[b.cursorPos+1:], b.line[b.cursorPos:])
		b.line[b.cursorPos] = ch
		b.cursorPos++
		changed = true
	}
	return changed
}

func (b *EditorBuffer) InsertRune(r rune) bool {
	if r < 0x20 || r >= 0x7F {
		return false
	}
	return b.Insert(string(r))
}

func (b *EditorBuffer) Backspace() bool {
	if b.cursorPos == 0 {
		return false
	}
	b.line = append(b.line[:b.cursorPos-1], b.line[b.cursorPos:]...)
	b.cursorPos--
	return true
}

// Delete removes the character under the cursor.
func (b *EditorBuffer) Delete() bool {
	if b.cursorPos >= len(b.line) {
		return false
	}
	b.line = append(b.line[:b.cursorPos], b.line[b.cursorPos+1:]...)
	return true
}

// KillToEnd drops everything from the cursor on.
func (b *EditorBuffer) KillToEnd() bool {
	if b.cursorPos >= len(b.line) {
		return false
	}
	b.line = b.line[:b.cursorPos]
	return true
}

func (b *EditorBuffer) Clear() bool {
	if len(b.line) == 0 {
		return false
	}
	b.line = b.line[:0]
	b.cursorPos = 0
	return true
}

func (b *EditorBuffer) Left() {
	if b.cursorPos > 0 {
		b.cursorPos--
	}
}

func (b *EditorBuffer) Right() {
	if b.cursorPos < len(b.line) {
		b.cursorPos++
	}
}

func (b *EditorBuffer) Home() { b.cursorPos = 0 }

func (b *EditorBuffer) End() { b.cursorPos = len(b.line) }

// Commit records the current line in the history, skipping blanks and
// immediate repeats, and resets history navigation.
func (b *EditorBuffer) Commit() string {
	s := string(b.line)
	if s != "" && (len(b.history) == 0 || b.history[len(b.history)-1] != s) {
		b.history = append(b.history, s)
	}
	b.historyIdx = len(b.history)
	return s
}

// HistoryPrev and HistoryNext walk the committed lines. Walking past the
// newest entry yields an empty line.
func (b *EditorBuffer) HistoryPrev() bool {
	if b.historyIdx == 0 {
		return false
	}
	b.historyIdx--
	b.Set(b.history[b.historyIdx])
	return true
}

func (b *EditorBuffer) HistoryNext() bool {
	if b.historyIdx >= len(b.history) {
		return false
	}
	if b.historyIdx < len(b.history)-1 {
		b.historyIdx++
		b.Set(b.history[b.historyIdx])
		return true
	}
	b.historyIdx = len(b.history)
	b.Clear()
	return true
}

type keyResult int

const (
	keyNone      keyResult = iota
	keyMoved               // cursor moved, text unchanged
	keyChanged             // text changed
	keySubmit              // Enter
	keyInterrupt           // Ctrl+C
	keyEOF                 // Ctrl+D on an empty line
)

const (
	escNone = iota
	escStart
	escCSI
	escSS3
)

// keyDecoder turns the byte stream of a raw-mode terminal into editing
// operations. The GUI feeds it the same sequences via translateSpecialKey.
type keyDecoder struct {
	state  int
	params []byte
}

func (d *keyDecoder) Feed(buf *EditorBuffer, b byte) keyResult {
	switch d.state {
	case escStart:
		switch b {
		case '[':
			d.state = escCSI
			d.params = d.params[:0]
		case 'O':
			d.state = escSS3
		default:
			d.state = escNone
		}
		return keyNone
	case escCSI:
		if b >= '0' && b <= '9' || b == ';' {
			if len(d.params) < 8 {
				d.params = append(d.params, b)
			}
			return keyNone
		}
		d.state = escNone
		return d.csi(buf, b)
	case escSS3:
		d.state = escNone
		return d.csi(buf, b)
	}

	switch b {
	case 0x1B:
		d.state = escStart
		return keyNone
	case '\r', '\n':
		return keySubmit
	case 0x03:
		return keyInterrupt
	case 0x04:
		if buf.Len() == 0 {
			return keyEOF
		}
		return changed(buf.Delete())
	case 0x01:
		buf.Home()
		return keyMoved
	case 0x05:
		buf.End()
		return keyMoved
	case 0x02:
		buf.Left()
		return keyMoved
	case 0x06:
		buf.Right()
		return keyMoved
	case 0x0B:
		return changed(buf.KillToEnd())
	case 0x15:
		return changed(buf.Clear())
	case 0x08, 0x7F:
		return changed(buf.Backspace())
	case '\t':
		return changed(buf.Insert(" "))
	}
	if b >= 0x20 && b < 0x7F {
		return changed(buf.Insert(string(rune(b))))
	}
	return keyNone
}

func (d *keyDecoder) csi(buf *EditorBuffer, final byte) keyResult {
	switch final {
	case 'A':
		return changed(buf.HistoryPrev())
	case 'B':
		return changed(buf.HistoryNext())
	case 'C':
		buf.Right()
		return keyMoved
	case 'D':
		buf.Left()
		return keyMoved
	case 'H':
		buf.Home()
		return keyMoved
	case 'F':
		buf.End()
		return keyMoved
	case '~':
		switch string(d.params) {
		case "1", "7":
			buf.Home()
			return keyMoved
		case "4", "8":
			buf.End()
			return keyMoved
		case "3":
			return changed(buf.Delete())
		}
	}
	return keyNone
}

func changed(ok bool) keyResult {
	if ok {
		return keyChanged
	}
	return keyNone
}
