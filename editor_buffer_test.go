package main

import (
	"strings"
	"testing"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func feedString(d *keyDecoder, buf *EditorBuffer, s string) keyResult {
	var r keyResult
	for i := 0; i < len(s); i++ {
		r = d.Feed(buf, s[i])
	}
	return r
}

func TestEditorBuffer_InsertAndMove(t *testing.T) {
	b := NewEditorBuffer("")
	if !b.Insert("t*2") {
		t.Fatal("expected insert to change the line")
	}
	b.Left()
	b.Left()
	b.Insert("(")
	if got := b.String(); got != "t(*2" {
		t.Fatalf("got %q", got)
	}
	if b.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", b.Cursor())
	}

	b.Home()
	b.Left()
	if b.Cursor() != 0 {
		t.Fatalf("cursor moved before start: %d", b.Cursor())
	}
	b.End()
	b.Right()
	if b.Cursor() != b.Len() {
		t.Fatalf("cursor moved past end: %d", b.Cursor())
	}
}

func TestEditorBuffer_DropsNonPrintable(t *testing.T) {
	b := NewEditorBuffer("t\x00\t>>1\n")
	if got := b.String(); got != "t>>1" {
		t.Fatalf("got %q", got)
	}
	if b.InsertRune('é') {
		t.Fatal("non-ASCII rune accepted")
	}
}

func TestEditorBuffer_MaxLen(t *testing.T) {
	b := NewEditorBuffer(strings.Repeat("1", bytebeat.MAX_SOURCE_LEN+5))
	if b.Len() != bytebeat.MAX_SOURCE_LEN {
		t.Fatalf("len = %d", b.Len())
	}
	if b.Insert("2") {
		t.Fatal("insert past max length changed the line")
	}
}

func TestEditorBuffer_DeleteAndKill(t *testing.T) {
	b := NewEditorBuffer("t>>4&255")
	b.Home()
	b.Delete()
	if got := b.String(); got != ">>4&255" {
		t.Fatalf("after delete: %q", got)
	}
	b.Right()
	b.Right()
	b.Right()
	b.KillToEnd()
	if got := b.String(); got != ">>4" {
		t.Fatalf("after kill: %q", got)
	}
	if b.Delete() {
		t.Fatal("delete at end changed the line")
	}
	b.Clear()
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Fatal("clear left text behind")
	}
	if b.Backspace() {
		t.Fatal("backspace on empty line changed it")
	}
}

func TestEditorBuffer_History(t *testing.T) {
	b := NewEditorBuffer("")
	for _, s := range []string{"t", "t*2", "t*2", "", "t>>3"} {
		b.Set(s)
		b.Commit()
	}
	b.Clear()

	want := []string{"t>>3", "t*2", "t"}
	for _, w := range want {
		if !b.HistoryPrev() {
			t.Fatalf("history ended before %q", w)
		}
		if b.String() != w {
			t.Fatalf("got %q, want %q", b.String(), w)
		}
	}
	if b.HistoryPrev() {
		t.Fatal("walked past the oldest entry")
	}

	b.HistoryNext()
	b.HistoryNext()
	if b.String() != "t>>3" {
		t.Fatalf("got %q", b.String())
	}
	if !b.HistoryNext() || b.String() != "" {
		t.Fatalf("walking past newest should clear, got %q", b.String())
	}
	if b.HistoryNext() {
		t.Fatal("history next beyond the end")
	}
}

func TestKeyDecoder_Editing(t *testing.T) {
	var d keyDecoder
	b := NewEditorBuffer("")

	if r := feedString(&d, b, "t*3"); r != keyChanged {
		t.Fatalf("typing: %v", r)
	}
	if r := feedString(&d, b, "\x1b[D"); r != keyMoved {
		t.Fatalf("left: %v", r)
	}
	feedString(&d, b, "\x1b[D\x1b[3~")
	if got := b.String(); got != "t3" {
		t.Fatalf("after delete: %q", got)
	}
	feedString(&d, b, "\x01>>")
	if got := b.String(); got != ">>t3" {
		t.Fatalf("after ctrl+a insert: %q", got)
	}
	feedString(&d, b, "\x1bOF\x7f")
	if got := b.String(); got != ">>t" {
		t.Fatalf("after SS3 end + backspace: %q", got)
	}
	feedString(&d, b, "\x1b[1~\x0b")
	if b.Len() != 0 {
		t.Fatalf("kill from home left %q", b.String())
	}
}

func TestKeyDecoder_ControlKeys(t *testing.T) {
	var d keyDecoder
	b := NewEditorBuffer("")

	if r := d.Feed(b, 0x04); r != keyEOF {
		t.Fatalf("ctrl+d on empty line: %v", r)
	}
	feedString(&d, b, "ab\x01")
	if r := d.Feed(b, 0x04); r != keyChanged || b.String() != "b" {
		t.Fatalf("ctrl+d with text: %v %q", r, b.String())
	}
	if r := d.Feed(b, 0x03); r != keyInterrupt {
		t.Fatalf("ctrl+c: %v", r)
	}
	if r := d.Feed(b, '\r'); r != keySubmit {
		t.Fatalf("enter: %v", r)
	}
	if r := d.Feed(b, 0x15); r != keyChanged || b.Len() != 0 {
		t.Fatalf("ctrl+u: %v %q", r, b.String())
	}
	if r := feedString(&d, b, "\x1b[Z"); r != keyNone {
		t.Fatalf("unknown CSI: %v", r)
	}
	if r := d.Feed(b, 'x'); r != keyChanged || b.String() != "x" {
		t.Fatalf("decoder did not recover after unknown CSI: %q", b.String())
	}
}

func TestKeyDecoder_HistoryArrows(t *testing.T) {
	var d keyDecoder
	b := NewEditorBuffer("")
	feedString(&d, b, "t*5")
	b.Commit()
	b.Clear()

	if r := feedString(&d, b, "\x1b[A"); r != keyChanged || b.String() != "t*5" {
		t.Fatalf("up: %v %q", r, b.String())
	}
	if r := feedString(&d, b, "\x1b[B"); r != keyChanged || b.String() != "" {
		t.Fatalf("down: %v %q", r, b.String())
	}
}
