//go:build !headless

package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyTranslation_Enter(t *testing.T) {
	seq, ok := translateSpecialKey(ebiten.KeyEnter)
	if !ok {
		t.Fatal("expected enter translation")
	}
	if string(seq) != "\n" {
		t.Fatalf("expected newline for enter, got %v", seq)
	}
}

func TestKeyTranslation_ArrowLeft(t *testing.T) {
	seq, ok := translateSpecialKey(ebiten.KeyArrowLeft)
	if !ok {
		t.Fatal("expected arrow-left translation")
	}
	if len(seq) != 3 || seq[0] != 0x1B || seq[1] != '[' || seq[2] != 'D' {
		t.Fatalf("expected ESC[D, got %v", seq)
	}
}

func TestKeyTranslation_Printable(t *testing.T) {
	b, ok := runeToInputByte('a')
	if !ok {
		t.Fatal("expected printable translation")
	}
	if b != 0x61 {
		t.Fatalf("expected 0x61, got 0x%02X", b)
	}
	if _, ok := runeToInputByte('é'); ok {
		t.Fatal("expected non-ASCII rune to be dropped")
	}
}

// Every translated key must mean the same thing to the shared decoder.
func TestKeyTranslation_DrivesEditor(t *testing.T) {
	buf := NewEditorBuffer("t*2")
	var d keyDecoder
	feed := func(key ebiten.Key) keyResult {
		seq, ok := translateSpecialKey(key)
		if !ok {
			t.Fatalf("no translation for %v", key)
		}
		var r keyResult
		for _, b := range seq {
			r = d.Feed(buf, b)
		}
		return r
	}

	feed(ebiten.KeyHome)
	if buf.Cursor() != 0 {
		t.Fatalf("home: cursor %d", buf.Cursor())
	}
	if r := feed(ebiten.KeyDelete); r != keyChanged || buf.String() != "*2" {
		t.Fatalf("delete: %v %q", r, buf.String())
	}
	feed(ebiten.KeyEnd)
	if r := feed(ebiten.KeyBackspace); r != keyChanged || buf.String() != "*" {
		t.Fatalf("backspace: %v %q", r, buf.String())
	}
	if r := feed(ebiten.KeyEnter); r != keySubmit {
		t.Fatalf("enter: %v", r)
	}
}

func TestEbitenFrontend_DrawsPushedState(t *testing.T) {
	a := newTestActions(t)
	gf, err := NewEbitenFrontend(a)
	if err != nil {
		t.Fatal(err)
	}
	f := gf.(*EbitenFrontend)

	if got := f.currentState().Playing; got {
		t.Fatal("expected a stopped engine before any push")
	}
	if err := f.UpdateState(EngineState{Source: "t*3", Time: 42}); err != nil {
		t.Fatal(err)
	}
	if st := f.currentState(); st.Source != "t*3" || st.Time != 42 {
		t.Fatalf("expected the pushed state, got %+v", st)
	}

	if err := f.SendEvent(GUIEvent{Type: EventTogglePlay}); err != nil {
		t.Fatal(err)
	}
	if !f.currentState().Playing {
		t.Fatal("toggle event should refresh the drawn state")
	}
	if err := f.SendEvent(GUIEvent{Type: EventSetParam, Data: "bad"}); err == nil || f.GetLastError() == nil {
		t.Fatal("expected bad event data to be recorded")
	}
}
