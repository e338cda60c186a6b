package main

import (
	"testing"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func TestValidateResolutionOverride_BothSet(t *testing.T) {
	w, h, ok := validateResolutionOverride(800, 600)
	if !ok {
		t.Fatal("expected override to be accepted")
	}
	if w != 800 || h != 600 {
		t.Fatalf("expected (800,600), got (%d,%d)", w, h)
	}
}

func TestValidateResolutionOverride_NeitherSet(t *testing.T) {
	w, h, ok := validateResolutionOverride(0, 0)
	if ok {
		t.Fatal("expected override to be disabled")
	}
	if w != 0 || h != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", w, h)
	}
}

func TestValidateResolutionOverride_OnlyWidth(t *testing.T) {
	w, h, ok := validateResolutionOverride(800, 0)
	if ok {
		t.Fatal("expected partial override to be rejected")
	}
	if w != 0 || h != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", w, h)
	}
}

func TestValidateResolutionOverride_OnlyHeight(t *testing.T) {
	w, h, ok := validateResolutionOverride(0, 600)
	if ok {
		t.Fatal("expected partial override to be rejected")
	}
	if w != 0 || h != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", w, h)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.ui != GUI_FRONTEND_EBITEN || cfg.audio != AUDIO_BACKEND_OTO {
		t.Fatalf("unexpected frontends: ui=%d audio=%d", cfg.ui, cfg.audio)
	}
	if cfg.expr != defaultExpression {
		t.Fatalf("expr = %q", cfg.expr)
	}
	if cfg.params != bytebeat.DefaultParams {
		t.Fatalf("params = %+v", cfg.params)
	}
	if cfg.engine != bytebeat.DefaultConfig() {
		t.Fatalf("engine config = %+v", cfg.engine)
	}
	if cfg.debounce != bytebeat.DEBOUNCE_QUIET {
		t.Fatalf("debounce = %v", cfg.debounce)
	}
	if cfg.ccMap != DefaultCCMap {
		t.Fatalf("ccMap = %v", cfg.ccMap)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-ui", "terminal", "-audio", "null", "-rate", "11025", "-channels", "2",
		"-backend", "lua", "-mask", "semantic", "-x", "20", "-b", "-3",
		"-debounce", "50ms", "-width", "800", "-height", "600", "-play",
		"t*(t>>9)", "&", "255",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.ui != GUI_FRONTEND_TERMINAL || cfg.audio != AUDIO_BACKEND_NULL {
		t.Fatalf("unexpected frontends: ui=%d audio=%d", cfg.ui, cfg.audio)
	}
	if cfg.engine.BytebeatRate != 11025 || cfg.engine.Channels != 2 {
		t.Fatalf("engine config = %+v", cfg.engine)
	}
	if cfg.backend != bytebeat.BackendLua || cfg.mask != bytebeat.MaskSemantic {
		t.Fatalf("compiler = %v/%v", cfg.backend, cfg.mask)
	}
	if cfg.params.X != 15 || cfg.params.B != 0 {
		t.Fatalf("params not clamped: %+v", cfg.params)
	}
	if cfg.debounce != 50*time.Millisecond || !cfg.play {
		t.Fatalf("debounce=%v play=%v", cfg.debounce, cfg.play)
	}
	if cfg.width != 800 || cfg.height != 600 {
		t.Fatalf("size = %dx%d", cfg.width, cfg.height)
	}
	if cfg.expr != "t*(t>>9) & 255" {
		t.Fatalf("expr = %q", cfg.expr)
	}
}

func TestParseFlags_PartialSizeIgnored(t *testing.T) {
	cfg, err := parseFlags([]string{"-width", "800"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.width != 0 || cfg.height != 0 {
		t.Fatalf("size = %dx%d, want 0x0", cfg.width, cfg.height)
	}
}

func TestParseFlags_Rejects(t *testing.T) {
	cases := [][]string{
		{"-ui", "vr"},
		{"-audio", "jack"},
		{"-backend", "wasm"},
		{"-mask", "maybe"},
		{"-midi-cc", "1,2,3"},
		{"-rate", "0"},
		{"-channels", "0"},
		{"-bogus"},
	}
	for _, args := range cases {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%v) accepted", args)
		}
	}
}
