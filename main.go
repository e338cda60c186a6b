// main.go - BitBeat entry point

/*
██████╗ ██╗████████╗██████╗ ███████╗ █████╗ ████████╗
██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗╚══██╔══╝
██████╔╝██║   ██║   ██████╔╝█████╗  ███████║   ██║
██╔══██╗██║   ██║   ██╔══██╗██╔══╝  ██╔══██║   ██║
██████╔╝██║   ██║   ██████╔╝███████╗██║  ██║   ██║
╚═════╝ ╚═╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/BitBeat
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

const defaultExpression = "t*(t>>5|t>>8)&255"

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██████╗ ██╗████████╗██████╗ ███████╗ █████╗ ████████╗\033[0m\n\033[38;2;255;50;147m ██╔══██╗██║╚══██╔══╝██╔══██╗██╔════╝██╔══██╗╚══██╔══╝\033[0m\n\033[38;2;255;80;147m ██████╔╝██║   ██║   ██████╔╝█████╗  ███████║   ██║\033[0m\n\033[38;2;255;110;147m ██╔══██╗██║   ██║   ██╔══██╗██╔══╝  ██╔══██║   ██║\033[0m\n\033[38;2;255;140;147m ██████╔╝██║   ██║   ██████╔╝███████╗██║  ██║   ██║\033[0m\n\033[38;2;255;170;147m ╚═════╝ ╚═╝   ╚═╝   ╚═════╝ ╚══════╝╚═╝  ╚═╝   ╚═╝\033[0m")
	fmt.Println("\nBitBeat: a live bytebeat synthesizer.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/BitBeat")
	fmt.Println("Buy me a coffee: https://ko-fi.com/intuition/tip")
	fmt.Println("License: GPLv3 or later")
}

type appConfig struct {
	ui       int
	audio    int
	engine   bytebeat.Config
	debounce time.Duration
	backend  bytebeat.Backend
	mask     bytebeat.MaskPolicy
	expr     string
	params   bytebeat.Params
	play     bool
	midi     bool
	midiPort string
	ccMap    [4]uint8
	features bool
	width    int
	height   int
}

func parseUIMode(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gui", "ebiten", "":
		return GUI_FRONTEND_EBITEN, nil
	case "terminal", "term", "tui":
		return GUI_FRONTEND_TERMINAL, nil
	}
	return 0, fmt.Errorf("unknown ui %q (want gui or terminal)", s)
}

// validateResolutionOverride accepts a window size only when both sides are set.
func validateResolutionOverride(w, h int) (int, int, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func parseFlags(args []string) (appConfig, error) {
	var (
		cfg                   appConfig
		uiMode, audioName     string
		backendName, maskName string
		ccMap                 string
		x, y, a, b            float64
		width, height         int
	)
	cfg.engine = bytebeat.DefaultConfig()

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&uiMode, "ui", "gui", "Frontend: gui or terminal")
	flagSet.StringVar(&audioName, "audio", "oto", "Audio output: oto, portaudio, alsa or null")
	flagSet.IntVar(&cfg.engine.BytebeatRate, "rate", bytebeat.BYTEBEAT_RATE, "Bytebeat clock (t increments per second)")
	flagSet.IntVar(&cfg.engine.SampleRate, "sample-rate", bytebeat.SAMPLE_RATE, "Audio device sample rate")
	flagSet.IntVar(&cfg.engine.Channels, "channels", 1, "Output channels (the sample is copied to each)")
	flagSet.IntVar(&cfg.engine.Window, "window", bytebeat.SNAPSHOT_WINDOW, "Waveform display window in samples")
	flagSet.DurationVar(&cfg.debounce, "debounce", bytebeat.DEBOUNCE_QUIET, "Quiet period before an edit is compiled")
	flagSet.StringVar(&backendName, "backend", "native", "Expression backend: native or lua")
	flagSet.StringVar(&maskName, "mask", "textual", "Explicit-mask detection: textual or semantic")
	flagSet.StringVar(&cfg.expr, "expr", defaultExpression, "Initial expression")
	flagSet.Float64Var(&x, "x", float64(bytebeat.DefaultParams.X), "Initial x (0..15)")
	flagSet.Float64Var(&y, "y", float64(bytebeat.DefaultParams.Y), "Initial y (0..15)")
	flagSet.Float64Var(&a, "a", float64(bytebeat.DefaultParams.A), "Initial a (0..15)")
	flagSet.Float64Var(&b, "b", float64(bytebeat.DefaultParams.B), "Initial b (0..15)")
	flagSet.BoolVar(&cfg.play, "play", false, "Start playing immediately")
	flagSet.BoolVar(&cfg.midi, "midi", false, "Map MIDI control changes to x, y, a, b")
	flagSet.StringVar(&cfg.midiPort, "midi-port", "", "MIDI input name (substring match, default first port)")
	flagSet.StringVar(&ccMap, "midi-cc", "1,2,3,4", "Controller numbers for x,y,a,b")
	flagSet.IntVar(&width, "width", 0, "Window width (with -height)")
	flagSet.IntVar(&height, "height", 0, "Window height (with -width)")
	flagSet.BoolVar(&cfg.features, "features", false, "Print compiled features and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./bitbeat [-ui gui|terminal] [-audio oto|portaudio|alsa|null] [-play] [expression]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.Usage()
		}
		return cfg, err
	}

	var err error
	if cfg.ui, err = parseUIMode(uiMode); err != nil {
		return cfg, err
	}
	if cfg.audio, err = parseAudioBackend(audioName); err != nil {
		return cfg, err
	}
	if cfg.backend, err = bytebeat.ParseBackend(backendName); err != nil {
		return cfg, err
	}
	if cfg.mask, err = bytebeat.ParseMaskPolicy(maskName); err != nil {
		return cfg, err
	}
	if cfg.ccMap, err = parseCCMap(ccMap); err != nil {
		return cfg, err
	}
	if err := cfg.engine.Validate(); err != nil {
		return cfg, err
	}
	if flagSet.NArg() > 0 {
		cfg.expr = strings.Join(flagSet.Args(), " ")
	}
	cfg.params = bytebeat.Params{X: float32(x), Y: float32(y), A: float32(a), B: float32(b)}.Clamped()
	cfg.width, cfg.height, _ = validateResolutionOverride(width, height)
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.features {
		printFeatures()
		return
	}

	boilerPlate()
	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg appConfig) error {
	engine, err := bytebeat.NewEngine(cfg.engine)
	if err != nil {
		return err
	}
	engine.SetParams(cfg.params)

	audio, err := NewAudioOutput(cfg.audio, engine)
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}
	if err := engine.AttachHost(audio); err != nil {
		return err
	}
	defer engine.Close()

	session := bytebeat.NewSession(engine, bytebeat.NewCompiler(cfg.backend, cfg.mask), cfg.debounce)
	actions := NewGUIActions(engine, session, audio)

	// The terminal frontend takes over session logging, so it is created
	// before the session starts.
	frontend, err := NewGUIFrontend(cfg.ui, actions)
	if err != nil {
		return fmt.Errorf("failed to initialize GUI: %w", err)
	}
	if cfg.ui == GUI_FRONTEND_TERMINAL {
		runtimeStatus.setUI(runtimeUITerminal)
	} else {
		runtimeStatus.setUI(runtimeUIGUI)
	}
	runtimeStatus.setCore(engine, session, audio)

	if cfg.midi {
		in, err := OpenMIDIInput(frontend.SendEvent, cfg.midiPort, cfg.ccMap)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		} else {
			defer in.Close()
			runtimeStatus.setMIDI(in.Name())
		}
	}

	if res := session.CompileNow(cfg.expr); !res.Accepted() {
		fmt.Printf("Initial expression not installed: %s\n", res.Diagnostic)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		session.Run(ctx)
	}()
	go func() {
		<-ctx.Done()
		frontend.SendEvent(GUIEvent{Type: EventQuit})
	}()
	go pushState(ctx, frontend, actions, STATE_PUSH_INTERVAL)

	if cfg.play {
		if err := engine.Start(); err != nil {
			fmt.Printf("Failed to start playback: %v\n", err)
		}
	}

	config := GUIConfig{
		Width:     cfg.width,
		Height:    cfg.height,
		Title:     "BitBeat (c) 2024 - 2026 Zayn Otley",
		Resizable: true,
	}
	if err := frontend.Initialize(config); err != nil {
		return fmt.Errorf("failed to configure GUI: %w", err)
	}

	// Show the frontend and run its event loop
	err = frontend.Show()
	stop()
	<-sessionDone
	return err
}
