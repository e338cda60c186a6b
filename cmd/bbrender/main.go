// bbrender renders a bytebeat expression to a WAV file without an audio device.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/intuitionamiga/bitbeat/bytebeat"
	"github.com/mitchellh/go-homedir"
)

// Frames handed to Engine.Render per call, roughly one device period.
const renderChunk = 4096

type renderOptions struct {
	out     string
	seconds float64
	bits    int
	cfg     bytebeat.Config
	params  bytebeat.Params
	backend bytebeat.Backend
	mask    bytebeat.MaskPolicy
	expr    string
}

func parseArgs(args []string, stderr io.Writer) (renderOptions, error) {
	var (
		opts                  renderOptions
		backendName, maskName string
		x, y, a, b            float64
	)
	opts.cfg = bytebeat.DefaultConfig()

	fs := flag.NewFlagSet("bbrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.out, "o", "bytebeat.wav", "Output WAV file (~ is expanded)")
	fs.Float64Var(&opts.seconds, "seconds", 10, "Length in seconds")
	fs.IntVar(&opts.bits, "bits", 16, "Bit depth: 8, 16 or 24")
	fs.IntVar(&opts.cfg.BytebeatRate, "rate", bytebeat.BYTEBEAT_RATE, "Bytebeat clock (t increments per second)")
	fs.IntVar(&opts.cfg.SampleRate, "sample-rate", bytebeat.SAMPLE_RATE, "WAV sample rate")
	fs.StringVar(&backendName, "backend", "native", "Expression backend: native or lua")
	fs.StringVar(&maskName, "mask", "textual", "Explicit-mask detection: textual or semantic")
	fs.Float64Var(&x, "x", float64(bytebeat.DefaultParams.X), "x (0..15)")
	fs.Float64Var(&y, "y", float64(bytebeat.DefaultParams.Y), "y (0..15)")
	fs.Float64Var(&a, "a", float64(bytebeat.DefaultParams.A), "a (0..15)")
	fs.Float64Var(&b, "b", float64(bytebeat.DefaultParams.B), "b (0..15)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bbrender [options] expression\n\nRenders a bytebeat expression to a mono WAV file.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  bbrender 't*(t>>5|t>>8)'\n")
		fmt.Fprintf(stderr, "  bbrender -o ~/beat.wav -seconds 30 -x 9 't*(t>>x|t>>y)'\n")
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return opts, errors.New("missing expression")
	}
	opts.expr = strings.Join(fs.Args(), " ")

	switch opts.bits {
	case 8, 16, 24:
	default:
		return opts, fmt.Errorf("-bits must be 8, 16 or 24, got %d", opts.bits)
	}
	if opts.seconds <= 0 {
		return opts, fmt.Errorf("-seconds must be positive")
	}
	var err error
	if opts.backend, err = bytebeat.ParseBackend(backendName); err != nil {
		return opts, err
	}
	if opts.mask, err = bytebeat.ParseMaskPolicy(maskName); err != nil {
		return opts, err
	}
	if err := opts.cfg.Validate(); err != nil {
		return opts, err
	}
	if opts.out, err = homedir.Expand(opts.out); err != nil {
		return opts, err
	}
	opts.params = bytebeat.Params{X: float32(x), Y: float32(y), A: float32(a), B: float32(b)}
	return opts, nil
}

// render compiles the expression and pulls samples through an engine the way
// an audio host would.
func render(opts renderOptions) ([]float32, error) {
	e, err := bytebeat.NewEngine(opts.cfg)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	e.SetParams(opts.params)

	res := bytebeat.NewCompiler(opts.backend, opts.mask).Compile(opts.expr, e.Params())
	if !res.Accepted() {
		return nil, fmt.Errorf("compile %q: %s", opts.expr, res.Diagnostic)
	}
	e.SetActiveFunction(res.Generator)

	frames := int(math.Round(opts.seconds * float64(opts.cfg.SampleRate)))
	out := make([]float32, frames*opts.cfg.Channels)
	for off := 0; off < len(out); off += renderChunk {
		e.Render(out[off:min(off+renderChunk, len(out))])
	}
	warnFaults(os.Stderr, e.FaultCount())
	return out, nil
}

// warnFaults reports generator panics. Render finishes each faulting chunk
// with the default generator, so the file has sawtooth where they hit.
func warnFaults(w io.Writer, n uint64) {
	if n > 0 {
		fmt.Fprintf(w, "warning: %d render faults, the default generator (t & 255) was used for the rest of each affected chunk\n", n)
	}
}

// pcmValue turns a rendered sample back into its byte and widens it to the
// target depth. 8-bit WAV is unsigned, wider depths are signed.
func pcmValue(v float32, bits int) int {
	b := int(math.Round(float64(v)*128)) + 128
	b = max(0, min(b, 255))
	if bits == 8 {
		return b
	}
	return (b - 128) << (bits - 8)
}

func writeWAV(path string, samples []float32, sampleRate, channels, bits int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bits, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bits,
	}
	for i, v := range samples {
		buf.Data[i] = pcmValue(v, bits)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", path, err)
	}
	return nil
}

func run(args []string) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}
	samples, err := render(opts)
	if err != nil {
		return err
	}
	if err := writeWAV(opts.out, samples, opts.cfg.SampleRate, opts.cfg.Channels, opts.bits); err != nil {
		return err
	}
	fmt.Printf("bbrender: wrote %s (%d frames, %gs at %d Hz, %d-bit)\n",
		opts.out, len(samples)/opts.cfg.Channels, opts.seconds, opts.cfg.SampleRate, opts.bits)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
