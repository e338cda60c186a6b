// session.go - control-side edit debouncing and installation

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

package bytebeat

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const RECLAIM_INTERVAL = 100 * time.Millisecond

// Session owns the control context. Edits are coalesced and compiled once
// the text has been quiet for the debounce period; only the newest edit's
// result is ever installed into the engine.
type Session struct {
	// Logf receives control-side log lines. It defaults to fmt.Printf and may
	// be replaced before Run, e.g. by the raw-mode terminal.
	Logf func(format string, args ...any)

	// OnResult is called on the control goroutine after every compile that
	// was not superseded.
	OnResult func(text string, res CompileResult)

	engine   *Engine
	compiler *Compiler
	quiet    time.Duration

	mu      sync.Mutex
	pending string
	seq     uint64
	dirty   bool
	source  string
	diag    string
	hasDiag bool

	notify chan struct{}
}

// NewSession returns a session compiling with c into e. A quiet period of
// zero or less uses DEBOUNCE_QUIET.
func NewSession(e *Engine, c *Compiler, quiet time.Duration) *Session {
	if c == nil {
		c = &Compiler{}
	}
	if quiet <= 0 {
		quiet = DEBOUNCE_QUIET
	}
	return &Session{
		Logf:     func(format string, args ...any) { fmt.Printf(format, args...) },
		engine:   e,
		compiler: c,
		quiet:    quiet,
		source:   e.Active().Source(),
		notify:   make(chan struct{}, 1),
	}
}

func (s *Session) Engine() *Engine { return s.engine }

// Edit records the latest editor text. It never blocks.
func (s *Session) Edit(text string) {
	s.mu.Lock()
	s.pending = text
	s.seq++
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Text returns the most recent edit, installed or not.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Source returns the text of the installed generator.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Diagnostic returns the message from the most recent rejected compile. It
// is cleared by the next successful one.
func (s *Session) Diagnostic() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diag, s.hasDiag
}

// Dirty reports whether an edit is waiting for its quiet period.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Run is the control loop. It returns when ctx is done.
func (s *Session) Run(ctx context.Context) error {
	debounce := time.NewTimer(s.quiet)
	debounce.Stop()
	defer debounce.Stop()

	reclaim := time.NewTicker(RECLAIM_INTERVAL)
	defer reclaim.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.notify:
			debounce.Reset(s.quiet)
		case <-debounce.C:
			s.flush()
		case f := <-s.engine.Faults():
			s.logf("session: render fault, fell back to default: %v\n", f)
		case <-reclaim.C:
			s.engine.Reclaim()
		}
	}
}

// CompileNow compiles text immediately, superseding any pending edit.
func (s *Session) CompileNow(text string) CompileResult {
	s.mu.Lock()
	s.pending = text
	s.seq++
	s.dirty = false
	seq := s.seq
	s.mu.Unlock()

	res := s.compiler.Compile(text, s.engine.Params())
	s.apply(text, seq, res)
	return res
}

func (s *Session) flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	text, seq := s.pending, s.seq
	s.dirty = false
	s.mu.Unlock()

	res := s.compiler.Compile(text, s.engine.Params())
	s.apply(text, seq, res)
}

func (s *Session) apply(text string, seq uint64, res CompileResult) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		if res.Accepted() {
			res.Generator.Release()
		}
		return
	}
	switch {
	case res.Accepted():
		s.engine.SetActiveFunction(res.Generator)
		s.source = res.Generator.Source()
		s.diag, s.hasDiag = "", false
	default:
		s.diag, s.hasDiag = res.Diagnostic, true
	}
	s.mu.Unlock()

	if res.Failed() {
		s.logf("session: %v\n", res.Err)
	}
	if s.OnResult != nil {
		s.OnResult(text, res)
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
