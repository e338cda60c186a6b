// terminal_console.go - raw-mode terminal UI state machine

package main

import (
	"fmt"
	"strings"
	"sync"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
	ansiBold  = "\x1b[1m"
)

const consolePrompt = "> "

// TerminalConsole is a pure state machine for the terminal UI. It owns the
// editor line and an output buffer. The host adapter (TerminalHost) feeds
// stdin bytes through RouteHostKey and prints DrainOutput; tests inject
// bytes the same way.
//
// Lines starting with ':' are commands. Any other line is the expression:
// every keystroke is handed to the session, which debounces it, and Enter
// compiles at once.
type TerminalConsole struct {
	mu      sync.Mutex
	actions *GUIActions
	editor  *EditorBuffer
	keys    keyDecoder
	width   int

	// announced is the last installed expression reported above the prompt.
	announced string

	// outMu is always taken after mu, never before it, so Printf may be
	// called from anywhere, including session callbacks running under mu.
	outMu      sync.Mutex
	outputBuf  []byte
	promptLine string

	quit     chan struct{}
	quitOnce sync.Once
}

func NewTerminalConsole(actions *GUIActions, text string) *TerminalConsole {
	tc := &TerminalConsole{
		actions:   actions,
		editor:    NewEditorBuffer(text),
		width:     80,
		outputBuf: make([]byte, 0, 256),
		quit:      make(chan struct{}),
	}
	tc.editor.Commit()
	return tc
}

// SetWidth sets the number of terminal columns available to the prompt.
func (tc *TerminalConsole) SetWidth(cols int) {
	if cols < 20 {
		cols = 20
	}
	tc.mu.Lock()
	tc.width = cols
	tc.redrawLocked()
	tc.mu.Unlock()
}

// Done is closed once the user asks to quit.
func (tc *TerminalConsole) Done() <-chan struct{} {
	return tc.quit
}

func (tc *TerminalConsole) Line() string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.editor.String()
}

// RouteHostKey applies one input byte.
func (tc *TerminalConsole) RouteHostKey(b byte) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	switch tc.keys.Feed(tc.editor, b) {
	case keyChanged:
		if line := tc.editor.String(); !isCommandLine(line) {
			tc.actions.Edit(line)
		}
		tc.redrawLocked()
	case keyMoved:
		tc.redrawLocked()
	case keySubmit:
		tc.submitLocked()
	case keyInterrupt, keyEOF:
		tc.quitLocked()
	}
}

func isCommandLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ":")
}

func (tc *TerminalConsole) submitLocked() {
	line := tc.editor.Commit()
	tc.appendOutput(consolePrompt+line, ansiDim)

	if isCommandLine(line) {
		input := strings.TrimPrefix(strings.TrimSpace(line), ":")
		exit := tc.ExecuteCommand(input)
		// Back to the expression being played
		tc.editor.Set(tc.actions.session.Text())
		if exit {
			tc.quitLocked()
			return
		}
		tc.redrawLocked()
		return
	}

	res := tc.actions.Commit(line)
	switch {
	case res.Accepted():
		tc.announced = res.Generator.Source()
		tc.appendOutput("ok: "+tc.announced, ansiGreen)
	case res.Failed():
		// already logged by the session
	default:
		tc.appendOutput(res.Diagnostic, ansiRed)
	}
	tc.redrawLocked()
}

func (tc *TerminalConsole) quitLocked() {
	tc.quitOnce.Do(func() {
		tc.appendOutput("bye", ansiDim)
		tc.outMu.Lock()
		tc.promptLine = ""
		tc.outMu.Unlock()
		close(tc.quit)
	})
}

// redrawLocked rebuilds the prompt line, scrolling horizontally so the
// cursor stays visible.
func (tc *TerminalConsole) redrawLocked() {
	line := tc.editor.String()
	cur := tc.editor.Cursor()
	avail := tc.width - len(consolePrompt) - 1

	start := 0
	if len(line) > avail && cur >= avail {
		start = cur - avail + 1
	}
	end := min(start+avail, len(line))
	visible := line[start:end]

	var sb strings.Builder
	sb.WriteString("\r\x1b[K")
	sb.WriteString(ansiBold + consolePrompt + ansiReset)
	sb.WriteString(visible)
	sb.WriteString("\r")
	if col := len(consolePrompt) + cur - start; col > 0 {
		fmt.Fprintf(&sb, "\x1b[%dC", col)
	}
	prompt := sb.String()

	tc.outMu.Lock()
	tc.promptLine = prompt
	tc.outputBuf = append(tc.outputBuf, prompt...)
	tc.outMu.Unlock()
}

// appendOutput prints one line above the prompt.
func (tc *TerminalConsole) appendOutput(text, color string) {
	tc.outMu.Lock()
	defer tc.outMu.Unlock()

	text = strings.TrimRight(text, "\n")
	for _, l := range strings.Split(text, "\n") {
		tc.outputBuf = append(tc.outputBuf, "\r\x1b[K"...)
		if color != "" {
			tc.outputBuf = append(tc.outputBuf, color...)
			tc.outputBuf = append(tc.outputBuf, l...)
			tc.outputBuf = append(tc.outputBuf, ansiReset...)
		} else {
			tc.outputBuf = append(tc.outputBuf, l...)
		}
		tc.outputBuf = append(tc.outputBuf, "\r\n"...)
	}
	tc.outputBuf = append(tc.outputBuf, tc.promptLine...)
}

// NoteState reports an expression that went live without Enter, i.e. one
// the session installed after its quiet period.
func (tc *TerminalConsole) NoteState(state EngineState) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if state.Source == "" || state.Source == tc.announced {
		return
	}
	tc.announced = state.Source
	tc.appendOutput("live: "+state.Source, ansiGreen)
}

// Printf is the session's Logf while the terminal is in raw mode.
func (tc *TerminalConsole) Printf(format string, args ...any) {
	tc.appendOutput(fmt.Sprintf(format, args...), "")
}

// DrainOutput returns and clears the accumulated output buffer.
func (tc *TerminalConsole) DrainOutput() string {
	tc.outMu.Lock()
	defer tc.outMu.Unlock()
	s := string(tc.outputBuf)
	tc.outputBuf = tc.outputBuf[:0]
	return s
}

// Redraw queues the prompt line, e.g. once the host has started.
func (tc *TerminalConsole) Redraw() {
	tc.mu.Lock()
	tc.redrawLocked()
	tc.mu.Unlock()
}
