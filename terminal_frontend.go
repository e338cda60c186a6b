// terminal_frontend.go - GUIFrontend over a raw-mode terminal

package main

import (
	"fmt"
	"sync"
	"time"
)

const terminalRefresh = 16 * time.Millisecond

type TerminalFrontend struct {
	actions   *GUIActions
	console   *TerminalConsole
	host      *TerminalHost
	config    GUIConfig
	mu        sync.Mutex
	visible   bool
	closed    chan struct{}
	closeOnce sync.Once
	lastError error
}

// NewTerminalFrontend routes the session's log lines through the console,
// so it must be created before the session's Run loop starts.
func NewTerminalFrontend(actions *GUIActions) (GUIFrontend, error) {
	console := NewTerminalConsole(actions, actions.session.Text())
	actions.session.Logf = console.Printf
	return &TerminalFrontend{
		actions: actions,
		console: console,
		host:    NewTerminalHost(console),
		closed:  make(chan struct{}),
	}, nil
}

func (f *TerminalFrontend) Initialize(config GUIConfig) error {
	f.config = config
	return nil
}

// Show owns the terminal until the user quits or Close is called.
func (f *TerminalFrontend) Show() error {
	if err := f.host.Start(); err != nil {
		f.mu.Lock()
		f.lastError = err
		f.mu.Unlock()
		return err
	}
	f.mu.Lock()
	f.visible = true
	f.mu.Unlock()

	title := f.config.Title
	if title == "" {
		title = "BitBeat " + Version
	}
	f.console.appendOutput(title+"  (:help for commands, Ctrl+C to quit)", ansiBold)
	f.console.Redraw()

	ticker := time.NewTicker(terminalRefresh)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			f.host.PrintOutput()
		case <-f.console.Done():
			break loop
		case <-f.closed:
			break loop
		}
	}

	f.host.PrintOutput()
	f.host.Stop()
	fmt.Print("\r\n")

	f.mu.Lock()
	f.visible = false
	f.mu.Unlock()
	return nil
}

func (f *TerminalFrontend) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *TerminalFrontend) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *TerminalFrontend) SendEvent(event GUIEvent) error {
	if event.Type == EventQuit {
		return f.Close()
	}
	if err := f.actions.Dispatch(event); err != nil {
		f.mu.Lock()
		f.lastError = err
		f.mu.Unlock()
		return err
	}
	return nil
}

func (f *TerminalFrontend) UpdateState(state EngineState) error {
	f.console.NoteState(state)
	return nil
}

func (f *TerminalFrontend) GetLastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}
