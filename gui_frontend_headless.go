//go:build headless

// gui_frontend_headless.go - audio-only frontend for headless builds

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
	"fmt"
	"sync"
)

func init() {
	compiledFeatures = append(compiledFeatures, "gui:headless")
}

// HeadlessFrontend stands in for the Ebiten window. Show blocks until Close
// so the engine keeps playing.
type HeadlessFrontend struct {
	actions   *GUIActions
	config    GUIConfig
	visible   bool
	mu        sync.Mutex
	closed    chan struct{}
	closeOnce sync.Once
	lastError error
	last      EngineState
}

func NewEbitenFrontend(actions *GUIActions) (GUIFrontend, error) {
	return &HeadlessFrontend{
		actions: actions,
		closed:  make(chan struct{}),
	}, nil
}

func (f *HeadlessFrontend) Initialize(config GUIConfig) error {
	f.config = config
	return nil
}

func (f *HeadlessFrontend) Show() error {
	f.mu.Lock()
	f.visible = true
	f.mu.Unlock()
	fmt.Println("gui: headless build, no window; use -ui terminal for live editing")
	<-f.closed
	f.mu.Lock()
	f.visible = false
	f.mu.Unlock()
	return nil
}

func (f *HeadlessFrontend) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *HeadlessFrontend) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *HeadlessFrontend) SendEvent(event GUIEvent) error {
	if event.Type == EventQuit {
		return f.Close()
	}
	if err := f.actions.Dispatch(event); err != nil {
		f.mu.Lock()
		f.lastError = err
		f.mu.Unlock()
		return fmt.Errorf("event %d failed: %w", event.Type, err)
	}
	return nil
}

// UpdateState logs playback and expression changes, the only feedback a
// headless build has.
func (f *HeadlessFrontend) UpdateState(state EngineState) error {
	f.mu.Lock()
	prev := f.last
	f.last = state
	f.mu.Unlock()

	if state.Playing != prev.Playing {
		if state.Playing {
			fmt.Println("gui: playing")
		} else {
			fmt.Println("gui: stopped")
		}
	}
	if state.Source != prev.Source {
		fmt.Printf("gui: expression %s\n", state.Source)
	}
	return nil
}

func (f *HeadlessFrontend) GetLastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}
