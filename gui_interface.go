// gui_interface.go - frontend contract and shared actions

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
	"fmt"
	"time"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

type GUIConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

type GUIEventType int

const (
	EventQuit GUIEventType = iota
	EventTogglePlay
	EventStartPlayback
	EventStopPlayback
	EventEdit
	EventSetParam
	EventResetParams
)

type GUIEvent struct {
	Type GUIEventType
	Data interface{}
}

// ParamChange is the Data of an EventSetParam.
type ParamChange struct {
	Name  bytebeat.ParamName
	Value float32
}

type EngineState struct {
	Playing    bool
	Source     string
	Diagnostic string
	Time       uint32
	Params     bytebeat.Params
}

type GUIActions struct {
	engine  *bytebeat.Engine
	session *bytebeat.Session
	audio   AudioOutput
}

type GUIFrontend interface {
	Initialize(config GUIConfig) error
	Show() error
	Close() error
	IsVisible() bool

	SendEvent(event GUIEvent) error
	UpdateState(state EngineState) error
	GetLastError() error
}

// How often the main loop pushes EngineState into the frontend.
const STATE_PUSH_INTERVAL = 100 * time.Millisecond

const (
	GUI_FRONTEND_EBITEN = iota
	GUI_FRONTEND_TERMINAL
)

func NewGUIActions(engine *bytebeat.Engine, session *bytebeat.Session, audio AudioOutput) *GUIActions {
	return &GUIActions{
		engine:  engine,
		session: session,
		audio:   audio,
	}
}

// TogglePlay starts or stops playback and returns the new state.
func (a *GUIActions) TogglePlay() (bool, error) {
	if a.engine.IsPlaying() {
		return false, a.engine.Stop()
	}
	if err := a.engine.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// Edit forwards editor text to the session, which debounces it.
func (a *GUIActions) Edit(text string) {
	a.session.Edit(text)
}

// Commit compiles text immediately.
func (a *GUIActions) Commit(text string) bytebeat.CompileResult {
	return a.session.CompileNow(text)
}

func (a *GUIActions) SetParam(name bytebeat.ParamName, v float32) {
	a.engine.SetParam(name, v)
}

// SetPad writes one pad's pair: pad 0 drives x and y, pad 1 drives a and b.
func (a *GUIActions) SetPad(pad int, h, v float32) {
	switch pad {
	case 0:
		a.engine.SetParam(bytebeat.ParamX, h)
		a.engine.SetParam(bytebeat.ParamY, v)
	case 1:
		a.engine.SetParam(bytebeat.ParamA, h)
		a.engine.SetParam(bytebeat.ParamB, v)
	}
}

func (a *GUIActions) ResetParams() {
	a.engine.SetParams(bytebeat.DefaultParams)
}

func (a *GUIActions) State() EngineState {
	diag, _ := a.session.Diagnostic()
	return EngineState{
		Playing:    a.engine.IsPlaying(),
		Source:     a.session.Source(),
		Diagnostic: diag,
		Time:       a.engine.Time(),
		Params:     a.engine.Params(),
	}
}

// Dispatch applies a frontend event. Every frontend routes SendEvent here.
func (a *GUIActions) Dispatch(event GUIEvent) error {
	switch event.Type {
	case EventTogglePlay:
		_, err := a.TogglePlay()
		return err
	case EventStartPlayback:
		return a.engine.Start()
	case EventStopPlayback:
		return a.engine.Stop()
	case EventEdit:
		text, ok := event.Data.(string)
		if !ok {
			return fmt.Errorf("edit event needs string data, got %T", event.Data)
		}
		a.Edit(text)
	case EventSetParam:
		pc, ok := event.Data.(ParamChange)
		if !ok {
			return fmt.Errorf("param event needs ParamChange data, got %T", event.Data)
		}
		a.SetParam(pc.Name, pc.Value)
	case EventResetParams:
		a.ResetParams()
	case EventQuit:
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", event.Type)
	}
	return nil
}

// pushState feeds the frontend a fresh EngineState every interval until ctx
// is done. The first push happens at once.
func pushState(ctx context.Context, frontend GUIFrontend, actions *GUIActions, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if err := frontend.UpdateState(actions.State()); err != nil {
			fmt.Printf("gui: state update failed: %v\n", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *GUIActions) About() string {
	return `BitBeat ` + Version + `
(c) 2024 - 2026 Zayn Otley

https://github.com/IntuitionAmiga/BitBeat

A live bytebeat synthesizer: type an expression in t, hear it as you type.`
}

func (a *GUIActions) Help() string {
	return helpText
}

func NewGUIFrontend(backend int, actions *GUIActions) (GUIFrontend, error) {
	switch backend {
	case GUI_FRONTEND_EBITEN:
		return NewEbitenFrontend(actions)
	case GUI_FRONTEND_TERMINAL:
		return NewTerminalFrontend(actions)
	}
	return nil, fmt.Errorf("unknown backend: %d", backend)
}
