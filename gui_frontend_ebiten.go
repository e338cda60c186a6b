//go:build !headless

// gui_frontend_ebiten.go - Ebiten editor, scope and XY pads

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
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/intuitionamiga/bitbeat/bytebeat"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "gui:ebiten")
}

var (
	colorBackground = color.RGBA{14, 14, 22, 255}
	colorPanel      = color.RGBA{28, 28, 42, 255}
	colorGrid       = color.RGBA{48, 48, 70, 255}
	colorText       = color.RGBA{220, 220, 220, 255}
	colorDim        = color.RGBA{120, 120, 120, 255}
	colorWave       = color.RGBA{0, 220, 90, 255}
	colorError      = color.RGBA{255, 80, 80, 255}
	colorCursor     = color.RGBA{0, 85, 170, 255}
	colorPuck       = color.RGBA{255, 20, 147, 255}
)

type EbitenFrontend struct {
	actions *GUIActions
	config  GUIConfig
	layout  guiLayout

	fullscreen bool
	windowedW  int
	windowedH  int

	mu            sync.Mutex // editor state; SendEvent may come from other goroutines
	editor        *EditorBuffer
	keys          keyDecoder
	showHelp      bool
	showStatusBar bool

	pads     *padRouter
	touchIDs []ebiten.TouchID
	pointers []padPointer
	scope    []float32

	clipboardOnce sync.Once
	clipboardOK   bool

	state      atomic.Pointer[EngineState] // last pushed by UpdateState
	visible    atomic.Bool
	closing    atomic.Bool
	frameCount uint64
	lastError  error // guarded by mu
}

func NewEbitenFrontend(actions *GUIActions) (GUIFrontend, error) {
	return &EbitenFrontend{
		actions:       actions,
		editor:        NewEditorBuffer(actions.session.Text()),
		windowedW:     defaultGUIW,
		windowedH:     defaultGUIH,
		showStatusBar: true,
		pads:          newPadRouter(),
	}, nil
}

func (f *EbitenFrontend) Initialize(config GUIConfig) error {
	f.config = config
	if config.Width > 0 {
		f.windowedW = config.Width
	}
	if config.Height > 0 {
		f.windowedH = config.Height
	}
	f.mu.Lock()
	f.editor.Commit()
	f.mu.Unlock()
	return nil
}

// Show runs the Ebiten game loop on the calling goroutine until the window
// closes or Close is called.
func (f *EbitenFrontend) Show() error {
	ebiten.SetWindowSize(f.windowedW, f.windowedH)
	title := f.config.Title
	if title == "" {
		title = "BitBeat (c) 2024 - 2026 Zayn Otley"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if !f.config.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)
	}
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	f.visible.Store(true)
	defer f.visible.Store(false)
	if err := ebiten.RunGame(f); err != nil {
		f.setError(err)
		return fmt.Errorf("ebiten: %w", err)
	}
	return nil
}

func (f *EbitenFrontend) Close() error {
	f.closing.Store(true)
	return nil
}

func (f *EbitenFrontend) IsVisible() bool {
	return f.visible.Load()
}

func (f *EbitenFrontend) SendEvent(event GUIEvent) error {
	if event.Type == EventEdit {
		if s, ok := event.Data.(string); ok {
			f.mu.Lock()
			f.editor.Set(s)
			f.mu.Unlock()
		}
	}
	if event.Type == EventQuit {
		return f.Close()
	}
	if err := f.actions.Dispatch(event); err != nil {
		f.setError(err)
		return err
	}
	if event.Type != EventEdit {
		f.UpdateState(f.actions.State())
	}
	return nil
}

// UpdateState replaces the state the next frame draws.
func (f *EbitenFrontend) UpdateState(state EngineState) error {
	f.state.Store(&state)
	return nil
}

// currentState is the last pushed state, or a fresh one before the first push.
func (f *EbitenFrontend) currentState() EngineState {
	if p := f.state.Load(); p != nil {
		return *p
	}
	return f.actions.State()
}

func (f *EbitenFrontend) setError(err error) {
	f.mu.Lock()
	f.lastError = err
	f.mu.Unlock()
}

func (f *EbitenFrontend) GetLastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

func (f *EbitenFrontend) Update() error {
	// Check if the window was closed using Ebiten's built-in detection
	if ebiten.IsWindowBeingClosed() || f.closing.Load() {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		f.fullscreen = !f.fullscreen
		ebiten.SetFullscreen(f.fullscreen)
		if !f.fullscreen {
			ebiten.SetWindowSize(f.windowedW, f.windowedH)
		}
	}
	f.mu.Lock()
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		f.showStatusBar = !f.showStatusBar
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		f.showHelp = !f.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		f.showHelp = false
	}
	f.mu.Unlock()
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		f.togglePlay()
	}

	f.handleKeyboardInput()
	f.handlePointers()
	f.scope = f.actions.engine.SnapshotInto(f.scope)
	return nil
}

func (f *EbitenFrontend) togglePlay() {
	if _, err := f.actions.TogglePlay(); err != nil {
		f.setError(err)
		fmt.Printf("gui: %v\n", err)
	}
	f.UpdateState(f.actions.State())
}

func (f *EbitenFrontend) handleKeyboardInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) ||
		ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight)

	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			f.handleClipboardPaste()
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			f.handleClipboardCopy()
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			f.actions.ResetParams()
		case inpututil.IsKeyJustPressed(ebiten.KeyA):
			f.feedKey(0x01)
		case inpututil.IsKeyJustPressed(ebiten.KeyE):
			f.feedKey(0x05)
		case inpututil.IsKeyJustPressed(ebiten.KeyK):
			f.feedKey(0x0B)
		case inpututil.IsKeyJustPressed(ebiten.KeyU):
			f.feedKey(0x15)
		}
		return
	}

	// Printable input path.
	for _, r := range ebiten.AppendInputChars(nil) {
		if b, ok := runeToInputByte(r); ok {
			f.feedKey(b)
		}
	}

	specialKeys := []ebiten.Key{
		ebiten.KeyEnter,
		ebiten.KeyNumpadEnter,
		ebiten.KeyBackspace,
		ebiten.KeyArrowUp,
		ebiten.KeyArrowDown,
		ebiten.KeyArrowRight,
		ebiten.KeyArrowLeft,
		ebiten.KeyHome,
		ebiten.KeyEnd,
		ebiten.KeyDelete,
	}
	for _, key := range specialKeys {
		if inpututil.IsKeyJustPressed(key) || repeating(key) {
			if seq, ok := translateSpecialKey(key); ok {
				for _, b := range seq {
					f.feedKey(b)
				}
			}
		}
	}
}

// repeating reports auto-repeat for held editing keys.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return key != ebiten.KeyEnter && key != ebiten.KeyNumpadEnter && d > 30 && d%3 == 0
}

func (f *EbitenFrontend) feedKey(b byte) {
	f.mu.Lock()
	res := f.keys.Feed(f.editor, b)
	line := f.editor.String()
	if res == keySubmit {
		f.editor.Commit()
	}
	f.mu.Unlock()

	switch res {
	case keyChanged:
		f.actions.Edit(line)
	case keySubmit:
		f.actions.Commit(line)
	}
}

func runeToInputByte(r rune) (byte, bool) {
	if r < 0x20 || r >= 0x7F {
		return 0, false
	}
	return byte(r), true
}

func translateSpecialKey(key ebiten.Key) ([]byte, bool) {
	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return []byte{'\n'}, true
	case ebiten.KeyBackspace:
		return []byte{'\b'}, true
	case ebiten.KeyArrowUp:
		return []byte{0x1B, '[', 'A'}, true
	case ebiten.KeyArrowDown:
		return []byte{0x1B, '[', 'B'}, true
	case ebiten.KeyArrowRight:
		return []byte{0x1B, '[', 'C'}, true
	case ebiten.KeyArrowLeft:
		return []byte{0x1B, '[', 'D'}, true
	case ebiten.KeyHome:
		return []byte{0x1B, '[', 'H'}, true
	case ebiten.KeyEnd:
		return []byte{0x1B, '[', 'F'}, true
	case ebiten.KeyDelete:
		return []byte{0x1B, '[', '3', '~'}, true
	default:
		return nil, false
	}
}

func (f *EbitenFrontend) initClipboard() bool {
	f.clipboardOnce.Do(func() {
		f.clipboardOK = clipboard.Init() == nil
	})
	return f.clipboardOK
}

func (f *EbitenFrontend) handleClipboardPaste() {
	if !f.initClipboard() {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	data = pasteExpression(data)

	f.mu.Lock()
	changed := f.editor.Insert(string(data))
	line := f.editor.String()
	f.mu.Unlock()
	if changed {
		f.actions.Edit(line)
	}
}

func (f *EbitenFrontend) handleClipboardCopy() {
	if !f.initClipboard() {
		return
	}
	f.mu.Lock()
	line := f.editor.String()
	f.mu.Unlock()
	clipboard.Write(clipboard.FmtText, []byte(line))
}

func (f *EbitenFrontend) handlePointers() {
	f.pointers = f.pointers[:0]
	f.touchIDs = ebiten.AppendTouchIDs(f.touchIDs[:0])
	for _, id := range f.touchIDs {
		x, y := ebiten.TouchPosition(id)
		f.pointers = append(f.pointers, padPointer{ID: int(id), X: float64(x), Y: float64(y)})
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		f.pointers = append(f.pointers, padPointer{ID: mousePointerID, X: float64(x), Y: float64(y)})
	}

	for i, hit := range f.pads.route(f.pointers) {
		if hit.Active {
			f.actions.SetPad(i, hit.H, hit.V)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if f.layout.PlayButton.contains(float64(x), float64(y)) {
			f.togglePlay()
		}
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		if f.layout.PlayButton.contains(float64(x), float64(y)) {
			f.togglePlay()
		}
	}
}

func (f *EbitenFrontend) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	state := f.currentState()

	f.drawTitle(screen, state)
	f.drawEditor(screen, state)
	f.drawScope(screen)
	// Pucks follow the pointer, not the pushed state.
	f.drawPads(screen, f.actions.engine.Params())

	f.mu.Lock()
	showStatusBar, showHelp := f.showStatusBar, f.showHelp
	f.mu.Unlock()
	if showStatusBar {
		f.drawRuntimeStatusBar(screen)
	}
	if showHelp {
		f.drawHelp(screen)
	}
	f.frameCount++
}

func (f *EbitenFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != f.layout.Width || outsideHeight != f.layout.Height {
		f.layout = computeLayout(outsideWidth, outsideHeight)
		f.pads.setPads(f.layout.Pads)
	}
	return outsideWidth, outsideHeight
}

func (f *EbitenFrontend) drawTitle(screen *ebiten.Image, state EngineState) {
	face := basicfont.Face7x13
	text.Draw(screen, "BitBeat", face, guiMargin, 17, colorPuck)
	text.Draw(screen, "t = "+fmt.Sprint(state.Time), face, guiMargin+70, 17, colorDim)

	b := f.layout.PlayButton
	label, c := "PLAY", colorPanel
	if state.Playing {
		label, c = "STOP", color.RGBA{0, 110, 50, 255}
	}
	ebitenutil.DrawRect(screen, b.X, b.Y, b.W, b.H, c)
	lw := text.BoundString(face, label).Dx()
	text.Draw(screen, label, face, int(b.X+(b.W-float64(lw))/2), int(b.Y)+13, colorText)
}

func (f *EbitenFrontend) drawEditor(screen *ebiten.Image, state EngineState) {
	face := basicfont.Face7x13
	e := f.layout.Editor
	ebitenutil.DrawRect(screen, e.X, e.Y, e.W, e.H, colorPanel)

	f.mu.Lock()
	line, cursor := f.editor.String(), f.editor.Cursor()
	f.mu.Unlock()

	cols := f.layout.editorColumns()
	rows, curRow, curCol := wrapEditor(line, cursor, cols, editorLines)
	x0, y0 := int(e.X)+6, int(e.Y)+4
	cx := float64(x0 + curCol*glyphW)
	cy := float64(y0 + curRow*lineH)
	ebitenutil.DrawRect(screen, cx, cy+1, glyphW, glyphH+1, colorCursor)
	for i, row := range rows {
		text.Draw(screen, row, face, x0, y0+i*lineH+glyphH-2, colorText)
	}

	switch {
	case state.Diagnostic != "":
		text.Draw(screen, state.Diagnostic, face, guiMargin, f.layout.DiagY, colorError)
	case f.actions.session.Dirty():
		text.Draw(screen, "...", face, guiMargin, f.layout.DiagY, colorDim)
	case line != state.Source:
		text.Draw(screen, "playing: "+state.Source, face, guiMargin, f.layout.DiagY, colorDim)
	}
}

func (f *EbitenFrontend) drawScope(screen *ebiten.Image) {
	s := f.layout.Scope
	if s.H <= 0 {
		return
	}
	ebitenutil.DrawRect(screen, s.X, s.Y, s.W, s.H, colorPanel)
	mid := s.Y + s.H/2
	ebitenutil.DrawLine(screen, s.X, mid, s.X+s.W, mid, colorGrid)

	n := len(f.scope)
	if n < 2 {
		return
	}
	sampleY := func(v float32) float64 {
		return mid - float64(v)*(s.H/2-2)
	}
	step := s.W / float64(n-1)
	px, py := s.X, sampleY(f.scope[0])
	for i := 1; i < n; i++ {
		x, y := s.X+float64(i)*step, sampleY(f.scope[i])
		ebitenutil.DrawLine(screen, px, py, x, y, colorWave)
		px, py = x, y
	}
}

var padLabels = [PAD_COUNT][2]bytebeat.ParamName{
	{bytebeat.ParamX, bytebeat.ParamY},
	{bytebeat.ParamA, bytebeat.ParamB},
}

func (f *EbitenFrontend) drawPads(screen *ebiten.Image, p bytebeat.Params) {
	face := basicfont.Face7x13
	for i, r := range f.layout.Pads {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		ebitenutil.DrawRect(screen, r.X, r.Y, r.W, r.H, colorPanel)
		for g := 1; g < 4; g++ {
			gx := r.X + r.W*float64(g)/4
			gy := r.Y + r.H*float64(g)/4
			ebitenutil.DrawLine(screen, gx, r.Y, gx, r.Y+r.H, colorGrid)
			ebitenutil.DrawLine(screen, r.X, gy, r.X+r.W, gy, colorGrid)
		}

		hn, vn := padLabels[i][0], padLabels[i][1]
		h, v := p.Get(hn), p.Get(vn)
		px, py := padPosition(r, h, v)
		ebitenutil.DrawRect(screen, px-6, py-6, 12, 12, colorPuck)

		label := fmt.Sprintf("%s=%.1f  %s=%.1f", hn, h, vn, v)
		text.Draw(screen, label, face, int(r.X)+6, int(r.Y)+glyphH+4, colorText)
	}
}

func (f *EbitenFrontend) drawHelp(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, 0, 0, float64(f.layout.Width), float64(f.layout.Height), color.RGBA{0, 0, 0, 220})
	text.Draw(screen, helpText, basicfont.Face7x13, 24, 32, colorText)
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (f *EbitenFrontend) drawRuntimeStatusBar(screen *ebiten.Image) {
	s := runtimeStatus.snapshot()
	w, h := f.layout.Width, f.layout.Height

	barHeight := statusBarH
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	playing := s.engine != nil && s.engine.IsPlaying()
	dirty := s.session != nil && s.session.Dirty()
	lua := s.engine != nil && s.engine.Active().Backend() == bytebeat.BackendLua
	faults := s.engine != nil && s.engine.FaultCount() > 0
	audioName := "NONE"
	if s.audio != nil {
		audioName = strings.ToUpper(s.audio.Name())
	}

	drawStatusLine(screen, 6, y+13, "ENGINE", []statusToken{
		{name: "PLAY", enabled: playing},
		{name: "|", enabled: false},
		{name: "EDIT", enabled: dirty},
		{name: "|", enabled: false},
		{name: "LUA", enabled: lua},
		{name: "|", enabled: false},
		{name: "FAULT", enabled: faults},
		{name: "|", enabled: false},
		{name: "MIDI", enabled: s.midiPort != ""},
		{name: "|", enabled: false},
		{name: audioName, enabled: s.audio != nil && s.audio.IsStarted()},
	})
	drawStatusLine(screen, 6, y+26, s.statusLine(), nil)

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F1 Help  F5 Play/Stop  F11 Fullscreen  F12 Status Bar"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(w-legendW-6, 6)
	legendOpts := &ebiten.DrawImageOptions{}
	legendOpts.GeoM.Translate(float64(legendX), float64(y+39))
	legendOpts.ColorScale.ScaleWithColor(legendColor)
	text.DrawWithOptions(screen, legend, basicfont.Face7x13, legendOpts)
}
