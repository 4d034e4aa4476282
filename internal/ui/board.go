// Package ui is the fyne front end of the board.
package ui

import (
	"sync"

	"RoomBoard/internal/board"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
	"RoomBoard/internal/tool"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// GridStep is the world spacing of the background grid.
const GridStep = 50.0

// BoardWidget paints session frames and feeds pointer input back to the
// session. It implements board.View.
type BoardWidget struct {
	widget.BaseWidget

	session    *board.Session
	wheelScale float64

	mu       sync.Mutex
	frame    render.Frame
	cursor   tool.Cursor
	showGrid bool

	// touched only on the fyne goroutine
	pressed bool
	last    fyne.Position

	overlay *fyne.Container
	status  *widget.Label
}

var (
	_ fyne.Widget        = (*BoardWidget)(nil)
	_ fyne.Draggable     = (*BoardWidget)(nil)
	_ fyne.Scrollable    = (*BoardWidget)(nil)
	_ desktop.Mouseable  = (*BoardWidget)(nil)
	_ desktop.Hoverable  = (*BoardWidget)(nil)
	_ desktop.Cursorable = (*BoardWidget)(nil)
	_ board.View         = (*BoardWidget)(nil)
)

func NewBoardWidget(wheelScale float64) *BoardWidget {
	if wheelScale <= 0 {
		wheelScale = 1
	}
	b := &BoardWidget{
		wheelScale: wheelScale,
		cursor:     tool.CursorDefault,
		showGrid:   true,
		overlay:    container.NewWithoutLayout(),
		status:     widget.NewLabel("Connecting..."),
		frame:      render.Frame{Camera: state.NewCamera()},
	}
	b.ExtendBaseWidget(b)
	return b
}

// Attach binds the widget to the session it feeds.
func (b *BoardWidget) Attach(s *board.Session) { b.session = s }

// Layer stacks the widget under the layer text boxes are placed on.
func (b *BoardWidget) Layer() fyne.CanvasObject {
	return container.NewStack(b, b.overlay)
}

func (b *BoardWidget) Status() *widget.Label { return b.status }

func (b *BoardWidget) ToggleGrid() {
	b.mu.Lock()
	b.showGrid = !b.showGrid
	b.mu.Unlock()
	b.Refresh()
}

func (b *BoardWidget) post(fn func(s *board.Session)) {
	s := b.session
	if s == nil {
		return
	}
	s.Post(func() { fn(s) })
}

func pointer(pos fyne.Position) tool.Pointer {
	return tool.At(float64(pos.X), float64(pos.Y))
}

func (b *BoardWidget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pressed = true
	b.last = ev.Position
	p := pointer(ev.Position)
	b.post(func(s *board.Session) { s.MouseDown(p) })
}

func (b *BoardWidget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.release(ev.Position)
}

func (b *BoardWidget) release(pos fyne.Position) {
	b.pressed = false
	p := pointer(pos)
	b.post(func(s *board.Session) { s.MouseUp(p) })
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                   {}

func (b *BoardWidget) MouseMoved(ev *desktop.MouseEvent) {
	b.move(ev.Position)
}

func (b *BoardWidget) Dragged(ev *fyne.DragEvent) {
	b.move(ev.Position)
}

func (b *BoardWidget) DragEnd() {
	if b.pressed {
		b.release(b.last)
	}
}

func (b *BoardWidget) move(pos fyne.Position) {
	b.last = pos
	p := pointer(pos)
	b.post(func(s *board.Session) { s.MouseMove(p) })
}

// Scrolled zooms around the pointer; scrolling up zooms in.
func (b *BoardWidget) Scrolled(ev *fyne.ScrollEvent) {
	w := tool.Wheel{Screen: pointer(ev.Position).Screen, Delta: float64(ev.Scrolled.DY) * b.wheelScale}
	b.post(func(s *board.Session) { s.Wheel(w) })
}

func (b *BoardWidget) Cursor() desktop.Cursor {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.cursor {
	case tool.CursorCrosshair:
		return desktop.CrosshairCursor
	case tool.CursorText:
		return desktop.TextCursor
	case tool.CursorGrab, tool.CursorGrabbing:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

// View

// Present is called from the session goroutine.
func (b *BoardWidget) Present(f render.Frame) {
	b.mu.Lock()
	b.frame = f
	b.mu.Unlock()
	fyne.Do(b.Refresh)
}

func (b *BoardWidget) SetCursor(c tool.Cursor) {
	b.mu.Lock()
	b.cursor = c
	b.mu.Unlock()
}

func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.status.SetText(text) })
}

func (b *BoardWidget) OpenTextInput(at state.Point, done func(text string, commit bool)) tool.TextInput {
	in := &textInput{board: b}
	fyne.Do(func() { in.open(at, done) })
	return in
}

func (b *BoardWidget) snapshot() (render.Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame, b.showGrid
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}
