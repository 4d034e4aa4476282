// Package tool holds the interaction state machines of the board. Each tool
// is driven by pointer and key events and talks to the canvas only through
// the Host it was built with.
package tool

import (
	"fmt"

	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindPencil Kind = "pencil"
	KindText   Kind = "text"
	KindPan    Kind = "pan"
	KindSelect Kind = "select"
	KindErase  Kind = "erase"
)

// Kinds lists the selectable tools in toolbar order.
func Kinds() []Kind {
	return []Kind{KindSelect, KindPan, KindRect, KindCircle, KindLine, KindPencil, KindText, KindErase}
}

type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorCrosshair Cursor = "crosshair"
	CursorText      Cursor = "text"
	CursorGrab      Cursor = "grab"
	CursorGrabbing  Cursor = "grabbing"
)

// Pointer is a mouse event in screen (canvas pixel) coordinates.
type Pointer struct {
	Screen state.Point
}

func At(x, y float64) Pointer { return Pointer{Screen: state.Point{X: x, Y: y}} }

type Key string

const (
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyEnter     Key = "Return"
	KeyEscape    Key = "Escape"
)

// Wheel is a scroll event; positive Delta zooms in.
type Wheel struct {
	Screen state.Point
	Delta  float64
}

// TextInput is an open, uncommitted text box. Close removes it without
// committing.
type TextInput interface {
	Close()
}

// Host is the canvas session a tool operates on.
type Host interface {
	Shapes() []state.Shape
	// SetShapes replaces local state without recording history or sending anything.
	SetShapes(shapes []state.Shape)
	Camera() state.Camera
	SetCamera(cam state.Camera)
	Measurer() state.TextMeasurer
	// Redraw repaints committed shapes with the given overlays on top.
	Redraw(overlays ...render.Overlay)
	// Emit applies a finalized mutation locally and sends it to the room.
	Emit(op state.Op)
	SetCursor(c Cursor)
	// OpenTextInput shows a text box at a screen position. done is called at
	// most once, with commit false on cancel.
	OpenTextInput(at state.Point, done func(text string, commit bool)) TextInput
}

// Tool is one interaction state machine. Close resets transient state;
// an in-flight gesture is abandoned without emitting anything.
type Tool interface {
	MouseDown(ev Pointer)
	MouseMove(ev Pointer)
	MouseUp(ev Pointer)
	Key(k Key)
	Close()
}

// ReplaceAware is implemented by tools that hold indexes into the shape
// list. ShapesReplaced is called after a peer replaced the whole list.
type ReplaceAware interface {
	ShapesReplaced()
}

// New builds the tool of the given kind on host.
func New(kind Kind, h Host) (Tool, error) {
	switch kind {
	case KindRect:
		return NewRect(h), nil
	case KindCircle:
		return NewCircle(h), nil
	case KindLine:
		return NewLine(h), nil
	case KindPencil:
		return NewPencil(h), nil
	case KindText:
		return NewText(h), nil
	case KindPan:
		return NewPan(h), nil
	case KindSelect:
		return NewSelect(h), nil
	case KindErase:
		return NewEraser(h), nil
	}
	return nil, fmt.Errorf("unknown tool %q", kind)
}

func world(h Host, ev Pointer) state.Point {
	return h.Camera().ScreenToWorld(ev.Screen)
}
