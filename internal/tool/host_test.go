package tool

import (
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

type fakeInput struct{ closed bool }

func (f *fakeInput) Close() { f.closed = true }

type openedInput struct {
	at    state.Point
	done  func(string, bool)
	input *fakeInput
}

// fakeHost applies emitted ops to its own shape list the way a session does.
type fakeHost struct {
	shapes   []state.Shape
	camera   state.Camera
	ops      []state.Op
	overlays [][]render.Overlay
	cursor   Cursor
	inputs   []*openedInput
}

func newHost(shapes ...state.Shape) *fakeHost {
	return &fakeHost{shapes: shapes, camera: state.NewCamera()}
}

func (h *fakeHost) Shapes() []state.Shape        { return h.shapes }
func (h *fakeHost) SetShapes(s []state.Shape)    { h.shapes = s }
func (h *fakeHost) Camera() state.Camera         { return h.camera }
func (h *fakeHost) SetCamera(c state.Camera)     { h.camera = c }
func (h *fakeHost) Measurer() state.TextMeasurer { return state.EstimateMeasurer{} }
func (h *fakeHost) Redraw(o ...render.Overlay)   { h.overlays = append(h.overlays, o) }
func (h *fakeHost) SetCursor(c Cursor)           { h.cursor = c }

func (h *fakeHost) Emit(op state.Op) {
	h.ops = append(h.ops, op)
	switch op.Type {
	case state.OpCreate:
		h.shapes = append(h.shapes, op.Shape)
	default:
		h.shapes = op.Shapes
	}
}

func (h *fakeHost) OpenTextInput(at state.Point, done func(string, bool)) TextInput {
	in := &openedInput{at: at, done: done, input: &fakeInput{}}
	h.inputs = append(h.inputs, in)
	return in.input
}

func (h *fakeHost) lastOverlay() []render.Overlay {
	if len(h.overlays) == 0 {
		return nil
	}
	return h.overlays[len(h.overlays)-1]
}
