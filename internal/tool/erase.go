package tool

import (
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

// Eraser marks every shape the cursor touches during a gesture and removes
// them together on mouse-up. A marked shape stays marked for the rest of the
// gesture.
type Eraser struct {
	host    Host
	erasing bool
	touched map[int]bool
}

func NewEraser(h Host) *Eraser {
	h.SetCursor(CursorCrosshair)
	return &Eraser{host: h, touched: map[int]bool{}}
}

func (e *Eraser) MouseDown(ev Pointer) {
	e.erasing = true
	e.touched = map[int]bool{}
	e.mark(ev)
}

func (e *Eraser) MouseMove(ev Pointer) {
	if e.erasing {
		e.mark(ev)
	}
}

func (e *Eraser) MouseUp(Pointer) {
	if !e.erasing {
		return
	}
	e.erasing = false
	touched := e.touched
	e.touched = map[int]bool{}
	if len(touched) == 0 {
		return
	}
	e.host.Emit(state.DeleteOp(state.Without(e.host.Shapes(), touched)))
}

func (e *Eraser) Key(Key) {}

// ShapesReplaced forgets marks whose indexes no longer mean anything.
func (e *Eraser) ShapesReplaced() {
	e.touched = map[int]bool{}
}

func (e *Eraser) Close() {
	e.erasing = false
	e.touched = map[int]bool{}
	e.host.SetCursor(CursorDefault)
}

// Touched reports the indices marked by the current gesture.
func (e *Eraser) Touched() map[int]bool { return e.touched }

func (e *Eraser) mark(ev Pointer) {
	shapes := e.host.Shapes()
	cam := e.host.Camera()
	pos := cam.ScreenToWorld(ev.Screen)
	changed := false
	for _, i := range state.HitAll(pos, shapes, cam.Zoom, e.host.Measurer()) {
		if !e.touched[i] {
			e.touched[i] = true
			changed = true
		}
	}
	if !changed {
		return
	}
	marked := make([]state.Shape, 0, len(e.touched))
	for i, s := range shapes {
		if e.touched[i] {
			marked = append(marked, s)
		}
	}
	e.host.Redraw(render.EraseMarks(marked))
}
