package tool

import (
	"math"

	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

// MoveThreshold is the screen distance, in pixels, a drag must reach to
// count as a move rather than a click.
const MoveThreshold = 3.0

// Select picks the topmost shape under the cursor, drags it and deletes it
// on Delete or Backspace.
type Select struct {
	host      Host
	selected  int
	dragging  bool
	moved     bool
	downAt    state.Point
	dragStart state.Point
	anchor    state.Shape
	offset    state.Point
	count     int
}

func NewSelect(h Host) *Select {
	h.SetCursor(CursorDefault)
	return &Select{host: h, selected: -1}
}

// Selected returns the selected index, or -1.
func (s *Select) Selected() int { return s.selected }

func (s *Select) MouseDown(ev Pointer) {
	shapes := s.host.Shapes()
	cam := s.host.Camera()
	pos := cam.ScreenToWorld(ev.Screen)

	s.downAt = ev.Screen
	s.offset = state.Point{}
	s.moved = false
	s.dragging = false
	s.anchor = nil

	hit := state.TopmostHit(pos, shapes, cam.Zoom, s.host.Measurer())
	if hit < 0 {
		s.selected = -1
		s.host.Redraw()
		s.host.SetCursor(CursorDefault)
		return
	}
	s.selected = hit
	s.count = len(shapes)
	s.dragging = true
	s.dragStart = pos
	s.anchor = state.Clone(shapes[hit])
	s.host.Redraw(render.SelectionOf(shapes[hit]))
	s.host.SetCursor(CursorGrabbing)
}

func (s *Select) MouseMove(ev Pointer) {
	shapes := s.host.Shapes()
	cam := s.host.Camera()
	pos := cam.ScreenToWorld(ev.Screen)

	if !s.dragging || !s.valid(shapes) {
		if state.TopmostHit(pos, shapes, cam.Zoom, s.host.Measurer()) >= 0 {
			s.host.SetCursor(CursorGrab)
		} else {
			s.host.SetCursor(CursorDefault)
		}
		return
	}

	if !s.moved {
		if math.Hypot(ev.Screen.X-s.downAt.X, ev.Screen.Y-s.downAt.Y) < MoveThreshold {
			return
		}
		s.moved = true
	}
	s.offset = state.Pt(pos.X-s.dragStart.X, pos.Y-s.dragStart.Y)
	s.place(shapes)
}

// place puts the dragged shape at anchor+offset in a copy of shapes.
func (s *Select) place(shapes []state.Shape) {
	updated := make([]state.Shape, len(shapes))
	copy(updated, shapes)
	updated[s.selected] = state.Translate(s.anchor, s.offset.X, s.offset.Y)
	s.host.SetShapes(updated)
	s.host.Redraw(render.SelectionOf(updated[s.selected]))
}

// MouseUp emits one update with the full list when the drag was a move.
func (s *Select) MouseUp(Pointer) {
	shapes := s.host.Shapes()
	if s.dragging && s.moved {
		s.host.Emit(state.UpdateOp(shapes))
		shapes = s.host.Shapes()
	}
	s.dragging = false
	s.moved = false
	s.anchor = nil
	if s.valid(shapes) {
		s.host.Redraw(render.SelectionOf(shapes[s.selected]))
		s.host.SetCursor(CursorGrab)
	}
}

func (s *Select) Key(k Key) {
	if k != KeyDelete && k != KeyBackspace {
		return
	}
	shapes := s.host.Shapes()
	if !s.valid(shapes) {
		return
	}
	rest := state.Without(shapes, map[int]bool{s.selected: true})
	s.selected = -1
	s.dragging = false
	s.host.Emit(state.DeleteOp(rest))
}

// ShapesReplaced keeps a drag alive only while the dragged index still holds
// the shape the drag started from. Otherwise the drag and selection are dropped.
func (s *Select) ShapesReplaced() {
	shapes := s.host.Shapes()
	if s.dragging && s.valid(shapes) && state.SameShape(shapes[s.selected], s.anchor) {
		if s.moved {
			s.place(shapes)
		}
		return
	}
	if !s.dragging && s.valid(shapes) && s.count == len(shapes) {
		return
	}
	s.dragging = false
	s.moved = false
	s.anchor = nil
	s.selected = -1
	s.host.SetCursor(CursorDefault)
}

func (s *Select) Close() {
	s.dragging = false
	s.moved = false
	s.anchor = nil
	s.selected = -1
	s.host.SetCursor(CursorDefault)
}

func (s *Select) valid(shapes []state.Shape) bool {
	return s.selected >= 0 && s.selected < len(shapes)
}
