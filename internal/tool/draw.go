package tool

import (
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"
)

// MinLineLength is the shortest line, in world units, that is kept.
const MinLineLength = 1.0

// builder turns a drag from start to end (world space) into a shape. It
// returns false when the result is too small to keep.
type builder func(start, end state.Point) (state.Shape, bool)

// Drag draws two-point shapes: idle, armed on mouse-down, previewing while
// the mouse moves, and back to idle on mouse-up.
type Drag struct {
	host  Host
	build builder
	armed bool
	start state.Point
}

func newDrag(h Host, b builder) *Drag {
	h.SetCursor(CursorCrosshair)
	return &Drag{host: h, build: b}
}

func NewRect(h Host) *Drag {
	return newDrag(h, func(a, b state.Point) (state.Shape, bool) {
		return state.Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}, true
	})
}

func NewCircle(h Host) *Drag {
	return newDrag(h, func(a, b state.Point) (state.Shape, bool) {
		return state.Circle{CenterX: a.X, CenterY: a.Y, Radius: state.Distance(a, b)}, true
	})
}

func NewLine(h Host) *Drag {
	return newDrag(h, func(a, b state.Point) (state.Shape, bool) {
		l := state.Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
		return l, state.Distance(a, b) >= MinLineLength
	})
}

func (d *Drag) MouseDown(ev Pointer) {
	d.armed = true
	d.start = world(d.host, ev)
}

func (d *Drag) MouseMove(ev Pointer) {
	if !d.armed {
		return
	}
	s, _ := d.build(d.start, world(d.host, ev))
	d.host.Redraw(render.PreviewOf(s))
}

func (d *Drag) MouseUp(ev Pointer) {
	if !d.armed {
		return
	}
	d.armed = false
	s, ok := d.build(d.start, world(d.host, ev))
	if !ok {
		d.host.Redraw()
		return
	}
	d.host.Emit(state.CreateOp(s))
}

func (d *Drag) Key(Key) {}

func (d *Drag) Close() {
	d.armed = false
	d.host.SetCursor(CursorDefault)
}

// Pencil records a freehand stroke point by point.
type Pencil struct {
	host    Host
	drawing bool
	points  []state.Point
}

func NewPencil(h Host) *Pencil {
	h.SetCursor(CursorCrosshair)
	return &Pencil{host: h}
}

func (p *Pencil) MouseDown(ev Pointer) {
	p.drawing = true
	p.points = []state.Point{world(p.host, ev)}
}

func (p *Pencil) MouseMove(ev Pointer) {
	if !p.drawing {
		return
	}
	p.points = append(p.points, world(p.host, ev))
	p.host.Redraw(render.PreviewOf(state.Pencil{Points: p.points}))
}

// MouseUp commits the points recorded so far; strokes with fewer than two
// points are dropped.
func (p *Pencil) MouseUp(Pointer) {
	if !p.drawing {
		return
	}
	p.drawing = false
	pts := p.points
	p.points = nil
	if len(pts) < 2 {
		return
	}
	p.host.Emit(state.CreateOp(state.Pencil{Points: pts}))
}

func (p *Pencil) Key(Key) {}

func (p *Pencil) Close() {
	p.drawing = false
	p.points = nil
	p.host.SetCursor(CursorDefault)
}
