package tool

import "RoomBoard/internal/state"

// Pan drags the camera. It never produces a mutation.
type Pan struct {
	host     Host
	panning  bool
	startCam state.Camera
	start    state.Point
}

func NewPan(h Host) *Pan {
	h.SetCursor(CursorGrab)
	return &Pan{host: h}
}

func (p *Pan) MouseDown(ev Pointer) {
	p.panning = true
	p.start = ev.Screen
	p.startCam = p.host.Camera()
	p.host.SetCursor(CursorGrabbing)
}

func (p *Pan) MouseMove(ev Pointer) {
	if !p.panning {
		return
	}
	cam := p.host.Camera()
	p.host.SetCamera(cam.PannedFrom(p.startCam, ev.Screen.X-p.start.X, ev.Screen.Y-p.start.Y))
	p.host.Redraw()
}

func (p *Pan) MouseUp(Pointer) {
	p.panning = false
	p.host.SetCursor(CursorGrab)
}

func (p *Pan) Key(Key) {}

func (p *Pan) Close() {
	p.panning = false
	p.host.SetCursor(CursorDefault)
}

// Zoom handles wheel input. It is active alongside whichever tool is
// selected.
type Zoom struct {
	host Host
}

func NewZoom(h Host) *Zoom { return &Zoom{host: h} }

func (z *Zoom) Wheel(ev Wheel) {
	if ev.Delta == 0 {
		return
	}
	z.host.SetCamera(z.host.Camera().ZoomAt(ev.Screen, ev.Delta))
	z.host.Redraw()
}
