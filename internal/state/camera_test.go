package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	cam := NewCamera()
	cursor := Pt(100, 100)
	before := cam.ScreenToWorld(cursor)

	next := cam.ZoomAt(cursor, 100)
	assert.InDelta(t, 1.1, next.Zoom, 1e-9)
	after := next.ScreenToWorld(cursor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, 100-100/1.1, next.X, 1e-9)
}

func TestZoomIsClamped(t *testing.T) {
	cam := NewCamera()
	for i := 0; i < 100; i++ {
		cam = cam.ZoomAt(Pt(10, 10), 500)
	}
	assert.Equal(t, MaxZoom, cam.Zoom)
	for i := 0; i < 100; i++ {
		cam = cam.ZoomAt(Pt(10, 10), -900)
	}
	assert.Equal(t, MinZoom, cam.Zoom)
}

func TestScreenWorldRoundTrip(t *testing.T) {
	cam := Camera{X: -40, Y: 25, Zoom: 2.5}
	p := Pt(13, 77)
	back := cam.WorldToScreen(cam.ScreenToWorld(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestPannedFrom(t *testing.T) {
	start := Camera{X: 10, Y: 10, Zoom: 2}
	cam := start.PannedFrom(start, 20, -10)
	assert.Equal(t, Camera{X: 0, Y: 15, Zoom: 2}, cam)
}

func TestViewport(t *testing.T) {
	cam := Camera{X: 5, Y: 5, Zoom: 2}
	assert.Equal(t, Box{X: 5, Y: 5, Width: 400, Height: 300}, cam.Viewport(800, 600))
}
