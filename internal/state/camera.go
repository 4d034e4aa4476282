package state

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 10.0

	// ZoomSpeed scales one unit of wheel delta into a relative zoom change.
	ZoomSpeed = 0.001
)

// Camera maps world space to the canvas. (X, Y) is the world point shown at
// the canvas's top-left corner. Cameras are values: pan and zoom return a
// new one.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

func NewCamera() Camera { return Camera{Zoom: 1} }

func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

func (c Camera) ScreenToWorld(p Point) Point {
	return Point{X: p.X/c.Zoom + c.X, Y: p.Y/c.Zoom + c.Y}
}

func (c Camera) WorldToScreen(p Point) Point {
	return Point{X: (p.X - c.X) * c.Zoom, Y: (p.Y - c.Y) * c.Zoom}
}

// ZoomAt zooms by delta wheel units (positive zooms in) while keeping the
// world point under the screen position fixed.
func (c Camera) ZoomAt(screen Point, delta float64) Camera {
	return c.ZoomTo(screen, c.Zoom*(1+delta*ZoomSpeed))
}

// ZoomTo sets the zoom (clamped) while keeping the world point under screen fixed.
func (c Camera) ZoomTo(screen Point, zoom float64) Camera {
	world := c.ScreenToWorld(screen)
	z := ClampZoom(zoom)
	return Camera{
		X:    world.X - screen.X/z,
		Y:    world.Y - screen.Y/z,
		Zoom: z,
	}
}

// PannedFrom returns the camera that results from dragging the cursor by
// (dx, dy) screen pixels since start was captured. The zoom of c is kept.
func (c Camera) PannedFrom(start Camera, dx, dy float64) Camera {
	return Camera{
		X:    start.X - dx/c.Zoom,
		Y:    start.Y - dy/c.Zoom,
		Zoom: c.Zoom,
	}
}

// Viewport is the world-space box visible on a canvas of the given screen size.
func (c Camera) Viewport(width, height float64) Box {
	return Box{X: c.X, Y: c.Y, Width: width / c.Zoom, Height: height / c.Zoom}
}
