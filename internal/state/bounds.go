package state

import "math"

// Box is an axis-aligned rectangle in world space with non-negative size.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b Box) MaxX() float64 { return b.X + b.Width }
func (b Box) MaxY() float64 { return b.Y + b.Height }

func (b Box) Empty() bool { return b.Width <= 0 && b.Height <= 0 }

func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.MaxX() && p.Y >= b.Y && p.Y <= b.MaxY()
}

// Intersects treats touching edges as overlapping.
func (b Box) Intersects(o Box) bool {
	return !(b.MaxX() < o.X || o.MaxX() < b.X || b.MaxY() < o.Y || o.MaxY() < b.Y)
}

func (b Box) Pad(d float64) Box {
	return Box{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d}
}

func (b Box) Union(o Box) Box {
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.MaxX(), o.MaxX())
	maxY := math.Max(b.MaxY(), o.MaxY())
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func boxOfPoints(points []Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds returns the world-space box covering s as drawn at zoom. Text is
// drawn at FontSize/zoom, so its box shrinks as the camera zooms in.
func Bounds(s Shape, m TextMeasurer, zoom float64) Box {
	switch s := s.(type) {
	case Rect:
		n := Normalize(s)
		return Box{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
	case Circle:
		return Box{X: s.CenterX - s.Radius, Y: s.CenterY - s.Radius, Width: 2 * s.Radius, Height: 2 * s.Radius}
	case Line:
		return boxOfPoints([]Point{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}})
	case Pencil:
		return boxOfPoints(s.Points)
	case Text:
		return TextBox(s, m, zoom)
	}
	return Box{}
}

// TextBox is the box text occupies when drawn at zoom.
func TextBox(t Text, m TextMeasurer, zoom float64) Box {
	if zoom <= 0 {
		zoom = 1
	}
	size := t.FontSize / zoom
	return Box{X: t.X, Y: t.Y, Width: measure(m, t.Content, size), Height: size}
}

// BoundsOf returns the union of every shape's bounds at zoom 1 and false
// when shapes is empty.
func BoundsOf(shapes []Shape, m TextMeasurer) (Box, bool) {
	if len(shapes) == 0 {
		return Box{}, false
	}
	box := Bounds(shapes[0], m, 1)
	for _, s := range shapes[1:] {
		box = box.Union(Bounds(s, m, 1))
	}
	return box, true
}
