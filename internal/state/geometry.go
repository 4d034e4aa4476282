package state

import "math"

// HitTolerance is the pickable band around a stroke, in screen pixels.
const HitTolerance = 8.0

// minSegment is the length under which a segment is treated as a point.
const minSegment = 0.01

// Tolerance converts the screen-space pick band to world units at zoom.
func Tolerance(zoom float64) float64 {
	return HitTolerance / zoom
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Normalize flips a rect dragged up or left so width and height are non-negative.
func Normalize(r Rect) Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// HitTest reports whether p (world space) picks s at the given zoom. Only the
// stroke of rects and circles is pickable; text is picked by its box.
func HitTest(p Point, s Shape, zoom float64, m TextMeasurer) bool {
	tol := Tolerance(zoom)
	switch s := s.(type) {
	case Rect:
		return hitRect(p, Normalize(s), tol)
	case Circle:
		return math.Abs(Distance(p, Point{X: s.CenterX, Y: s.CenterY})-s.Radius) <= tol
	case Line:
		return hitSegment(p, Point{X: s.X1, Y: s.Y1}, Point{X: s.X2, Y: s.Y2}, tol)
	case Pencil:
		for i := 0; i+1 < len(s.Points); i++ {
			if hitSegment(p, s.Points[i], s.Points[i+1], tol) {
				return true
			}
		}
		return false
	case Text:
		return TextBox(s, m, zoom).Contains(p)
	}
	return false
}

func hitRect(p Point, r Rect, tol float64) bool {
	outer := p.X >= r.X-tol && p.X <= r.X+r.Width+tol &&
		p.Y >= r.Y-tol && p.Y <= r.Y+r.Height+tol
	if !outer {
		return false
	}
	if r.Width <= 2*tol || r.Height <= 2*tol {
		return true
	}
	inner := p.X > r.X+tol && p.X < r.X+r.Width-tol &&
		p.Y > r.Y+tol && p.Y < r.Y+r.Height-tol
	return !inner
}

func hitSegment(p, a, b Point, tol float64) bool {
	length := Distance(a, b)
	if length < minSegment {
		return Distance(p, a) <= tol
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	dist := math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (length * length)
	return dist <= tol && t >= 0 && t <= 1
}

// TopmostHit returns the index of the last-drawn shape under p, or -1.
func TopmostHit(p Point, shapes []Shape, zoom float64, m TextMeasurer) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if HitTest(p, shapes[i], zoom, m) {
			return i
		}
	}
	return -1
}

// HitAll returns the indices of every shape under p, topmost first.
func HitAll(p Point, shapes []Shape, zoom float64, m TextMeasurer) []int {
	var hits []int
	for i := len(shapes) - 1; i >= 0; i-- {
		if HitTest(p, shapes[i], zoom, m) {
			hits = append(hits, i)
		}
	}
	return hits
}
