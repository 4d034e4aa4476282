// Package render turns shapes into backend-neutral drawing commands. The
// fyne board widget and the PDF exporter both consume these commands.
package render

import (
	"fmt"
	"image/color"
	"math"

	"RoomBoard/internal/state"
)

// Style describes how a command is stroked and filled. A zero Fill alpha
// means no fill; an empty Dash means a solid stroke. Width and Dash are in
// world units.
type Style struct {
	Stroke color.NRGBA
	Fill   color.NRGBA
	Width  float64
	Dash   []float64
}

var (
	Background = color.NRGBA{A: 255}
	Ink        = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Highlight  = color.NRGBA{R: 0, G: 150, B: 255, A: 204}
	EraseFill  = color.NRGBA{R: 255, A: 77}
	EraseLine  = color.NRGBA{R: 255, A: 128}
	GridLine   = color.NRGBA{R: 60, G: 60, B: 60, A: 100}
)

// Command is one drawing primitive in world coordinates.
type Command interface {
	Style() Style
	command()
}

// RectCmd may carry a negative width or height.
type RectCmd struct {
	X, Y, Width, Height float64
	S                   Style
}

type CircleCmd struct {
	CX, CY, Radius float64
	S              Style
}

// PolylineCmd draws connected segments through Points.
type PolylineCmd struct {
	Points []state.Point
	S      Style
}

// TextCmd anchors its top-left corner at (X, Y). Size is the font size in
// world units.
type TextCmd struct {
	X, Y    float64
	Content string
	Size    float64
	S       Style
}

func (c RectCmd) Style() Style     { return c.S }
func (c CircleCmd) Style() Style   { return c.S }
func (c PolylineCmd) Style() Style { return c.S }
func (c TextCmd) Style() Style     { return c.S }

func (RectCmd) command()     {}
func (CircleCmd) command()   {}
func (PolylineCmd) command() {}
func (TextCmd) command()     {}

// ShapeStyle is the committed-shape style at zoom.
func ShapeStyle(zoom float64) Style {
	return Style{Stroke: Ink, Width: 2 / zoom}
}

// Shape maps s to the command that draws it. Text is sized fontSize/zoom so
// it keeps a constant on-screen size, matching how it is hit-tested.
func Shape(s state.Shape, st Style, zoom float64) (Command, error) {
	switch s := s.(type) {
	case state.Rect:
		return RectCmd{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height, S: st}, nil
	case state.Circle:
		return CircleCmd{CX: s.CenterX, CY: s.CenterY, Radius: s.Radius, S: st}, nil
	case state.Line:
		return PolylineCmd{Points: []state.Point{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}}, S: st}, nil
	case state.Pencil:
		pts := make([]state.Point, len(s.Points))
		copy(pts, s.Points)
		return PolylineCmd{Points: pts, S: st}, nil
	case state.Text:
		st.Fill = st.Stroke
		return TextCmd{X: s.X, Y: s.Y, Content: s.Content, Size: s.FontSize / zoom, S: st}, nil
	}
	return nil, fmt.Errorf("render: %w: %T", state.ErrUnknownShape, s)
}

// Matrix is the affine transform [a b c d e f] mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Transform is the single world-to-device transform for a camera at the
// given device pixel ratio.
func Transform(cam state.Camera, dpr float64) Matrix {
	if dpr <= 0 {
		dpr = 1
	}
	s := dpr * cam.Zoom
	return Matrix{s, 0, 0, s, -cam.X * s, -cam.Y * s}
}

func (m Matrix) Apply(p state.Point) state.Point {
	return state.Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Scale is the uniform scale factor of m.
func (m Matrix) Scale() float64 {
	return math.Hypot(m[0], m[1])
}

// Dashes splits a polyline into the visible dash segments of pattern
// (alternating on/off lengths). A nil pattern returns the polyline's own
// segments.
func Dashes(points []state.Point, pattern []float64) [][2]state.Point {
	var out [][2]state.Point
	if len(pattern) == 0 {
		for i := 0; i+1 < len(points); i++ {
			out = append(out, [2]state.Point{points[i], points[i+1]})
		}
		return out
	}
	idx, left, on := 0, pattern[0], true
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		segLen := state.Distance(a, b)
		pos := 0.0
		for pos < segLen {
			step := math.Min(left, segLen-pos)
			if step <= 0 {
				break
			}
			if on {
				out = append(out, [2]state.Point{lerp(a, b, pos/segLen), lerp(a, b, (pos+step)/segLen)})
			}
			pos += step
			left -= step
			if left <= 1e-9 {
				idx = (idx + 1) % len(pattern)
				left = pattern[idx]
				on = !on
			}
		}
	}
	return out
}

func lerp(a, b state.Point, t float64) state.Point {
	return state.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// RectOutline returns the closed outline of a rect command.
func RectOutline(x, y, w, h float64) []state.Point {
	return []state.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y}}
}

// CircleOutline approximates a circle with n segments.
func CircleOutline(cx, cy, r float64, n int) []state.Point {
	if n < 8 {
		n = 8
	}
	pts := make([]state.Point, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = state.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}
