package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var est = EstimateMeasurer{}

func sampleSegment(a, b Point, n int) []Point {
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
	}
	return pts
}

func TestStrokePointsHit(t *testing.T) {
	for _, zoom := range []float64{0.5, 1, 4} {
		r := Rect{X: 10, Y: 10, Width: 40, Height: 30}
		corners := []Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 40}, {X: 10, Y: 40}, {X: 10, Y: 10}}
		for i := 0; i+1 < len(corners); i++ {
			for _, p := range sampleSegment(corners[i], corners[i+1], 20) {
				assert.True(t, HitTest(p, r, zoom, est), "rect edge %v zoom %v", p, zoom)
			}
		}

		c := Circle{CenterX: 100, CenterY: 100, Radius: 25}
		for i := 0; i < 36; i++ {
			a := 2 * math.Pi * float64(i) / 36
			p := Point{X: 100 + 25*math.Cos(a), Y: 100 + 25*math.Sin(a)}
			assert.True(t, HitTest(p, c, zoom, est), "circle edge %v", p)
		}

		l := Line{X1: 0, Y1: 0, X2: 60, Y2: 30}
		for _, p := range sampleSegment(Pt(0, 0), Pt(60, 30), 20) {
			assert.True(t, HitTest(p, l, zoom, est), "line %v", p)
		}

		pen := Pencil{Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: 30, Y: 5}}}
		for i := 0; i+1 < len(pen.Points); i++ {
			for _, p := range sampleSegment(pen.Points[i], pen.Points[i+1], 10) {
				assert.True(t, HitTest(p, pen, zoom, est), "pencil %v", p)
			}
		}
	}
}

func TestToleranceScalesWithZoom(t *testing.T) {
	l := Line{X1: 0, Y1: 0, X2: 100, Y2: 0}
	// 6 world units off the line: inside 8px at zoom 1, outside at zoom 2
	p := Pt(50, 6)
	assert.True(t, HitTest(p, l, 1, est))
	assert.False(t, HitTest(p, l, 2, est))
	assert.InDelta(t, 4.0, Tolerance(2), 1e-9)
}

func TestRectInteriorIsNotPickable(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 40, Height: 30}
	assert.False(t, HitTest(Pt(30, 25), r, 1, est))
	assert.False(t, HitTest(Pt(100, 100), r, 1, est))

	// dragged up-left
	neg := Rect{X: 50, Y: 40, Width: -40, Height: -30}
	assert.True(t, HitTest(Pt(10, 25), neg, 1, est))
	assert.False(t, HitTest(Pt(30, 25), neg, 1, est))
}

func TestCircleCentreIsNotPickable(t *testing.T) {
	c := Circle{CenterX: 0, CenterY: 0, Radius: 50}
	assert.False(t, HitTest(Pt(0, 0), c, 1, est))
	assert.True(t, HitTest(Pt(0, 55), c, 1, est))
	assert.False(t, HitTest(Pt(0, 70), c, 1, est))
}

func TestSegmentEndsAreBounded(t *testing.T) {
	l := Line{X1: 0, Y1: 0, X2: 100, Y2: 0}
	assert.False(t, HitTest(Pt(110, 0), l, 1, est))
	assert.False(t, HitTest(Pt(-10, 0), l, 1, est))

	dot := Line{X1: 5, Y1: 5, X2: 5, Y2: 5}
	assert.True(t, HitTest(Pt(8, 5), dot, 1, est))
	assert.False(t, HitTest(Pt(20, 5), dot, 1, est))

	assert.False(t, HitTest(Pt(0, 0), Pencil{Points: []Point{{X: 0, Y: 0}}}, 1, est))
}

func TestTextBoxHit(t *testing.T) {
	txt := Text{X: 10, Y: 10, Content: "abcd", FontSize: 16}
	// 4 runes * 16 * 0.6 = 38.4 wide, 16 tall
	assert.True(t, HitTest(Pt(12, 12), txt, 1, est))
	assert.True(t, HitTest(Pt(48, 25), txt, 1, est))
	assert.False(t, HitTest(Pt(50, 12), txt, 1, est))
	assert.False(t, HitTest(Pt(12, 27), txt, 1, est))
	// the box shrinks in world units as the camera zooms in
	assert.False(t, HitTest(Pt(30, 12), txt, 2, est))
}

func TestTopmostHitPrefersLastDrawn(t *testing.T) {
	shapes := []Shape{
		Line{X1: 0, Y1: 0, X2: 100, Y2: 0},
		Line{X1: 0, Y1: 2, X2: 100, Y2: 2},
		Circle{CenterX: 500, CenterY: 500, Radius: 5},
	}
	assert.Equal(t, 1, TopmostHit(Pt(50, 1), shapes, 1, est))
	assert.Equal(t, -1, TopmostHit(Pt(300, 300), shapes, 1, est))
	assert.Equal(t, []int{1, 0}, HitAll(Pt(50, 1), shapes, 1, est))
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil, est)
	require.False(t, ok)

	box, ok := BoundsOf([]Shape{
		Rect{X: 10, Y: 10, Width: -20, Height: 5},
		Circle{CenterX: 50, CenterY: 50, Radius: 10},
	}, est)
	require.True(t, ok)
	assert.Equal(t, Box{X: -10, Y: 10, Width: 70, Height: 50}, box)
	assert.True(t, box.Contains(Pt(0, 20)))
	assert.True(t, box.Intersects(Box{X: 60, Y: 60, Width: 5, Height: 5}))
	assert.False(t, box.Intersects(Box{X: 61, Y: 0, Width: 5, Height: 5}))
}

func TestTextBoundsFollowZoom(t *testing.T) {
	text := Text{X: 5, Y: 5, Content: "abcd", FontSize: 10}
	at1 := Bounds(text, est, 1)
	assert.InDelta(t, 24.0, at1.Width, 1e-9)
	assert.Equal(t, 10.0, at1.Height)
	at2 := Bounds(text, est, 2)
	assert.InDelta(t, 12.0, at2.Width, 1e-9)
	assert.Equal(t, 5.0, at2.Height)
	assert.InDelta(t, 240.0, Bounds(text, est, 0.1).Width, 1e-9)

	box := Bounds(text, est, 0.5)
	assert.True(t, HitTest(Pt(box.MaxX()-1, box.MaxY()-1), text, 0.5, est))
	assert.False(t, HitTest(Pt(box.MaxX()+1, box.Y+1), text, 0.5, est))
}

func TestFontMeasurerScalesLinearly(t *testing.T) {
	m, err := NewFontMeasurer()
	require.NoError(t, err)
	w16 := m.MeasureText("hello", 16)
	w32 := m.MeasureText("hello", 32)
	require.Greater(t, w16, 0.0)
	assert.InDelta(t, 2*w16, w32, 1e-6)
	assert.Zero(t, m.MeasureText("", 16))
	assert.Greater(t, m.MeasureText("hello world", 16), w16)
}
