package render

import (
	"image/color"
	"log/slog"

	"RoomBoard/internal/state"
)

// OverlayKind selects how overlay shapes are drawn on top of the canvas.
type OverlayKind int

const (
	// Preview is a shape being drawn that has not been committed yet.
	Preview OverlayKind = iota
	// Selection is the dashed highlight of the selected shape.
	Selection
	// EraseMark tints shapes touched by the current erase gesture.
	EraseMark
)

type Overlay struct {
	Kind   OverlayKind
	Shapes []state.Shape
}

func PreviewOf(s state.Shape) Overlay    { return Overlay{Kind: Preview, Shapes: []state.Shape{s}} }
func SelectionOf(s state.Shape) Overlay  { return Overlay{Kind: Selection, Shapes: []state.Shape{s}} }
func EraseMarks(s []state.Shape) Overlay { return Overlay{Kind: EraseMark, Shapes: s} }

// Frame is everything a backend needs to paint one redraw.
type Frame struct {
	Camera    state.Camera
	Transform Matrix
	Width     float64
	Height    float64
	Commands  []Command
}

// Scene carries the inputs of one redraw.
type Scene struct {
	Shapes   []state.Shape
	Camera   state.Camera
	DPR      float64
	Width    float64
	Height   float64
	Overlays []Overlay
	Measurer state.TextMeasurer
}

// Compose builds the frame for a scene. Committed shapes come first in
// z-order, overlays after. When the screen size is known, shapes outside
// the viewport are culled.
func Compose(sc Scene) Frame {
	zoom := sc.Camera.Zoom
	f := Frame{
		Camera:    sc.Camera,
		Transform: Transform(sc.Camera, sc.DPR),
		Width:     sc.Width,
		Height:    sc.Height,
	}
	cull := sc.Width > 0 && sc.Height > 0
	view := sc.Camera.Viewport(sc.Width, sc.Height).Pad(state.Tolerance(zoom))
	for _, s := range sc.Shapes {
		if cull && !state.Bounds(s, sc.Measurer, zoom).Pad(2/zoom).Intersects(view) {
			continue
		}
		f.add(s, ShapeStyle(zoom), zoom)
	}
	for _, o := range sc.Overlays {
		for _, s := range o.Shapes {
			f.overlay(o.Kind, s, zoom, sc.Measurer)
		}
	}
	return f
}

func (f *Frame) add(s state.Shape, st Style, zoom float64) {
	cmd, err := Shape(s, st, zoom)
	if err != nil {
		slog.Warn("skip shape", "error", err)
		return
	}
	f.Commands = append(f.Commands, cmd)
}

func (f *Frame) overlay(kind OverlayKind, s state.Shape, zoom float64, m state.TextMeasurer) {
	switch kind {
	case Preview:
		f.add(s, ShapeStyle(zoom), zoom)
	case Selection:
		st := Style{Stroke: Highlight, Width: 2 / zoom, Dash: []float64{5 / zoom, 5 / zoom}}
		if t, ok := s.(state.Text); ok {
			w := measureText(m, t.Content, t.FontSize/zoom)
			h := t.FontSize / zoom
			pad := 2 / zoom
			f.Commands = append(f.Commands, RectCmd{X: t.X - pad, Y: t.Y - pad, Width: w + 2*pad, Height: h + 2*pad, S: st})
			return
		}
		f.add(s, st, zoom)
	case EraseMark:
		st := Style{Stroke: EraseLine, Fill: EraseFill, Width: 3 / zoom}
		if t, ok := s.(state.Text); ok {
			w := measureText(m, t.Content, t.FontSize/zoom)
			f.Commands = append(f.Commands, RectCmd{X: t.X, Y: t.Y, Width: w, Height: t.FontSize / zoom, S: Style{Fill: EraseFill}})
			return
		}
		switch s.(type) {
		case state.Line, state.Pencil:
			st.Fill = color.NRGBA{}
		}
		f.add(s, st, zoom)
	}
}

func measureText(m state.TextMeasurer, content string, size float64) float64 {
	if m == nil {
		m = state.DefaultMeasurer()
	}
	return m.MeasureText(content, size)
}

// Grid returns grid lines spaced step world units covering the viewport.
func Grid(cam state.Camera, width, height, step float64) []Command {
	if step <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	for step*cam.Zoom < 10 {
		step *= 5
	}
	view := cam.Viewport(width, height)
	st := Style{Stroke: GridLine, Width: 0.5 / cam.Zoom}
	var cmds []Command
	for x := floorTo(view.X, step); x <= view.MaxX(); x += step {
		cmds = append(cmds, PolylineCmd{Points: []state.Point{{X: x, Y: view.Y}, {X: x, Y: view.MaxY()}}, S: st})
	}
	for y := floorTo(view.Y, step); y <= view.MaxY(); y += step {
		cmds = append(cmds, PolylineCmd{Points: []state.Point{{X: view.X, Y: y}, {X: view.MaxX(), Y: y}}, S: st})
	}
	return cmds
}

func floorTo(v, step float64) float64 {
	n := int64(v / step)
	f := float64(n) * step
	if f > v {
		f -= step
	}
	return f
}
