package ui

import (
	"image/color"
	"math"

	"RoomBoard/internal/board"
	"RoomBoard/internal/render"
	"RoomBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
	size       fyne.Size
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	r := &boardRenderer{
		board:      b,
		background: canvas.NewRectangle(render.Background),
	}
	r.objects = []fyne.CanvasObject{r.background}
	return r
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	if size == r.size {
		return
	}
	r.size = size
	w, h := float64(size.Width), float64(size.Height)
	r.board.post(func(s *board.Session) { s.Resize(w, h) })
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Destroy() {}

// Refresh rebuilds the canvas objects from the latest frame.
func (r *boardRenderer) Refresh() {
	frame, grid := r.board.snapshot()
	objects := []fyne.CanvasObject{r.background}
	if grid {
		for _, cmd := range render.Grid(frame.Camera, float64(r.size.Width), float64(r.size.Height), GridStep) {
			objects = paint(objects, frame.Transform, cmd)
		}
	}
	for _, cmd := range frame.Commands {
		objects = paint(objects, frame.Transform, cmd)
	}
	r.objects = objects
	canvas.Refresh(r.board)
}

func pos(m render.Matrix, p state.Point) fyne.Position {
	d := m.Apply(p)
	return fyne.NewPos(float32(d.X), float32(d.Y))
}

// paint appends the fyne objects drawing cmd under transform m.
func paint(objects []fyne.CanvasObject, m render.Matrix, cmd render.Command) []fyne.CanvasObject {
	st := cmd.Style()
	scale := m.Scale()
	width := float32(st.Width * scale)
	var dash []float64
	for _, d := range st.Dash {
		dash = append(dash, d*scale)
	}

	switch c := cmd.(type) {
	case render.RectCmd:
		n := state.Normalize(state.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height})
		tl := pos(m, state.Pt(n.X, n.Y))
		size := fyne.NewSize(float32(n.Width*scale), float32(n.Height*scale))
		if len(dash) > 0 {
			if st.Fill.A > 0 {
				objects = append(objects, filled(tl, size, st.Fill))
			}
			return dashed(objects, m, render.RectOutline(n.X, n.Y, n.Width, n.Height), dash, st.Stroke, width)
		}
		rect := canvas.NewRectangle(st.Fill)
		rect.StrokeColor = st.Stroke
		rect.StrokeWidth = width
		rect.Move(tl)
		rect.Resize(size)
		return append(objects, rect)
	case render.CircleCmd:
		if len(dash) > 0 {
			n := int(math.Max(24, c.Radius*scale/2))
			return dashed(objects, m, render.CircleOutline(c.CX, c.CY, c.Radius, n), dash, st.Stroke, width)
		}
		circle := canvas.NewCircle(st.Fill)
		circle.StrokeColor = st.Stroke
		circle.StrokeWidth = width
		circle.Position1 = pos(m, state.Pt(c.CX-c.Radius, c.CY-c.Radius))
		circle.Position2 = pos(m, state.Pt(c.CX+c.Radius, c.CY+c.Radius))
		return append(objects, circle)
	case render.PolylineCmd:
		return dashed(objects, m, c.Points, dash, st.Stroke, width)
	case render.TextCmd:
		text := canvas.NewText(c.Content, st.Fill)
		text.TextSize = float32(c.Size * scale)
		text.Move(pos(m, state.Pt(c.X, c.Y)))
		return append(objects, text)
	}
	return objects
}

func filled(at fyne.Position, size fyne.Size, fill color.NRGBA) fyne.CanvasObject {
	rect := canvas.NewRectangle(fill)
	rect.Move(at)
	rect.Resize(size)
	return rect
}

// dashed draws a polyline given in world space. Dash lengths are already in
// screen units.
func dashed(objects []fyne.CanvasObject, m render.Matrix, world []state.Point, dash []float64, stroke color.NRGBA, width float32) []fyne.CanvasObject {
	screen := make([]state.Point, len(world))
	for i, p := range world {
		screen[i] = m.Apply(p)
	}
	for _, seg := range render.Dashes(screen, dash) {
		line := canvas.NewLine(stroke)
		line.StrokeWidth = width
		line.Position1 = fyne.NewPos(float32(seg[0].X), float32(seg[0].Y))
		line.Position2 = fyne.NewPos(float32(seg[1].X), float32(seg[1].Y))
		objects = append(objects, line)
	}
	return objects
}
