package render

import (
	"testing"

	"RoomBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeCommands(t *testing.T) {
	st := ShapeStyle(2)
	assert.Equal(t, 1.0, st.Width)

	cmd, err := Shape(state.Rect{X: 1, Y: 2, Width: -3, Height: 4}, st, 2)
	require.NoError(t, err)
	assert.Equal(t, RectCmd{X: 1, Y: 2, Width: -3, Height: 4, S: st}, cmd)

	cmd, err = Shape(state.Line{X1: 0, Y1: 0, X2: 3, Y2: 4}, st, 2)
	require.NoError(t, err)
	assert.Len(t, cmd.(PolylineCmd).Points, 2)

	cmd, err = Shape(state.Text{X: 5, Y: 6, Content: "hi", FontSize: 16}, st, 2)
	require.NoError(t, err)
	txt := cmd.(TextCmd)
	assert.Equal(t, 8.0, txt.Size)
	assert.Equal(t, Ink, txt.S.Fill)
}

func TestTransformMatchesCamera(t *testing.T) {
	cam := state.Camera{X: 10, Y: -5, Zoom: 2}
	m := Transform(cam, 1)
	w := state.Pt(30, 15)
	got := m.Apply(w)
	want := cam.WorldToScreen(w)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, 2.0, m.Scale(), 1e-9)

	hi := Transform(cam, 2)
	assert.InDelta(t, 4.0, hi.Scale(), 1e-9)
	assert.InDelta(t, 2*want.X, hi.Apply(w).X, 1e-9)
}

func TestDashes(t *testing.T) {
	line := []state.Point{{X: 0, Y: 0}, {X: 20, Y: 0}}
	segs := Dashes(line, []float64{5, 5})
	require.Len(t, segs, 2)
	assert.Equal(t, [2]state.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}, segs[0])
	assert.Equal(t, [2]state.Point{{X: 10, Y: 0}, {X: 15, Y: 0}}, segs[1])

	solid := Dashes(RectOutline(0, 0, 10, 10), nil)
	assert.Len(t, solid, 4)
}

func TestComposeOrdersOverlaysLast(t *testing.T) {
	shapes := []state.Shape{
		state.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		state.Circle{CenterX: 50, CenterY: 50, Radius: 5},
	}
	f := Compose(Scene{
		Shapes:   shapes,
		Camera:   state.NewCamera(),
		Overlays: []Overlay{SelectionOf(shapes[1]), PreviewOf(state.Line{X2: 5})},
		Measurer: state.EstimateMeasurer{},
	})
	require.Len(t, f.Commands, 4)
	sel := f.Commands[2].(CircleCmd)
	assert.Equal(t, Highlight, sel.S.Stroke)
	assert.NotEmpty(t, sel.S.Dash)
	assert.IsType(t, PolylineCmd{}, f.Commands[3])
}

func TestComposeCullsOffscreenShapes(t *testing.T) {
	f := Compose(Scene{
		Shapes: []state.Shape{
			state.Rect{X: 10, Y: 10, Width: 10, Height: 10},
			state.Rect{X: 5000, Y: 5000, Width: 10, Height: 10},
		},
		Camera:   state.NewCamera(),
		Width:    800,
		Height:   600,
		Measurer: state.EstimateMeasurer{},
	})
	assert.Len(t, f.Commands, 1)
}

func TestComposeKeepsTextReachingIntoViewWhenZoomedOut(t *testing.T) {
	text := state.Text{X: -300, Y: 10, Content: "hello world", FontSize: 16}
	scene := Scene{
		Shapes:   []state.Shape{text},
		Camera:   state.Camera{Zoom: 0.1},
		Width:    800,
		Height:   600,
		Measurer: state.EstimateMeasurer{},
	}
	f := Compose(scene)
	require.Len(t, f.Commands, 1)
	assert.Equal(t, 160.0, f.Commands[0].(TextCmd).Size)

	scene.Shapes = []state.Shape{state.Text{X: -1200, Y: 10, Content: "hello world", FontSize: 16}}
	assert.Empty(t, Compose(scene).Commands)
}

func TestEraseMarks(t *testing.T) {
	f := Compose(Scene{
		Camera: state.NewCamera(),
		Overlays: []Overlay{EraseMarks([]state.Shape{
			state.Rect{Width: 10, Height: 10},
			state.Line{X2: 10},
			state.Text{Content: "ab", FontSize: 10},
		})},
		Measurer: state.EstimateMeasurer{},
	})
	require.Len(t, f.Commands, 3)
	assert.Equal(t, EraseFill, f.Commands[0].Style().Fill)
	assert.Zero(t, f.Commands[1].Style().Fill.A)
	box := f.Commands[2].(RectCmd)
	assert.InDelta(t, 12.0, box.Width, 1e-9)
	assert.Equal(t, EraseFill, box.S.Fill)
}

func TestGridCoversViewport(t *testing.T) {
	cmds := Grid(state.NewCamera(), 100, 100, 50)
	// x = 0, 50, 100 and y = 0, 50, 100
	assert.Len(t, cmds, 6)
	assert.Nil(t, Grid(state.NewCamera(), 0, 100, 50))
}
