package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeWireFormat(t *testing.T) {
	cases := []struct {
		shape Shape
		want  string
	}{
		{Rect{X: 10, Y: 10, Width: 40, Height: 30}, `{"type":"rect","x":10,"y":10,"width":40,"height":30}`},
		{Circle{CenterX: 1, CenterY: 2, Radius: 3}, `{"type":"circle","centerX":1,"centerY":2,"radius":3}`},
		{Line{X1: 0, Y1: 0, X2: 5, Y2: 5}, `{"type":"line","x1":0,"y1":0,"x2":5,"y2":5}`},
		{Pencil{Points: []Point{{X: 1, Y: 2}, {X: 3, Y: 4}}}, `{"type":"pencil","points":[{"x":1,"y":2},{"x":3,"y":4}]}`},
		{Text{X: 1, Y: 2, Content: "hi", FontSize: 16}, `{"type":"text","x":1,"y":2,"content":"hi","fontSize":16}`},
	}
	for _, tc := range cases {
		t.Run(string(tc.shape.Kind()), func(t *testing.T) {
			raw, err := EncodeShape(tc.shape)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))

			back, err := DecodeShape([]byte(tc.want))
			require.NoError(t, err)
			assert.Equal(t, tc.shape, back)
		})
	}
}

func TestEmptyPencilEncodesPointsArray(t *testing.T) {
	raw, err := EncodeShape(Pencil{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pencil","points":[]}`, string(raw))
}

func TestDecodeShapeRejectsUnknownType(t *testing.T) {
	_, err := DecodeShape([]byte(`{"type":"triangle","x":1}`))
	require.ErrorIs(t, err, ErrUnknownShape)

	_, err = DecodeShape([]byte(`not json`))
	require.Error(t, err)
}

func TestUnmarshalShapes(t *testing.T) {
	shapes, err := UnmarshalShapes([]byte(`[{"type":"rect","x":0,"y":0,"width":1,"height":1},{"type":"circle","centerX":0,"centerY":0,"radius":2}]`))
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.Equal(t, KindRect, shapes[0].Kind())
	assert.Equal(t, KindCircle, shapes[1].Kind())

	_, err = DecodeShapes([]json.RawMessage{json.RawMessage(`{"type":"rect"}`), json.RawMessage(`{"type":"blob"}`)})
	require.ErrorIs(t, err, ErrUnknownShape)
}

func TestNewTextTrims(t *testing.T) {
	txt, ok := NewText(3, 4, "  hello ")
	require.True(t, ok)
	assert.Equal(t, Text{X: 3, Y: 4, Content: "hello", FontSize: DefaultFontSize}, txt)

	_, ok = NewText(0, 0, " \t\n")
	assert.False(t, ok)
}

func TestTranslateEveryKind(t *testing.T) {
	shapes := []Shape{
		Rect{X: 1, Y: 1, Width: 2, Height: 2},
		Circle{CenterX: 1, CenterY: 1, Radius: 1},
		Line{X1: 1, Y1: 1, X2: 2, Y2: 2},
		Pencil{Points: []Point{{X: 1, Y: 1}, {X: 2, Y: 2}}},
		Text{X: 1, Y: 1, Content: "a", FontSize: 16},
	}
	want := []Shape{
		Rect{X: 11, Y: 6, Width: 2, Height: 2},
		Circle{CenterX: 11, CenterY: 6, Radius: 1},
		Line{X1: 11, Y1: 6, X2: 12, Y2: 7},
		Pencil{Points: []Point{{X: 11, Y: 6}, {X: 12, Y: 7}}},
		Text{X: 11, Y: 6, Content: "a", FontSize: 16},
	}
	for i, s := range shapes {
		assert.Equal(t, want[i], Translate(s, 10, 5))
	}
}

func TestCloneDoesNotShareStroke(t *testing.T) {
	p := Pencil{Points: []Point{{X: 1, Y: 1}}}
	c := Clone(p).(Pencil)
	c.Points[0].X = 99
	assert.Equal(t, 1.0, p.Points[0].X)
}

func TestSameShapesAndWithout(t *testing.T) {
	a := []Shape{Rect{Width: 1}, Circle{Radius: 2}, Line{X2: 3}}
	b := []Shape{Rect{Width: 1}, Circle{Radius: 2}, Line{X2: 3}}
	assert.True(t, SameShapes(a, b))
	assert.False(t, SameShapes(a, b[:2]))
	assert.False(t, SameShape(Rect{Width: 1}, Rect{Width: 2}))

	left := Without(a, map[int]bool{1: true})
	assert.Equal(t, []Shape{Rect{Width: 1}, Line{X2: 3}}, left)
}
