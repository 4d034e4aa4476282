package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownShape is returned when a shape's type tag is not one of the known kinds.
var ErrUnknownShape = errors.New("unknown shape type")

type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindLine   Kind = "line"
	KindPencil Kind = "pencil"
	KindText   Kind = "text"
)

// Kinds lists every shape variant.
func Kinds() []Kind {
	return []Kind{KindRect, KindCircle, KindLine, KindPencil, KindText}
}

// DefaultFontSize is the size every text shape is created with.
const DefaultFontSize = 16

// Shape is the closed set of drawable shapes. Only the variants in this
// package implement it.
type Shape interface {
	Kind() Kind
	shape()
}

// Rect keeps the signed width and height of the drag that produced it.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Circle struct {
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
	Radius  float64 `json:"radius"`
}

type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type Pencil struct {
	Points []Point `json:"points"`
}

type Text struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
}

func (Rect) Kind() Kind   { return KindRect }
func (Circle) Kind() Kind { return KindCircle }
func (Line) Kind() Kind   { return KindLine }
func (Pencil) Kind() Kind { return KindPencil }
func (Text) Kind() Kind   { return KindText }

func (Rect) shape()   {}
func (Circle) shape() {}
func (Line) shape()   {}
func (Pencil) shape() {}
func (Text) shape()   {}

// NewText trims content and reports false when nothing is left to draw.
func NewText(x, y float64, content string) (Text, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Text{}, false
	}
	return Text{X: x, Y: y, Content: content, FontSize: DefaultFontSize}, true
}

type (
	rectJSON   Rect
	circleJSON Circle
	lineJSON   Line
	pencilJSON Pencil
	textJSON   Text
)

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		rectJSON
	}{KindRect, rectJSON(r)})
}

func (c Circle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		circleJSON
	}{KindCircle, circleJSON(c)})
}

func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		lineJSON
	}{KindLine, lineJSON(l)})
}

func (p Pencil) MarshalJSON() ([]byte, error) {
	if p.Points == nil {
		p.Points = []Point{}
	}
	return json.Marshal(struct {
		Type Kind `json:"type"`
		pencilJSON
	}{KindPencil, pencilJSON(p)})
}

func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type Kind `json:"type"`
		textJSON
	}{KindText, textJSON(t)})
}

// DecodeShape parses one tagged shape object.
func DecodeShape(data []byte) (Shape, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}
	var (
		s   Shape
		err error
	)
	switch tag.Type {
	case KindRect:
		var v rectJSON
		err = json.Unmarshal(data, &v)
		s = Rect(v)
	case KindCircle:
		var v circleJSON
		err = json.Unmarshal(data, &v)
		s = Circle(v)
	case KindLine:
		var v lineJSON
		err = json.Unmarshal(data, &v)
		s = Line(v)
	case KindPencil:
		var v pencilJSON
		err = json.Unmarshal(data, &v)
		s = Pencil(v)
	case KindText:
		var v textJSON
		err = json.Unmarshal(data, &v)
		s = Text(v)
	default:
		return nil, fmt.Errorf("decode shape: %w: %q", ErrUnknownShape, tag.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", tag.Type, err)
	}
	return s, nil
}

// DecodeShapes decodes a list of raw shape objects, failing on the first bad one.
func DecodeShapes(raw []json.RawMessage) ([]Shape, error) {
	shapes := make([]Shape, 0, len(raw))
	for i, r := range raw {
		s, err := DecodeShape(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// EncodeShape returns the canonical wire form of s.
func EncodeShape(s Shape) (json.RawMessage, error) {
	return json.Marshal(s)
}

func EncodeShapes(shapes []Shape) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, 0, len(shapes))
	for _, s := range shapes {
		b, err := EncodeShape(s)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return raw, nil
}

// UnmarshalShapes parses a JSON array of shapes, e.g. a saved board file.
func UnmarshalShapes(data []byte) ([]Shape, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode shape list: %w", err)
	}
	return DecodeShapes(raw)
}

// SameShape compares two shapes by their wire encoding.
func SameShape(a, b Shape) bool {
	ea, errA := EncodeShape(a)
	eb, errB := EncodeShape(b)
	return errA == nil && errB == nil && bytes.Equal(ea, eb)
}

func SameShapes(a, b []Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !SameShape(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of s that shares no memory with it.
func Clone(s Shape) Shape {
	if p, ok := s.(Pencil); ok {
		pts := make([]Point, len(p.Points))
		copy(pts, p.Points)
		return Pencil{Points: pts}
	}
	return s
}

func CloneAll(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = Clone(s)
	}
	return out
}

// Translate moves s by (dx, dy) in world space and returns the moved copy.
func Translate(s Shape, dx, dy float64) Shape {
	switch s := s.(type) {
	case Rect:
		s.X += dx
		s.Y += dy
		return s
	case Circle:
		s.CenterX += dx
		s.CenterY += dy
		return s
	case Line:
		return Line{X1: s.X1 + dx, Y1: s.Y1 + dy, X2: s.X2 + dx, Y2: s.Y2 + dy}
	case Pencil:
		pts := make([]Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = Point{X: p.X + dx, Y: p.Y + dy}
		}
		return Pencil{Points: pts}
	case Text:
		s.X += dx
		s.Y += dy
		return s
	}
	return s
}

// Without returns shapes minus the entries whose index is in drop.
func Without(shapes []Shape, drop map[int]bool) []Shape {
	out := make([]Shape, 0, len(shapes))
	for i, s := range shapes {
		if !drop[i] {
			out = append(out, s)
		}
	}
	return out
}
