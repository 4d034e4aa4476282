package ui

import (
	"image/color"
	"testing"

	"RoomBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestTextMeasurerMatchesRenderedText(t *testing.T) {
	test.NewApp()
	const content = "Hello collaborative board"

	rendered := canvas.NewText(content, color.Black)
	rendered.TextSize = 16
	m := TextMeasurer{}
	assert.InDelta(t, float64(rendered.MinSize().Width), m.MeasureText(content, 16), 0.01)
	assert.Equal(t, float64(fyne.MeasureText(content, 16, fyne.TextStyle{}).Width), m.MeasureText(content, 16))

	assert.Zero(t, m.MeasureText("", 16))
	assert.Zero(t, m.MeasureText(content, 0))
}

func TestTextHitBoxUsesRenderedWidth(t *testing.T) {
	test.NewApp()
	m := TextMeasurer{}
	text := state.Text{X: 0, Y: 0, Content: "Hello collaborative board", FontSize: 16}
	w := m.MeasureText(text.Content, 16)

	assert.True(t, state.HitTest(state.Pt(w-0.5, 8), text, 1, m))
	assert.False(t, state.HitTest(state.Pt(w+0.5, 8), text, 1, m))
}
