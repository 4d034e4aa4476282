package ui

import "fyne.io/fyne/v2"

// TextMeasurer measures text with the theme font the board renders it in,
// so hit boxes line up with the glyphs on screen.
type TextMeasurer struct {
	Style fyne.TextStyle
}

func (m TextMeasurer) MeasureText(content string, size float64) float64 {
	if size <= 0 || content == "" {
		return 0
	}
	return float64(fyne.MeasureText(content, float32(size), m.Style).Width)
}
