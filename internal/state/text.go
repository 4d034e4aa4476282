package state

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer returns the advance width of content rendered at size.
type TextMeasurer interface {
	MeasureText(content string, size float64) float64
}

// referenceSize is the size glyph advances are measured at before scaling.
const referenceSize = 64

// FontMeasurer measures text with the Go Regular font. Advances are measured
// unhinted at a reference size and scaled linearly.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

func NewFontMeasurer() (*FontMeasurer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: referenceSize, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &FontMeasurer{face: face}, nil
}

func (m *FontMeasurer) MeasureText(content string, size float64) float64 {
	if size <= 0 || content == "" {
		return 0
	}
	m.mu.Lock()
	adv := font.MeasureString(m.face, content)
	m.mu.Unlock()
	return float64(adv) / 64 * size / referenceSize
}

var (
	defaultMeasurer     TextMeasurer
	defaultMeasurerOnce sync.Once
)

// DefaultMeasurer returns a shared FontMeasurer, falling back to a fixed
// per-rune estimate if the embedded font cannot be loaded.
func DefaultMeasurer() TextMeasurer {
	defaultMeasurerOnce.Do(func() {
		m, err := NewFontMeasurer()
		if err != nil {
			defaultMeasurer = EstimateMeasurer{}
			return
		}
		defaultMeasurer = m
	})
	return defaultMeasurer
}

// EstimateMeasurer assumes every rune is 0.6em wide.
type EstimateMeasurer struct{}

func (EstimateMeasurer) MeasureText(content string, size float64) float64 {
	return float64(len([]rune(content))) * size * 0.6
}

func measure(m TextMeasurer, content string, size float64) float64 {
	if m == nil {
		m = DefaultMeasurer()
	}
	return m.MeasureText(content, size)
}
