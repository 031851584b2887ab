package discomap

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer reports the rendered width of a label, in pixels.
type TextMeasurer interface {
	MeasureText(text string) float64
}

// FontMeasurer measures text with the Go Regular font. It is safe for
// concurrent use.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFontMeasurer creates a measurer for the given font size in pixels.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	face, err := goRegularFace(size)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face}, nil
}

// MeasureText returns the advance width of text.
func (m *FontMeasurer) MeasureText(text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(font.MeasureString(m.face, text)) / 64
}

func goRegularFace(size float64) (font.Face, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("discomap: parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("discomap: font face: %w", err)
	}
	return face, nil
}
