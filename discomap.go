// Package discomap lays out circular "disco" genome mutation maps.
//
// Chromosomes are arranged around a circle and each category of genomic
// alteration (point mutations, fusions, copy-number change and
// loss-of-heterozygosity) gets its own concentric ring. Gene labels radiate
// outward from the chromosome ring and are spread apart so they do not
// collide. The package produces a ViewModel with absolute angle and radius
// geometry; drawing it is left to a renderer.
package discomap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FullCircle is the default angular span of a plot, in radians.
const FullCircle = 2 * math.Pi

// Category discriminates the alteration type of a normalized record or ring.
type Category int

const (
	NonExonic Category = iota
	PointMutation
	LossOfHeterozygosity
	CopyNumber
	Fusion

	// Chromosomes marks the chromosome ring itself.
	Chromosomes Category = -1
)

// ringOrder is the fixed ring allocation order. The first present category
// sits directly inside the chromosome ring and each later one inside the
// previous.
var ringOrder = [...]Category{NonExonic, PointMutation, LossOfHeterozygosity, CopyNumber, Fusion}

// String returns the short category name used in JSON and legends.
func (c Category) String() string {
	switch c {
	case NonExonic:
		return "nonExonic"
	case PointMutation:
		return "snv"
	case LossOfHeterozygosity:
		return "loh"
	case CopyNumber:
		return "cnv"
	case Fusion:
		return "fusion"
	case Chromosomes:
		return "chromosome"
	}
	return "unknown"
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Color represents an RGB color value.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as a CSS hex string.
func (c Color) Hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("discomap: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("discomap: invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Point is a position relative to the plot center, in pixels.
// Y grows downward, as on screen.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// polarToPoint converts a plot angle and radius to Cartesian coordinates.
// Angle 0 is 12 o'clock and angles grow clockwise.
func polarToPoint(angle, radius float64) Point {
	return Point{
		X: radius * math.Sin(angle),
		Y: -radius * math.Cos(angle),
	}
}
