package discomap

import (
	"math"

	drawille "github.com/exrook/drawille-go"
)

// Preview draws a braille-dot sketch of the plot, cols terminal cells wide.
// Even-numbered chromosomes are filled and odd ones outlined; data arcs are
// filled and fusion chords are traced. Labels are not drawn.
func Preview(vm *ViewModel, cols int) string {
	if cols < 4 {
		cols = 4
	}
	size := cols * 2 // braille cells are two dots wide
	c := drawille.NewCanvas()
	scale := float64(size) / 2 / vm.Radius()
	center := float64(size) / 2

	set := func(p Point) {
		c.Set(int(center+p.X*scale), int(center+p.Y*scale))
	}

	for y := 0; y < size; y++ {
		dy := float64(y) + 0.5 - center
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			r := math.Hypot(dx, dy) / scale
			a := pixelAngle(dx, dy)
			if previewHit(vm, r, a, 1/scale) {
				c.Set(x, y)
			}
		}
	}

	for _, f := range vm.Fusions {
		for i := 0; i <= 32; i++ {
			t := float64(i) / 32
			u := 1 - t
			set(Point{
				X: u*u*f.Source.Point.X + t*t*f.Target.Point.X,
				Y: u*u*f.Source.Point.Y + t*t*f.Target.Point.Y,
			})
		}
	}
	return c.String()
}

// previewHit reports whether the dot at radius r and angle a is inked.
// dot is the size of one dot in view-model pixels.
func previewHit(vm *ViewModel, r, a, dot float64) bool {
	chr := vm.Rings.Chromosome
	if r >= chr.InnerRadius && r < chr.OuterRadius {
		for i, arc := range chr.Arcs {
			if !angleWithin(a, arc.StartAngle, arc.EndAngle) {
				continue
			}
			if i%2 == 0 {
				return true
			}
			return r < chr.InnerRadius+dot || r >= chr.OuterRadius-dot
		}
	}
	for _, ring := range vm.Rings.Data() {
		if r < ring.InnerRadius || r >= ring.OuterRadius {
			continue
		}
		for _, arc := range ring.Arcs {
			if r < arc.InnerRadius || r >= arc.OuterRadius {
				continue
			}
			// Widen arcs to one dot so single mutations show up.
			half := math.Max(0, dot/r-(arc.EndAngle-arc.StartAngle)) / 2
			if angleWithin(a, arc.StartAngle-half, arc.EndAngle+half) {
				return true
			}
		}
	}
	return false
}
