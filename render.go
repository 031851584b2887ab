package discomap

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Background color for rendered plots.
var bgColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var (
	lineColor  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	textColor  = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	chordAlpha = uint8(0xb0)
)

// canvas maps view-model coordinates onto an image.
type canvas struct {
	img    *image.RGBA
	cx, cy float64
	scale  float64 // image pixels per view-model pixel
}

func newCanvas(img *image.RGBA, radius float64) canvas {
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	scale := 1.0
	if radius > 0 {
		scale = math.Min(w, h) / 2 * 0.95 / radius // 5% margin
	}
	return canvas{img: img, cx: w / 2, cy: h / 2, scale: scale}
}

// ScaleToCanvas converts a view-model point to image pixels for a plot of
// the given outer radius drawn on a width x height canvas.
func ScaleToCanvas(p Point, radius, width, height float64) (float64, float64) {
	scale := math.Min(width, height) / 2 * 0.95 / radius
	return width/2 + p.X*scale, height/2 + p.Y*scale
}

func (c canvas) toPixel(p Point) (float64, float64) {
	return c.cx + p.X*c.scale, c.cy + p.Y*c.scale
}

// RenderImage rasterizes a view-model: arcs, fusion chords, label
// connectors and horizontal label text.
func RenderImage(vm *ViewModel, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	c := newCanvas(img, vm.Radius())

	c.fillArcs(vm.Rings.Chromosome.Arcs)
	for _, ring := range vm.Rings.Data() {
		c.fillArcs(ring.Arcs)
	}
	for _, f := range vm.Fusions {
		col := parseRGBA(f.Color)
		col.A = chordAlpha
		c.drawChord(f.Source.Point, f.Target.Point, col)
	}

	labels := vm.Rings.Labels
	for _, l := range labels.Labels {
		for i := 1; i < len(l.Connector); i++ {
			c.drawLine(l.Connector[i-1], l.Connector[i], lineColor)
		}
	}
	if len(labels.Labels) > 0 && labels.FontSize > 0 {
		face, err := goRegularFace(labels.FontSize * c.scale)
		if err == nil {
			for _, l := range labels.Labels {
				c.drawLabel(face, l)
			}
		}
	}
	return img
}

func (c canvas) fillArcs(arcs []Arc) {
	for _, a := range arcs {
		c.fillSector(a, parseRGBA(a.Color))
	}
}

// fillSector paints the pixels whose centers fall inside an annular sector.
// Sectors narrower than a pixel are widened so they stay visible.
func (c canvas) fillSector(a Arc, col color.RGBA) {
	bounds := c.img.Bounds()
	inner := a.InnerRadius * c.scale
	outer := a.OuterRadius * c.scale
	start, end := a.StartAngle, a.EndAngle
	if minAngle := 1 / outer; end-start < minAngle {
		mid := (start + end) / 2
		start, end = mid-minAngle/2, mid+minAngle/2
	}

	minX, minY, maxX, maxY := sectorBounds(c.cx, c.cy, inner, outer, start, end)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		dy := float64(y) + 0.5 - c.cy
		for x := int(math.Floor(minX)); x <= int(math.Ceil(maxX)); x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - c.cx
			r := math.Hypot(dx, dy)
			if r < inner || r >= outer {
				continue
			}
			if angleWithin(pixelAngle(dx, dy), start, end) {
				blend(c.img, x, y, col)
			}
		}
	}
}

// pixelAngle returns the plot angle (0 at 12 o'clock, clockwise) of an
// offset from the center.
func pixelAngle(dx, dy float64) float64 {
	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func angleWithin(a, start, end float64) bool {
	for _, v := range [...]float64{a, a + 2*math.Pi, a - 2*math.Pi} {
		if v >= start && v < end {
			return true
		}
	}
	return false
}

// sectorBounds returns the bounding box of an annular sector in pixels.
func sectorBounds(cx, cy, inner, outer, start, end float64) (minX, minY, maxX, maxY float64) {
	if end-start >= math.Pi/2 {
		return cx - outer, cy - outer, cx + outer, cy + outer
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	add := func(angle, r float64) {
		p := polarToPoint(angle, r)
		minX, maxX = math.Min(minX, cx+p.X), math.Max(maxX, cx+p.X)
		minY, maxY = math.Min(minY, cy+p.Y), math.Max(maxY, cy+p.Y)
	}
	for _, r := range [...]float64{inner, outer} {
		add(start, r)
		add(end, r)
	}
	// Include any compass point the sector sweeps across.
	for k := math.Ceil(start / (math.Pi / 2)); k*math.Pi/2 <= end; k++ {
		add(k*math.Pi/2, outer)
	}
	return minX, minY, maxX, maxY
}

// drawLine draws a one-pixel line between two view-model points.
func (c canvas) drawLine(a, b Point, col color.RGBA) {
	x0, y0 := c.toPixel(a)
	x1, y1 := c.toPixel(b)
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		blend(c.img, int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), col)
	}
}

// drawChord draws a quadratic Bézier between two fusion ends, bending
// through the plot center.
func (c canvas) drawChord(a, b Point, col color.RGBA) {
	const segments = 64
	prev := a
	for i := 1; i <= segments; i++ {
		t := float64(i) / segments
		u := 1 - t
		p := Point{
			X: u*u*a.X + t*t*b.X,
			Y: u*u*a.Y + t*t*b.Y,
		}
		c.drawLine(prev, p, col)
		prev = p
	}
}

func (c canvas) drawLabel(face font.Face, l Label) {
	x, y := c.toPixel(l.TextPoint)
	width := font.MeasureString(face, l.Gene).Ceil()
	if l.TextAnchor == AnchorEnd {
		x -= float64(width)
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x)),
			Y: fixed.I(int(y) + face.Metrics().Ascent.Ceil()/2),
		},
	}
	d.DrawString(l.Gene)
}

// blend composites col over the pixel at (x, y).
func blend(img *image.RGBA, x, y int, col color.RGBA) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	if col.A == 0xff {
		img.SetRGBA(x, y, col)
		return
	}
	dst := img.RGBAAt(x, y)
	a := uint32(col.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(0xff-a)) / 0xff)
	}
	img.SetRGBA(x, y, color.RGBA{R: mix(col.R, dst.R), G: mix(col.G, dst.G), B: mix(col.B, dst.B), A: 0xff})
}

func parseRGBA(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		c = unknownClassColor
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
