package discomap

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
)

// svgWriter accumulates the first write error so drawing code stays linear.
type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *svgWriter) text(t string) {
	if s.err != nil {
		return
	}
	s.err = xml.EscapeText(s.w, []byte(t))
}

// WriteSVG writes the view-model as a standalone SVG document of the given
// pixel size, centered on the plot.
func WriteSVG(w io.Writer, vm *ViewModel, size int) error {
	s := &svgWriter{w: bufio.NewWriter(w)}
	r := vm.Radius() * 1.05
	s.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.2f %.2f %.2f %.2f">`+"\n",
		size, size, -r, -r, 2*r, 2*r)

	s.printf(`<g class="chromosomes">` + "\n")
	for _, a := range vm.Rings.Chromosome.Arcs {
		s.arc(a)
	}
	s.printf("</g>\n")

	for _, ring := range vm.Rings.Data() {
		s.printf(`<g class="%s">`+"\n", ring.Category)
		for _, a := range ring.Arcs {
			s.arc(a)
		}
		s.printf("</g>\n")
	}

	s.printf(`<g class="fusions" fill="none">` + "\n")
	for _, f := range vm.Fusions {
		s.printf(`<path d="M%.2f %.2f Q0 0 %.2f %.2f" stroke="%s" stroke-opacity="0.7"/>`+"\n",
			f.Source.Point.X, f.Source.Point.Y, f.Target.Point.X, f.Target.Point.Y, f.Color)
	}
	s.printf("</g>\n")

	labels := vm.Rings.Labels
	s.printf(`<g class="labels" font-family="Go, sans-serif" font-size="%.1f">`+"\n", labels.FontSize)
	for _, l := range labels.Labels {
		s.printf(`<polyline fill="none" stroke="#888" points="`)
		for i, p := range l.Connector {
			if i > 0 {
				s.printf(" ")
			}
			s.printf("%.2f,%.2f", p.X, p.Y)
		}
		s.printf(`"/>` + "\n")
		s.printf(`<text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" transform="rotate(%.2f %.2f %.2f)"`,
			l.TextPoint.X, l.TextPoint.Y, l.TextAnchor, l.Rotation, l.TextPoint.X, l.TextPoint.Y)
		if l.IsPrioritized {
			s.printf(` font-weight="bold"`)
		}
		s.printf(">")
		s.text(l.Gene)
		s.printf("</text>\n")
	}
	s.printf("</g>\n")

	s.legend(vm.Legend, -r, -r, labels.FontSize)
	s.printf("</svg>\n")

	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

// arc writes an annular sector path.
func (s *svgWriter) arc(a Arc) {
	largeArc := 0
	if a.EndAngle-a.StartAngle > math.Pi {
		largeArc = 1
	}
	o0 := polarToPoint(a.StartAngle, a.OuterRadius)
	o1 := polarToPoint(a.EndAngle, a.OuterRadius)
	i1 := polarToPoint(a.EndAngle, a.InnerRadius)
	i0 := polarToPoint(a.StartAngle, a.InnerRadius)
	s.printf(`<path d="M%.3f %.3f A%.3f %.3f 0 %d 1 %.3f %.3f L%.3f %.3f A%.3f %.3f 0 %d 0 %.3f %.3f Z" fill="%s">`,
		o0.X, o0.Y, a.OuterRadius, a.OuterRadius, largeArc, o1.X, o1.Y,
		i1.X, i1.Y, a.InnerRadius, a.InnerRadius, largeArc, i0.X, i0.Y, a.Color)
	s.printf("<title>")
	switch {
	case a.Gene != "":
		s.text(fmt.Sprintf("%s %s:%d %s", a.Gene, a.Chr, a.Position, a.ClassLabel))
	case a.ClassLabel != "":
		s.text(fmt.Sprintf("%s:%d-%d %s %g", a.Chr, a.Start, a.Stop, a.ClassLabel, a.Value))
	default:
		s.text(a.Chr)
	}
	s.printf("</title></path>\n")
}

func (s *svgWriter) legend(l Legend, x, y, fontSize float64) {
	if len(l.Sections) == 0 {
		return
	}
	line := fontSize * 1.4
	s.printf(`<g class="legend" font-family="Go, sans-serif" font-size="%.1f">`+"\n", fontSize)
	for _, section := range l.Sections {
		y += line
		s.printf(`<text x="%.2f" y="%.2f" font-weight="bold">`, x, y)
		title := section.Title
		if section.Range != nil {
			title = fmt.Sprintf("%s [%g, %g]", title, section.Range.Min, section.Range.Max)
		}
		s.text(title)
		s.printf("</text>\n")
		for _, item := range section.Items {
			y += line
			s.printf(`<rect x="%.2f" y="%.2f" width="%.1f" height="%.1f" fill="%s"/>`,
				x, y-fontSize*0.8, fontSize*0.8, fontSize*0.8, item.Color)
			s.printf(`<text x="%.2f" y="%.2f">`, x+fontSize, y)
			s.text(fmt.Sprintf("%s (%d)", item.Label, item.Count))
			s.printf("</text>\n")
		}
	}
	s.printf("</g>\n")
}
