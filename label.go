package discomap

import (
	"math"
	"sort"
)

// Text anchors for labels.
const (
	AnchorStart = "start"
	AnchorEnd   = "end"
)

// MutationTooltip describes one point mutation behind a label.
type MutationTooltip struct {
	Chr        string `json:"chr"`
	Position   int    `json:"position"`
	Class      string `json:"class"`
	ClassLabel string `json:"classLabel"`
	Color      string `json:"color"`
	Sample     string `json:"sample,omitempty"`
}

// FusionTooltip describes one fusion behind a label.
type FusionTooltip struct {
	GeneA      string `json:"geneA,omitempty"`
	ChrA       string `json:"chrA"`
	PosA       int    `json:"posA"`
	GeneB      string `json:"geneB,omitempty"`
	ChrB       string `json:"chrB"`
	PosB       int    `json:"posB"`
	Class      string `json:"class"`
	ClassLabel string `json:"classLabel"`
	Color      string `json:"color"`
	Sample     string `json:"sample,omitempty"`
}

// Label is the gene name placed on the label ring with a connector back to
// its source arc.
type Label struct {
	Gene        string  `json:"gene"`
	StartAngle  float64 `json:"startAngle"`
	EndAngle    float64 `json:"endAngle"`
	Angle       float64 `json:"angle"`
	SourceAngle float64 `json:"sourceAngle"` // midpoint of the source arc; fixed when moved

	InnerRadius float64 `json:"innerRadius"` // where the text starts
	OuterRadius float64 `json:"outerRadius"` // where the text ends
	TextAnchor  string  `json:"textAnchor"`
	Rotation    float64 `json:"rotation"` // degrees, SVG convention
	TextPoint   Point   `json:"textPoint"`
	Connector   []Point `json:"connector"`

	IsPrioritized bool `json:"isPrioritized"`
	KeptOverlap   bool `json:"keptOverlap,omitempty"` // overlaps its predecessor; shift exceeded maxDeltaAngle

	Mutations []MutationTooltip `json:"mutations,omitempty"`
	Fusions   []FusionTooltip   `json:"fusions,omitempty"`

	textWidth float64
}

// labelGeometry computes label radii and connector lines.
type labelGeometry struct {
	linesRadius float64 // connector start, just outside the chromosome ring
	distance    float64
	gap         float64
	measurer    TextMeasurer
}

func newLabelGeometry(rings RingSettings, measurer TextMeasurer) labelGeometry {
	return labelGeometry{
		linesRadius: rings.ChromosomeInnerRadius + rings.ChromosomeWidth + rings.LabelLinesInnerRadius,
		distance:    rings.LabelsToLinesDistance,
		gap:         rings.LabelsToLinesGap,
		measurer:    measurer,
	}
}

// textRadius is where label text begins.
func (g labelGeometry) textRadius() float64 {
	return g.linesRadius + g.distance + g.gap
}

// newLabel creates a label over the source arc [start, end).
func (g labelGeometry) newLabel(gene string, start, end float64, prioritized bool) Label {
	l := Label{
		Gene:          gene,
		StartAngle:    start,
		EndAngle:      end,
		Angle:         (start + end) / 2,
		SourceAngle:   (start + end) / 2,
		IsPrioritized: prioritized,
		textWidth:     g.measurer.MeasureText(gene),
	}
	g.place(&l)
	return l
}

// moved returns a copy of l shifted forward by delta. l itself is unchanged.
func (g labelGeometry) moved(l Label, delta float64) Label {
	m := l
	m.StartAngle += delta
	m.EndAngle += delta
	m.Angle += delta
	m.Connector = nil
	g.place(&m)
	return m
}

// place derives radii, anchor, rotation and connector from l's angles.
func (g labelGeometry) place(l *Label) {
	r0 := g.linesRadius
	r1 := r0 + g.distance/2
	r2 := r0 + g.distance

	l.InnerRadius = g.textRadius()
	l.OuterRadius = l.InnerRadius + l.textWidth
	l.TextPoint = polarToPoint(l.Angle, l.InnerRadius)
	l.Connector = []Point{
		polarToPoint(l.SourceAngle, r0),
		polarToPoint(l.SourceAngle, r1),
		polarToPoint(l.Angle, r2),
	}

	deg := l.Angle * 180 / math.Pi
	if l.Angle > math.Pi {
		l.TextAnchor = AnchorEnd
		l.Rotation = deg + 90
	} else {
		l.TextAnchor = AnchorStart
		l.Rotation = deg - 90
	}
}

// labelSet upserts labels keyed by gene symbol. The first occurrence fixes a
// label's position; later ones only add tooltip entries.
type labelSet struct {
	geometry labelGeometry
	genes    GeneSet
	labels   []Label
	index    map[string]int
}

func newLabelSet(geometry labelGeometry, genes GeneSet) *labelSet {
	return &labelSet{geometry: geometry, genes: genes, index: make(map[string]int)}
}

func (s *labelSet) upsert(gene string, start, end float64) *Label {
	if i, ok := s.index[gene]; ok {
		return &s.labels[i]
	}
	s.index[gene] = len(s.labels)
	s.labels = append(s.labels, s.geometry.newLabel(gene, start, end, s.genes.Contains(gene)))
	return &s.labels[len(s.labels)-1]
}

// addMutationArcs labels every point-mutation arc that names a gene.
func (s *labelSet) addMutationArcs(arcs []Arc) {
	for _, a := range arcs {
		if a.Gene == "" {
			continue
		}
		l := s.upsert(a.Gene, a.StartAngle, a.EndAngle)
		l.Mutations = append(l.Mutations, MutationTooltip{
			Chr:        a.Chr,
			Position:   a.Position,
			Class:      a.Class,
			ClassLabel: a.ClassLabel,
			Color:      a.Color,
			Sample:     a.Sample,
		})
	}
}

// addFusions labels both genes of every fusion, once when they match.
func (s *labelSet) addFusions(fusions []FusionPair, pixelAngle float64) {
	for _, f := range fusions {
		tip := FusionTooltip{
			GeneA:      f.Source.Gene,
			ChrA:       f.Source.Chr,
			PosA:       f.Source.Position,
			GeneB:      f.Target.Gene,
			ChrB:       f.Target.Chr,
			PosB:       f.Target.Position,
			Class:      f.Class,
			ClassLabel: f.ClassLabel,
			Color:      f.Color,
			Sample:     f.Sample,
		}
		ends := []FusionEnd{f.Source, f.Target}
		if sameGene(f.Source.Gene, f.Target.Gene) {
			ends = ends[:1]
		}
		for _, e := range ends {
			if e.Gene == "" {
				continue
			}
			l := s.upsert(e.Gene, e.Angle, e.Angle+pixelAngle)
			l.Fusions = append(l.Fusions, tip)
		}
	}
}

// sorted returns the labels ordered by start angle.
func (s *labelSet) sorted() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAngle < out[j].StartAngle })
	return out
}
