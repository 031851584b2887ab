package discomap

// Arc is one renderable annular segment.
type Arc struct {
	Category    Category `json:"category"`
	StartAngle  float64  `json:"startAngle"`
	EndAngle    float64  `json:"endAngle"`
	InnerRadius float64  `json:"innerRadius"`
	OuterRadius float64  `json:"outerRadius"`
	Color       string   `json:"color"`
	Class       string   `json:"class,omitempty"`
	ClassLabel  string   `json:"classLabel,omitempty"`
	Gene        string   `json:"gene,omitempty"`
	Chr         string   `json:"chr"`
	Position    int      `json:"position,omitempty"`
	Start       int      `json:"start,omitempty"`
	Stop        int      `json:"stop,omitempty"`
	Value       float64  `json:"value,omitempty"`
	Sample      string   `json:"sample,omitempty"`
}

// MidAngle returns the angle halfway between StartAngle and EndAngle.
func (a Arc) MidAngle() float64 { return (a.StartAngle + a.EndAngle) / 2 }

// Ring is a band of arcs belonging to one category.
type Ring struct {
	Category Category `json:"category"`
	Band
	Arcs []Arc `json:"arcs"`
}

// FusionEnd is one side of a fusion chord.
type FusionEnd struct {
	Gene     string  `json:"gene,omitempty"`
	Chr      string  `json:"chr"`
	Position int     `json:"position"`
	Angle    float64 `json:"angle"`
	Radius   float64 `json:"radius"`
	Point    Point   `json:"point"`
}

// FusionPair holds the two ends of a fusion or structural variant for chord
// rendering.
type FusionPair struct {
	Source        FusionEnd `json:"source"`
	Target        FusionEnd `json:"target"`
	Class         string    `json:"class"`
	ClassLabel    string    `json:"classLabel"`
	Color         string    `json:"color"`
	Sample        string    `json:"sample,omitempty"`
	IsPrioritized bool      `json:"isPrioritized"`
}

// classCounts tallies mutation class occurrences for the legend.
type classCounts map[string]int

// chromosomeColors alternate around the chromosome ring.
var chromosomeColors = [2]Color{
	{R: 0xd3, G: 0xd3, B: 0xd3},
	{R: 0xa9, G: 0xa9, B: 0xa9},
}

// arcMapper turns category buckets into arcs.
type arcMapper struct {
	ref     *Reference
	classes ClassTable
}

// chromosomeArcs returns one arc per chromosome.
func (m arcMapper) chromosomeArcs(band Band) []Arc {
	arcs := make([]Arc, len(m.ref.Chromosomes))
	for i, chr := range m.ref.Chromosomes {
		arcs[i] = Arc{
			StartAngle:  chr.StartAngle,
			EndAngle:    chr.EndAngle,
			InnerRadius: band.InnerRadius,
			OuterRadius: band.OuterRadius,
			Color:       chromosomeColors[i%2].Hex(),
			Chr:         chr.Name,
			Start:       0,
			Stop:        chr.Size,
		}
	}
	return arcs
}

// pointMutationArcs stacks the records of each bin in equal radial sub-bands
// so that every record in a bin stays visible.
func (m arcMapper) pointMutationArcs(bins []Bin, band Band, pixelAngle float64) ([]Arc, classCounts) {
	counts := classCounts{}
	var arcs []Arc
	for _, bin := range bins {
		step := band.Width() / float64(len(bin.Records))
		for i, d := range bin.Records {
			inner := band.InnerRadius + float64(i)*step
			outer := band.InnerRadius + float64(i+1)*step
			if i == len(bin.Records)-1 {
				outer = band.OuterRadius
			}
			arcs = append(arcs, m.recordArc(d, PointMutation, bin.Angle, bin.Angle+pixelAngle, Band{inner, outer}))
			counts[d.Class]++
		}
	}
	return arcs, counts
}

// nonExonicArcs places each record at its exact angle, one pixel wide.
func (m arcMapper) nonExonicArcs(data []Data, band Band) ([]Arc, classCounts) {
	pixelAngle := 1 / band.InnerRadius
	counts := classCounts{}
	arcs := make([]Arc, 0, len(data))
	for _, d := range data {
		start := m.ref.Angle(m.ref.Chromosomes[d.ChrIndex], d.Position)
		arcs = append(arcs, m.recordArc(d, NonExonic, start, start+pixelAngle, band))
		counts[d.Class]++
	}
	return arcs, counts
}

// segmentArcs maps copy-number or LOH segments from start to stop.
func (m arcMapper) segmentArcs(c Category, data []Data, band Band) ([]Arc, classCounts) {
	pixelAngle := 1 / band.InnerRadius
	counts := classCounts{}
	arcs := make([]Arc, 0, len(data))
	for _, d := range data {
		chr := m.ref.Chromosomes[d.ChrIndex]
		start := m.ref.Angle(chr, d.Start)
		end := m.ref.Angle(chr, d.Stop)
		if end-start < pixelAngle {
			end = start + pixelAngle
		}
		if d.Class == "" {
			d.Class = segmentClass(c, d.Value)
		}
		arcs = append(arcs, m.recordArc(d, c, start, end, band))
		counts[d.Class]++
	}
	return arcs, counts
}

func segmentClass(c Category, value float64) string {
	if c == LossOfHeterozygosity {
		return ClassLOH
	}
	if value < 0 {
		return ClassCNVLoss
	}
	return ClassCNVGain
}

// fusionArcs emits an endpoint arc per fusion side and a chord pair per
// record. The target endpoint is skipped when both sides name the same gene.
func (m arcMapper) fusionArcs(data []Data, band Band) ([]Arc, []FusionPair, classCounts) {
	pixelAngle := 1 / band.InnerRadius
	counts := classCounts{}
	arcs := make([]Arc, 0, 2*len(data))
	fusions := make([]FusionPair, 0, len(data))
	for _, d := range data {
		class := m.classes.Lookup(d.Class)
		sourceAngle := m.ref.Angle(m.ref.Chromosomes[d.ChrIndex], d.Position)
		targetAngle := m.ref.Angle(m.ref.Chromosomes[d.ChrBIndex], d.PosB)

		arcs = append(arcs, m.recordArc(d, Fusion, sourceAngle, sourceAngle+pixelAngle, band))
		if !sameGene(d.Gene, d.GeneB) {
			target := d
			target.Chr, target.ChrIndex, target.Position, target.Gene = d.ChrB, d.ChrBIndex, d.PosB, d.GeneB
			target.Start, target.Stop = d.PosB, d.PosB
			arcs = append(arcs, m.recordArc(target, Fusion, targetAngle, targetAngle+pixelAngle, band))
		}

		fusions = append(fusions, FusionPair{
			Source:        fusionEnd(d.Gene, d.Chr, d.Position, sourceAngle, band.InnerRadius),
			Target:        fusionEnd(d.GeneB, d.ChrB, d.PosB, targetAngle, band.InnerRadius),
			Class:         class.Code,
			ClassLabel:    class.Label,
			Color:         class.Color,
			Sample:        d.Sample,
			IsPrioritized: d.IsPrioritized,
		})
		counts[d.Class]++
	}
	return arcs, fusions, counts
}

func fusionEnd(gene, chr string, position int, angle, radius float64) FusionEnd {
	return FusionEnd{
		Gene:     gene,
		Chr:      chr,
		Position: position,
		Angle:    angle,
		Radius:   radius,
		Point:    polarToPoint(angle, radius),
	}
}

func sameGene(a, b string) bool {
	return a != "" && a == b
}

func (m arcMapper) recordArc(d Data, c Category, start, end float64, band Band) Arc {
	class := m.classes.Lookup(d.Class)
	return Arc{
		Category:    c,
		StartAngle:  start,
		EndAngle:    end,
		InnerRadius: band.InnerRadius,
		OuterRadius: band.OuterRadius,
		Color:       class.Color,
		Class:       d.Class,
		ClassLabel:  class.Label,
		Gene:        d.Gene,
		Chr:         d.Chr,
		Position:    d.Position,
		Start:       d.Start,
		Stop:        d.Stop,
		Value:       d.Value,
		Sample:      d.Sample,
	}
}
