package discomap

import (
	"fmt"
	"math"
)

// LabelRing holds the gene labels placed outside the chromosome ring.
type LabelRing struct {
	Band
	LabelLayout
	FontSize float64 `json:"fontSize"`
}

// Rings holds every ring of a plot. Data rings are nil when their category
// has no records.
type Rings struct {
	Chromosome           Ring      `json:"chromosome"`
	Labels               LabelRing `json:"labels"`
	NonExonic            *Ring     `json:"nonExonic,omitempty"`
	PointMutation        *Ring     `json:"snv,omitempty"`
	LossOfHeterozygosity *Ring     `json:"loh,omitempty"`
	CopyNumber           *Ring     `json:"cnv,omitempty"`
	Fusion               *Ring     `json:"fusion,omitempty"`
}

// Data returns the present data rings in allocation order.
func (r *Rings) Data() []*Ring {
	var rings []*Ring
	for _, c := range ringOrder {
		if ring := r.slot(c); *ring != nil {
			rings = append(rings, *ring)
		}
	}
	return rings
}

func (r *Rings) slot(c Category) **Ring {
	switch c {
	case NonExonic:
		return &r.NonExonic
	case PointMutation:
		return &r.PointMutation
	case LossOfHeterozygosity:
		return &r.LossOfHeterozygosity
	case CopyNumber:
		return &r.CopyNumber
	case Fusion:
		return &r.Fusion
	}
	panic(fmt.Sprintf("discomap: no ring slot for category %d", int(c)))
}

// ViewModel is everything a renderer needs to draw one plot.
type ViewModel struct {
	Rings       Rings        `json:"rings"`
	Legend      Legend       `json:"legend"`
	Fusions     []FusionPair `json:"fusions"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Radius returns the outermost radius used by any ring or label.
func (vm *ViewModel) Radius() float64 {
	r := math.Max(vm.Rings.Chromosome.OuterRadius, vm.Rings.Labels.OuterRadius)
	for _, l := range vm.Rings.Labels.Labels {
		r = math.Max(r, l.OuterRadius)
	}
	return r
}

// Builder turns raw records into view-models for one reference genome.
// A Builder is safe for concurrent use; Build holds no state between calls.
type Builder struct {
	ref      *Reference
	settings Settings
	classes  ClassTable
	genes    GeneSet
	measurer TextMeasurer
}

// Option configures a Builder.
type Option func(*Builder)

// WithClassTable replaces the default mutation class table.
func WithClassTable(t ClassTable) Option {
	return func(b *Builder) { b.classes = t }
}

// WithGeneSet sets the prioritized genes.
func WithGeneSet(genes GeneSet) Option {
	return func(b *Builder) { b.genes = genes }
}

// WithTextMeasurer replaces the Go Regular font measurer.
func WithTextMeasurer(m TextMeasurer) Option {
	return func(b *Builder) { b.measurer = m }
}

// NewBuilder validates settings and prepares a builder. Invalid settings are
// reported here, before any layout work.
func NewBuilder(ref *Reference, settings Settings, opts ...Option) (*Builder, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: nil reference", ErrInvalidReference)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		ref:      ref,
		settings: settings,
		classes:  DefaultClassTable(),
		genes:    GeneSet{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.measurer == nil {
		m, err := NewFontMeasurer(settings.Label.FontSize)
		if err != nil {
			return nil, err
		}
		b.measurer = m
	}
	return b, nil
}

// Settings returns the validated settings.
func (b *Builder) Settings() Settings { return b.settings }

// Reference returns the genome reference.
func (b *Builder) Reference() *Reference { return b.ref }

// Build lays out records. Records that cannot be placed are skipped and
// reported in ViewModel.Diagnostics.
func (b *Builder) Build(records []Record) *ViewModel {
	data, diags := normalizer{ref: b.ref, genes: b.genes}.normalize(records)
	p := partitionData(b.ref, b.settings.Rings, b.classes, data)
	mapper := arcMapper{ref: b.ref, classes: b.classes}

	vm := &ViewModel{Diagnostics: diags}
	chrBand := Band{
		InnerRadius: b.settings.Rings.ChromosomeInnerRadius,
		OuterRadius: b.settings.Rings.ChromosomeInnerRadius + b.settings.Rings.ChromosomeWidth,
	}
	vm.Rings.Chromosome = Ring{Category: Chromosomes, Band: chrBand, Arcs: mapper.chromosomeArcs(chrBand)}

	counts := make(map[Category]classCounts)
	for _, c := range ringOrder {
		band, ok := p.bands[c]
		if !ok {
			continue
		}
		ring := &Ring{Category: c, Band: band}
		switch c {
		case NonExonic:
			ring.Arcs, counts[c] = mapper.nonExonicArcs(p.buckets[c], band)
		case PointMutation:
			ring.Arcs, counts[c] = mapper.pointMutationArcs(p.bins, band, p.pixelAngle)
		case LossOfHeterozygosity, CopyNumber:
			ring.Arcs, counts[c] = mapper.segmentArcs(c, p.buckets[c], band)
		case Fusion:
			ring.Arcs, vm.Fusions, counts[c] = mapper.fusionArcs(p.buckets[c], band)
		}
		*vm.Rings.slot(c) = ring
	}

	geometry := newLabelGeometry(b.settings.Rings, b.measurer)
	labels := newLabelSet(geometry, b.genes)
	if ring := vm.Rings.PointMutation; ring != nil {
		labels.addMutationArcs(ring.Arcs)
	}
	if ring := vm.Rings.Fusion; ring != nil {
		labels.addFusions(vm.Fusions, 1/ring.InnerRadius)
	}
	sorted := labels.sorted()
	engine := newCollisionEngine(geometry, b.settings.Label, b.ref.TotalAngle)
	layout := engine.resolve(sorted, selectMode(b.settings.Label.PrioritizeByGeneSet, sorted))

	labelBand := Band{InnerRadius: geometry.linesRadius, OuterRadius: geometry.textRadius()}
	for _, l := range layout.Labels {
		labelBand.OuterRadius = math.Max(labelBand.OuterRadius, l.OuterRadius)
	}
	vm.Rings.Labels = LabelRing{Band: labelBand, LabelLayout: layout, FontSize: b.settings.Label.FontSize}

	vm.Legend = buildLegend(b.settings.Legend, b.classes, counts, p.ranges)
	return vm
}
