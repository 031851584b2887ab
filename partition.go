package discomap

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Band is the radial extent of a ring, in pixels.
type Band struct {
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`
}

// Width returns OuterRadius - InnerRadius.
func (b Band) Width() float64 { return b.OuterRadius - b.InnerRadius }

// ValueRange is the observed minimum and maximum of a gradient category.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bin groups point mutations that quantize to the same pixel angle.
type Bin struct {
	Angle   float64
	Records []Data
}

// partition is the result of sorting records into category buckets and
// allocating one ring per non-empty bucket.
type partition struct {
	buckets [len(ringOrder)][]Data
	bands   map[Category]Band
	ranges  map[Category]ValueRange
	bins    []Bin

	// pixelAngle is one pixel at the point-mutation ring's inner radius.
	pixelAngle float64
}

// allocation is the state threaded through ring allocation: the inner radius
// still free and the bands handed out so far, innermost last.
type allocation struct {
	cursor float64
	bands  []categoryBand
}

type categoryBand struct {
	category Category
	band     Band
}

// allocate returns the allocation after offering c a ring of width. An empty
// category leaves the cursor where it was so no gap opens.
func (a allocation) allocate(c Category, width float64, present bool) allocation {
	if !present {
		return a
	}
	bands := append(a.bands[:len(a.bands):len(a.bands)], categoryBand{
		category: c,
		band:     Band{InnerRadius: a.cursor - width, OuterRadius: a.cursor},
	})
	return allocation{cursor: a.cursor - width, bands: bands}
}

// sortData orders records by chromosome then position. The input slice is
// left untouched.
func sortData(data []Data) []Data {
	sorted := make([]Data, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ChrIndex != sorted[j].ChrIndex {
			return sorted[i].ChrIndex < sorted[j].ChrIndex
		}
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

// partitionData buckets sorted records by category and allocates ring bands
// inward from the chromosome ring.
func partitionData(ref *Reference, rings RingSettings, classes ClassTable, data []Data) partition {
	p := partition{
		bands:  make(map[Category]Band),
		ranges: make(map[Category]ValueRange),
	}
	for _, d := range sortData(data) {
		c := d.Category
		if c == PointMutation && classes.IsNonExonic(d.Class) {
			if !rings.ShowNonExonic {
				continue
			}
			c = NonExonic
		}
		p.buckets[c] = append(p.buckets[c], d)
	}

	alloc := allocation{cursor: rings.ChromosomeInnerRadius}
	for _, c := range ringOrder {
		alloc = alloc.allocate(c, rings.RingWidth(c), len(p.buckets[c]) > 0)
	}
	for _, cb := range alloc.bands {
		p.bands[cb.category] = cb.band
	}

	for _, c := range []Category{CopyNumber, LossOfHeterozygosity} {
		if r, ok := valueRange(p.buckets[c]); ok {
			p.ranges[c] = r
		}
	}

	if band, ok := p.bands[PointMutation]; ok {
		p.bins, p.pixelAngle = binPointMutations(ref, p.buckets[PointMutation], band.InnerRadius)
	}
	return p
}

func valueRange(data []Data) (ValueRange, bool) {
	if len(data) == 0 {
		return ValueRange{}, false
	}
	values := make([]float64, len(data))
	for i, d := range data {
		values[i] = d.Value
	}
	return ValueRange{Min: floats.Min(values), Max: floats.Max(values)}, true
}

// basesPerPixel returns how many base pairs fall in one pixel at radius.
func basesPerPixel(ref *Reference, radius float64) int {
	bp := int(math.Floor(float64(ref.TotalSize) / (ref.TotalAngle * radius)))
	if bp < 1 {
		return 1
	}
	return bp
}

// binPointMutations quantizes sorted records to one-pixel angle bins at
// innerRadius. Records sharing a chromosome and pixel index land in the same
// bin; bins are returned in ascending angle.
func binPointMutations(ref *Reference, sorted []Data, innerRadius float64) ([]Bin, float64) {
	bpPerPixel := basesPerPixel(ref, innerRadius)
	onePixelAngle := 1 / innerRadius

	var bins []Bin
	lastChr, lastAngle := -1, 0.0
	for _, d := range sorted {
		chr := ref.Chromosomes[d.ChrIndex]
		angle := chr.StartAngle + float64(d.Position/bpPerPixel)*onePixelAngle
		// bpPerPixel is floored, so the last pixels of a chromosome can land
		// past its end. Those records share the chromosome's final bin.
		if end := chr.EndAngle - onePixelAngle; angle > end {
			angle = math.Max(end, chr.StartAngle)
		}
		if d.ChrIndex == lastChr && angle == lastAngle {
			last := &bins[len(bins)-1]
			last.Records = append(last.Records, d)
			continue
		}
		bins = append(bins, Bin{Angle: angle, Records: []Data{d}})
		lastChr, lastAngle = d.ChrIndex, angle
	}
	return bins, onePixelAngle
}
