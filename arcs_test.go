package discomap

import (
	"math"
	"testing"
)

func TestPointMutationArcsStackWithinBin(t *testing.T) {
	m := arcMapper{ref: HG38(), classes: DefaultClassTable()}
	band := Band{InnerRadius: 100, OuterRadius: 110}
	bins := []Bin{{
		Angle: 0.5,
		Records: []Data{
			{Category: PointMutation, Gene: "A", Class: "M"},
			{Category: PointMutation, Gene: "B", Class: "F"},
		},
	}}
	arcs, counts := m.pointMutationArcs(bins, band, 0.01)
	if len(arcs) != 2 {
		t.Fatalf("expected 2 arcs, got %d", len(arcs))
	}
	want := []Band{{InnerRadius: 100, OuterRadius: 105}, {InnerRadius: 105, OuterRadius: 110}}
	for i, a := range arcs {
		if a.InnerRadius != want[i].InnerRadius || a.OuterRadius != want[i].OuterRadius {
			t.Errorf("arc %d: expected [%v, %v), got [%v, %v)", i, want[i].InnerRadius, want[i].OuterRadius, a.InnerRadius, a.OuterRadius)
		}
		if a.StartAngle != 0.5 || math.Abs(a.EndAngle-0.51) > 1e-12 {
			t.Errorf("arc %d: unexpected angles [%v, %v)", i, a.StartAngle, a.EndAngle)
		}
	}
	if arcs[0].Color != "#3987CC" || arcs[1].ClassLabel != "FRAMESHIFT" {
		t.Errorf("class lookup not applied: %+v", arcs)
	}
	if counts["M"] != 1 || counts["F"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestSegmentArcs(t *testing.T) {
	ref, err := NewReference([]ChromosomeSize{{"chr1", 1000}, {"chr2", 1000}}, FullCircle)
	if err != nil {
		t.Fatal(err)
	}
	m := arcMapper{ref: ref, classes: DefaultClassTable()}
	band := Band{InnerRadius: 100, OuterRadius: 130}
	data := []Data{
		{Category: CopyNumber, ChrIndex: 0, Start: 0, Stop: 500, Value: 0.7},
		{Category: CopyNumber, ChrIndex: 1, Start: 10, Stop: 10, Value: -1},
	}
	arcs, counts := m.segmentArcs(CopyNumber, data, band)
	if len(arcs) != 2 {
		t.Fatalf("expected 2 arcs, got %d", len(arcs))
	}
	if arcs[0].Class != ClassCNVGain || arcs[1].Class != ClassCNVLoss {
		t.Fatalf("expected gain then loss, got %s, %s", arcs[0].Class, arcs[1].Class)
	}
	if math.Abs(arcs[0].EndAngle-math.Pi/2) > 1e-12 {
		t.Errorf("expected first segment to end at π/2, got %v", arcs[0].EndAngle)
	}
	if w := arcs[1].EndAngle - arcs[1].StartAngle; math.Abs(w-1.0/100) > 1e-12 {
		t.Errorf("expected zero-length segment widened to one pixel, got %v", w)
	}
	if counts[ClassCNVGain] != 1 || counts[ClassCNVLoss] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestFusionArcs(t *testing.T) {
	ref := HG38()
	m := arcMapper{ref: ref, classes: DefaultClassTable()}
	band := Band{InnerRadius: 100, OuterRadius: 120}
	data := []Data{
		{Category: Fusion, Chr: "chr9", ChrIndex: 8, Position: 1000, Gene: "ABL1", ChrB: "chr22", ChrBIndex: 21, PosB: 2000, GeneB: "BCR", Class: ClassFusionRNA},
		{Category: Fusion, Chr: "chr1", ChrIndex: 0, Position: 10, Gene: "X", ChrB: "chr1", ChrBIndex: 0, PosB: 5000, GeneB: "X", Class: ClassSV},
	}
	arcs, fusions, counts := m.fusionArcs(data, band)
	if len(arcs) != 3 {
		t.Fatalf("expected 3 endpoint arcs, got %d", len(arcs))
	}
	if len(fusions) != 2 {
		t.Fatalf("expected 2 chords, got %d", len(fusions))
	}
	f := fusions[0]
	if f.Source.Gene != "ABL1" || f.Target.Gene != "BCR" || f.Target.Radius != band.InnerRadius {
		t.Errorf("unexpected fusion %+v", f)
	}
	want := polarToPoint(f.Target.Angle, band.InnerRadius)
	if f.Target.Point != want {
		t.Errorf("expected target point %+v, got %+v", want, f.Target.Point)
	}
	if counts[ClassFusionRNA] != 1 || counts[ClassSV] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestChromosomeArcsAlternateColors(t *testing.T) {
	m := arcMapper{ref: HG38(), classes: DefaultClassTable()}
	arcs := m.chromosomeArcs(Band{InnerRadius: 190, OuterRadius: 210})
	if len(arcs) != 24 {
		t.Fatalf("expected 24 arcs, got %d", len(arcs))
	}
	if arcs[0].Color == arcs[1].Color || arcs[0].Color != arcs[2].Color {
		t.Fatalf("colors do not alternate: %s %s %s", arcs[0].Color, arcs[1].Color, arcs[2].Color)
	}
}
