package discomap

import (
	"math"
	"testing"
)

func TestLabelPlacement(t *testing.T) {
	g := testGeometry()
	tests := []struct {
		angle    float64
		anchor   string
		rotation float64
	}{
		{math.Pi / 2, AnchorStart, 0},
		{3 * math.Pi / 2, AnchorEnd, 360},
		{math.Pi, AnchorStart, 90},
	}
	for _, tt := range tests {
		l := g.newLabel("TP53", tt.angle, tt.angle, false)
		if l.TextAnchor != tt.anchor {
			t.Errorf("angle %v: expected anchor %s, got %s", tt.angle, tt.anchor, l.TextAnchor)
		}
		if math.Abs(l.Rotation-tt.rotation) > 1e-9 {
			t.Errorf("angle %v: expected rotation %v, got %v", tt.angle, tt.rotation, l.Rotation)
		}
	}
}

func TestLabelRadiiAndConnector(t *testing.T) {
	g := testGeometry()
	l := g.newLabel("KRAS", 1, 1.02, false)
	if l.InnerRadius != 252 || l.OuterRadius != 272 {
		t.Fatalf("expected radii [252, 272], got [%v, %v]", l.InnerRadius, l.OuterRadius)
	}
	if len(l.Connector) != 3 {
		t.Fatalf("expected 3 connector points, got %d", len(l.Connector))
	}

	m := g.moved(l, 0.1)
	if m.SourceAngle != l.SourceAngle {
		t.Fatal("moving a label changed its source angle")
	}
	if m.Connector[0] != l.Connector[0] || m.Connector[1] != l.Connector[1] {
		t.Fatal("moving a label changed the connector's fixed end")
	}
	if want := polarToPoint(m.Angle, 250); m.Connector[2] != want {
		t.Fatalf("expected connector end %+v, got %+v", want, m.Connector[2])
	}
	if math.Abs(l.Angle-1.01) > 1e-12 {
		t.Fatalf("original label was modified: angle %v", l.Angle)
	}
}

func TestLabelSetUpsert(t *testing.T) {
	s := newLabelSet(testGeometry(), NewGeneSet("EGFR"))
	s.addMutationArcs([]Arc{
		{Gene: "EGFR", StartAngle: 2, EndAngle: 2.01, Chr: "chr7", Position: 5, Class: "M"},
		{Gene: "", StartAngle: 1, EndAngle: 1.01},
		{Gene: "EGFR", StartAngle: 2.5, EndAngle: 2.51, Chr: "chr7", Position: 9, Class: "F"},
		{Gene: "TP53", StartAngle: 1.5, EndAngle: 1.51, Chr: "chr17", Position: 7},
	})
	s.addFusions([]FusionPair{{
		Source: FusionEnd{Gene: "EGFR", Chr: "chr7", Angle: 3},
		Target: FusionEnd{Gene: "EGFR", Chr: "chr7", Angle: 3.1},
	}}, 0.01)

	labels := s.sorted()
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels[0].Gene != "TP53" || labels[1].Gene != "EGFR" {
		t.Fatalf("expected TP53 then EGFR, got %s then %s", labels[0].Gene, labels[1].Gene)
	}
	egfr := labels[1]
	if egfr.StartAngle != 2 {
		t.Errorf("first occurrence should fix the angle, got %v", egfr.StartAngle)
	}
	if len(egfr.Mutations) != 2 || len(egfr.Fusions) != 1 {
		t.Errorf("expected 2 mutation and 1 fusion tooltips, got %d and %d", len(egfr.Mutations), len(egfr.Fusions))
	}
	if !egfr.IsPrioritized || labels[0].IsPrioritized {
		t.Error("unexpected priority flags")
	}
}
