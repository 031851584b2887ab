package discomap

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// fixedWidth measures every label as the same width.
type fixedWidth float64

func (w fixedWidth) MeasureText(string) float64 { return float64(w) }

func testGeometry() labelGeometry {
	return labelGeometry{linesRadius: 220, distance: 30, gap: 2, measurer: fixedWidth(20)}
}

func testEngine(overlapAngle, maxDeltaAngle float64) collisionEngine {
	return collisionEngine{
		geometry:      testGeometry(),
		overlapAngle:  overlapAngle,
		maxDeltaAngle: maxDeltaAngle,
		totalAngle:    FullCircle,
	}
}

func label(gene string, angle float64, prioritized bool) Label {
	return testGeometry().newLabel(gene, angle, angle, prioritized)
}

func angles(labels []Label) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		out[i] = l.Angle
	}
	return out
}

func TestOverlapAngleUsesLabelRingRadius(t *testing.T) {
	s := DefaultSettings()
	g := newLabelGeometry(s.Rings, fixedWidth(20))
	e := newCollisionEngine(g, s.Label, FullCircle)
	want := s.Label.OverlapAngleFactor * s.Label.FontSize / (2 * math.Pi * 220)
	if math.Abs(e.overlapAngle-want) > 1e-12 {
		t.Fatalf("expected overlap angle %v, got %v", want, e.overlapAngle)
	}

	vm := newTestBuilder(t, s).Build(nil)
	if vm.Rings.Labels.InnerRadius != g.linesRadius {
		t.Fatalf("label ring starts at %v, collision radius is %v", vm.Rings.Labels.InnerRadius, g.linesRadius)
	}
}

func TestForwardShift(t *testing.T) {
	e := testEngine(0.015, 0.05)
	in := []Label{label("A", 0, false), label("B", 0.01, false), label("C", 0.02, false)}
	layout := e.resolve(in, ModeAll)

	want := []float64{0, 0.015, 0.03}
	got := angles(layout.Labels)
	if len(got) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("label %d: expected angle %v, got %v", i, want[i], got[i])
		}
	}
	if len(layout.Moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(layout.Moves))
	}
	mv := layout.Moves[0]
	if mv.Gene != "B" || mv.Original.Angle != 0.01 || math.Abs(mv.Moved.Angle-0.015) > 1e-12 {
		t.Errorf("unexpected move %+v", mv)
	}
	if mv.Moved.SourceAngle != 0.01 {
		t.Errorf("moved label should keep its source angle, got %v", mv.Moved.SourceAngle)
	}
}

func TestForwardDropsTooFar(t *testing.T) {
	e := testEngine(0.015, 0.01)
	layout := e.resolve([]Label{label("A", 0, false), label("B", 0.001, false), label("C", 1, false)}, ModeAll)
	if len(layout.Labels) != 2 || layout.Labels[0].Gene != "A" || layout.Labels[1].Gene != "C" {
		t.Fatalf("expected A and C, got %v", layout.Labels)
	}
}

func TestForwardDropsPastEndOfCircle(t *testing.T) {
	e := testEngine(0.015, 0.05)
	end := FullCircle - 0.001
	layout := e.resolve([]Label{label("A", end-0.005, false), label("B", end, false)}, ModeAll)
	if len(layout.Labels) != 1 {
		t.Fatalf("expected B to be dropped, got %d labels", len(layout.Labels))
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	e := testEngine(0.015, 0.05)
	in := []Label{label("A", 0, true), label("B", 0.01, false), label("C", 0.02, true)}
	before := make([]Label, len(in))
	copy(before, in)
	for _, mode := range []CollisionMode{ModeAll, ModeMixed, ModeGeneSet} {
		e.resolve(in, mode)
		if !reflect.DeepEqual(in, before) {
			t.Fatalf("%s: input labels were modified", mode)
		}
	}
}

func TestGeneSetMode(t *testing.T) {
	e := testEngine(0.015, 0.005)
	in := []Label{label("A", 0, true), label("B", 0.0005, false), label("C", 0.001, true)}
	layout := e.resolve(in, ModeGeneSet)
	if len(layout.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(layout.Labels))
	}
	if layout.Labels[0].Gene != "A" || layout.Labels[1].Gene != "C" {
		t.Fatalf("expected A and C, got %s and %s", layout.Labels[0].Gene, layout.Labels[1].Gene)
	}
	if !layout.Labels[1].KeptOverlap || layout.Labels[1].Angle != 0.001 {
		t.Fatalf("expected C kept in place and flagged, got %+v", layout.Labels[1])
	}
}

func TestMixedMode(t *testing.T) {
	e := testEngine(0.015, 0.05)
	in := []Label{
		label("A", 0, false),
		label("B", 0.01, true),
		label("C", 0.012, false),
		label("D", 0.5, false),
	}
	layout := e.resolve(in, ModeMixed)
	if layout.Mode != ModeMixed {
		t.Fatalf("expected mixed mode, got %s", layout.Mode)
	}
	var genes []string
	for _, l := range layout.Labels {
		genes = append(genes, l.Gene)
	}
	if !reflect.DeepEqual(genes, []string{"B", "C", "D"}) {
		t.Fatalf("expected [B C D], got %v", genes)
	}
	if layout.Labels[0].Angle != 0.01 {
		t.Errorf("prioritized label moved to %v", layout.Labels[0].Angle)
	}
	if math.Abs(layout.Labels[1].Angle-0.025) > 1e-12 {
		t.Errorf("expected C shifted to 0.025, got %v", layout.Labels[1].Angle)
	}
}

func TestMixedModeKeepsPrioritizedApart(t *testing.T) {
	const overlap = 0.015
	e := testEngine(overlap, 0.05)
	g := testGeometry()
	rng := rand.New(rand.NewSource(1))

	var in []Label
	a := 0.0
	for i := 0; i < 200; i++ {
		a += rng.Float64() * 0.03
		in = append(in, g.newLabel(string(rune('A'+i%26))+string(rune('a'+i/26)), a, a+0.002, rng.Intn(5) == 0))
	}
	layout := e.resolve(in, ModeMixed)

	var pinned, others []Label
	for _, l := range layout.Labels {
		if l.IsPrioritized {
			pinned = append(pinned, l)
		} else {
			others = append(others, l)
		}
	}
	wantPinned := 0
	for _, l := range in {
		if l.IsPrioritized {
			wantPinned++
		}
	}
	if len(pinned) != wantPinned {
		t.Fatalf("expected %d prioritized labels, got %d", wantPinned, len(pinned))
	}
	for _, p := range pinned {
		if p.Angle != p.SourceAngle {
			t.Fatalf("prioritized label %s moved", p.Gene)
		}
		for _, o := range others {
			apart := o.EndAngle+overlap <= p.StartAngle+1e-9 || p.EndAngle+overlap <= o.StartAngle+1e-9
			if !apart {
				t.Fatalf("label %s [%v, %v) crowds prioritized %s [%v, %v)",
					o.Gene, o.StartAngle, o.EndAngle, p.Gene, p.StartAngle, p.EndAngle)
			}
		}
	}
	for i := 1; i < len(layout.Labels); i++ {
		if layout.Labels[i].StartAngle < layout.Labels[i-1].StartAngle {
			t.Fatalf("labels out of order at %d", i)
		}
	}
}

func TestSelectMode(t *testing.T) {
	plain := []Label{label("A", 0, false)}
	mixed := []Label{label("A", 0, false), label("B", 1, true)}
	tests := []struct {
		byGeneSet bool
		labels    []Label
		want      CollisionMode
	}{
		{false, plain, ModeAll},
		{false, mixed, ModeMixed},
		{true, plain, ModeGeneSet},
		{true, mixed, ModeGeneSet},
	}
	for _, tt := range tests {
		if got := selectMode(tt.byGeneSet, tt.labels); got != tt.want {
			t.Errorf("selectMode(%v, ...) = %s, want %s", tt.byGeneSet, got, tt.want)
		}
	}
}

func TestAdjacentLabelsApartOrFlagged(t *testing.T) {
	const overlap = 0.015
	e := testEngine(overlap, 0.05)
	g := testGeometry()
	rng := rand.New(rand.NewSource(7))

	var in []Label
	a := 0.0
	for i := 0; i < 300; i++ {
		a += rng.Float64() * 0.02
		in = append(in, g.newLabel(string(rune('A'+i%26))+string(rune('a'+i/26)), a, a+0.001, rng.Intn(4) == 0))
	}
	for _, mode := range []CollisionMode{ModeAll, ModeMixed, ModeGeneSet} {
		layout := e.resolve(in, mode)
		if len(layout.Labels) == 0 {
			t.Fatalf("%s: no labels kept", mode)
		}
		for i := 1; i < len(layout.Labels); i++ {
			prev, cur := layout.Labels[i-1], layout.Labels[i]
			if prev.EndAngle+overlap > cur.StartAngle+1e-9 && !cur.KeptOverlap {
				t.Fatalf("%s: %s at %v crowds %s ending at %v", mode, cur.Gene, cur.StartAngle, prev.Gene, prev.EndAngle)
			}
		}
	}
}
