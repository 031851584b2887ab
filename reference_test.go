package discomap

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewReferenceAngles(t *testing.T) {
	ref, err := NewReference([]ChromosomeSize{{"chr1", 100}, {"2", 300}}, FullCircle)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name       string
		start, end float64
	}{
		{"chr1", 0, math.Pi / 2},
		{"chr2", math.Pi / 2, 2 * math.Pi},
	}
	for i, tt := range tests {
		chr := ref.Chromosomes[i]
		if chr.Name != tt.name {
			t.Errorf("chromosome %d: expected name %q, got %q", i, tt.name, chr.Name)
		}
		if math.Abs(chr.StartAngle-tt.start) > 1e-12 || math.Abs(chr.EndAngle-tt.end) > 1e-12 {
			t.Errorf("%s: expected [%v, %v), got [%v, %v)", tt.name, tt.start, tt.end, chr.StartAngle, chr.EndAngle)
		}
	}
	if ref.TotalSize != 400 {
		t.Fatalf("expected total size 400, got %d", ref.TotalSize)
	}
}

func TestReferencePartitionsCircle(t *testing.T) {
	for _, ref := range []*Reference{HG38(), HG19()} {
		if got := ref.Chromosomes[0].StartAngle; got != 0 {
			t.Fatalf("first chromosome starts at %v, expected 0", got)
		}
		for i := 1; i < len(ref.Chromosomes); i++ {
			if ref.Chromosomes[i].StartAngle != ref.Chromosomes[i-1].EndAngle {
				t.Fatalf("gap between %s and %s", ref.Chromosomes[i-1].Name, ref.Chromosomes[i].Name)
			}
		}
		if got := ref.Chromosomes[len(ref.Chromosomes)-1].EndAngle; got != ref.TotalAngle {
			t.Fatalf("last chromosome ends at %v, expected %v", got, ref.TotalAngle)
		}
		// Angular share matches size share.
		for _, chr := range ref.Chromosomes {
			want := ref.TotalAngle * float64(chr.Size) / float64(ref.TotalSize)
			if got := chr.EndAngle - chr.StartAngle; math.Abs(got-want) > 1e-9 {
				t.Errorf("%s: expected span %v, got %v", chr.Name, want, got)
			}
		}
	}
}

func TestReferencePartialCircle(t *testing.T) {
	ref, err := NewReference([]ChromosomeSize{{"chr1", 10}, {"chr2", 10}}, math.Pi)
	if err != nil {
		t.Fatal(err)
	}
	if got := ref.Chromosomes[1].EndAngle; got != math.Pi {
		t.Fatalf("expected end angle π, got %v", got)
	}
}

func TestReferenceLookup(t *testing.T) {
	ref := HG38()
	for _, name := range []string{"chr17", "17", "CHR17", "Chr17"} {
		chr, idx, ok := ref.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if chr.Name != "chr17" || idx != 16 {
			t.Errorf("Lookup(%q) = %s/%d, expected chr17/16", name, chr.Name, idx)
		}
	}
	if _, _, ok := ref.Lookup("chrZ"); ok {
		t.Fatal("expected chrZ to be unknown")
	}
}

func TestReferenceAngle(t *testing.T) {
	ref, err := NewReference([]ChromosomeSize{{"chr1", 100}, {"chr2", 300}}, FullCircle)
	if err != nil {
		t.Fatal(err)
	}
	chr, _, _ := ref.Lookup("chr2")
	want := math.Pi/2 + 1.5*math.Pi*0.5
	if got := ref.Angle(chr, 150); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNewReferenceErrors(t *testing.T) {
	tests := []struct {
		name  string
		sizes []ChromosomeSize
	}{
		{"empty", nil},
		{"zero size", []ChromosomeSize{{"chr1", 0}}},
		{"duplicate", []ChromosomeSize{{"chr1", 5}, {"1", 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReference(tt.sizes, FullCircle)
			if !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("expected ErrInvalidReference, got %v", err)
			}
		})
	}
}

func TestReadChromSizes(t *testing.T) {
	in := "# comment\nchr1\t1000\n\nchr2 500\n"
	sizes, err := ReadChromSizes(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(sizes) != 2 || sizes[0] != (ChromosomeSize{"chr1", 1000}) || sizes[1] != (ChromosomeSize{"chr2", 500}) {
		t.Fatalf("unexpected sizes %v", sizes)
	}

	if _, err := ReadChromSizes(strings.NewReader("chr1\tlots\n")); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestReferenceByName(t *testing.T) {
	ref, err := ReferenceByName("GRCh38")
	if err != nil {
		t.Fatal(err)
	}
	if len(ref.Chromosomes) != 24 {
		t.Fatalf("expected 24 chromosomes, got %d", len(ref.Chromosomes))
	}
	if _, err := ReferenceByName("mm10"); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}
