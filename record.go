package discomap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grailbio/base/log"
)

// Source datatype codes accepted in Record.Dt.
const (
	DtSNVIndel  = 1
	DtFusionRNA = 2
	DtCNV       = 4
	DtSV        = 5
	DtLOH       = 10
)

// Record is one raw genomic record as delivered by a data source. Several
// source shapes are accepted: single-position mutations, segments and
// two-ended fusions, discriminated by Dt or Category.
type Record struct {
	Dt       int    `json:"dt,omitempty"`
	Category string `json:"category,omitempty"`
	Sample   string `json:"sample,omitempty"`

	Chr      string   `json:"chr,omitempty"`
	Position *int     `json:"position,omitempty"`
	Start    *int     `json:"start,omitempty"`
	Stop     *int     `json:"stop,omitempty"`
	Gene     string   `json:"gene,omitempty"`
	Class    string   `json:"class,omitempty"`
	Value    *float64 `json:"value,omitempty"`

	ChrA  string `json:"chrA,omitempty"`
	PosA  *int   `json:"posA,omitempty"`
	GeneA string `json:"geneA,omitempty"`
	ChrB  string `json:"chrB,omitempty"`
	PosB  *int   `json:"posB,omitempty"`
	GeneB string `json:"geneB,omitempty"`
}

// UnmarshalJSON also accepts the "pos", "mclass" and "segmean" spellings.
func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var aux struct {
		plain
		Pos     *int     `json:"pos"`
		MClass  string   `json:"mclass"`
		SegMean *float64 `json:"segmean"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	if r.Position == nil {
		r.Position = aux.Pos
	}
	if r.Class == "" {
		r.Class = aux.MClass
	}
	if r.Value == nil {
		r.Value = aux.SegMean
	}
	return nil
}

// Data is a normalized genomic record. For fusions Chr, Position and Gene
// describe the A side and the B side lives in the *B fields. For segments
// Position equals Start. Data is never modified after normalization.
type Data struct {
	Category Category
	Sample   string

	Chr      string
	ChrIndex int
	Position int
	Start    int
	Stop     int
	Gene     string
	Class    string
	Value    float64

	ChrB      string
	ChrBIndex int
	PosB      int
	GeneB     string

	IsPrioritized bool
}

// GeneSet is a set of prioritized gene symbols.
type GeneSet map[string]struct{}

// NewGeneSet returns a set holding genes.
func NewGeneSet(genes ...string) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		if g = strings.TrimSpace(g); g != "" {
			s[strings.ToUpper(g)] = struct{}{}
		}
	}
	return s
}

// Contains reports whether gene is in the set.
func (s GeneSet) Contains(gene string) bool {
	if gene == "" {
		return false
	}
	_, ok := s[strings.ToUpper(gene)]
	return ok
}

// normalizer converts raw records into Data against one Reference.
type normalizer struct {
	ref   *Reference
	genes GeneSet
}

// normalize converts records, skipping and reporting the ones that cannot be
// placed on the reference.
func (n normalizer) normalize(records []Record) ([]Data, []Diagnostic) {
	data := make([]Data, 0, len(records))
	var diags []Diagnostic
	for i, r := range records {
		d, err := n.normalizeOne(r)
		if err != nil {
			log.Debug.Printf("discomap: skipping record %d: %v", i, err)
			diags = append(diags, Diagnostic{Index: i, Err: err})
			continue
		}
		data = append(data, d)
	}
	return data, diags
}

func (n normalizer) normalizeOne(r Record) (Data, error) {
	cat, err := recordCategory(r)
	if err != nil {
		return Data{}, err
	}
	d := Data{
		Category: cat,
		Sample:   r.Sample,
		Class:    r.Class,
	}
	if r.Value != nil {
		d.Value = *r.Value
	}

	switch cat {
	case PointMutation:
		if r.Chr == "" || r.Position == nil {
			return Data{}, fmt.Errorf("%w: point mutation needs chr and position", ErrMalformedRecord)
		}
		chr, idx, err := n.place(r.Chr, *r.Position)
		if err != nil {
			return Data{}, err
		}
		d.Chr, d.ChrIndex, d.Position = chr.Name, idx, *r.Position
		d.Start, d.Stop = d.Position, d.Position
		d.Gene = r.Gene
		d.IsPrioritized = n.genes.Contains(d.Gene)

	case CopyNumber, LossOfHeterozygosity:
		if r.Chr == "" || r.Start == nil || r.Stop == nil {
			return Data{}, fmt.Errorf("%w: segment needs chr, start and stop", ErrMalformedRecord)
		}
		if *r.Start > *r.Stop {
			return Data{}, fmt.Errorf("%w: segment start %d after stop %d", ErrMalformedRecord, *r.Start, *r.Stop)
		}
		chr, idx, err := n.place(r.Chr, *r.Start)
		if err != nil {
			return Data{}, err
		}
		if _, _, err := n.place(r.Chr, *r.Stop); err != nil {
			return Data{}, err
		}
		d.Chr, d.ChrIndex = chr.Name, idx
		d.Position, d.Start, d.Stop = *r.Start, *r.Start, *r.Stop
		d.Gene = r.Gene

	case Fusion:
		if r.ChrA == "" || r.PosA == nil || r.ChrB == "" || r.PosB == nil {
			return Data{}, fmt.Errorf("%w: fusion needs chrA, posA, chrB and posB", ErrMalformedRecord)
		}
		a, ai, err := n.place(r.ChrA, *r.PosA)
		if err != nil {
			return Data{}, err
		}
		b, bi, err := n.place(r.ChrB, *r.PosB)
		if err != nil {
			return Data{}, err
		}
		d.Chr, d.ChrIndex, d.Position, d.Gene = a.Name, ai, *r.PosA, r.GeneA
		d.Start, d.Stop = d.Position, d.Position
		d.ChrB, d.ChrBIndex, d.PosB, d.GeneB = b.Name, bi, *r.PosB, r.GeneB
		d.IsPrioritized = n.genes.Contains(d.Gene) || n.genes.Contains(d.GeneB)
		if d.Class == "" {
			d.Class = ClassFusionRNA
			if r.Dt == DtSV || strings.EqualFold(r.Category, "sv") {
				d.Class = ClassSV
			}
		}
	}
	return d, nil
}

// place resolves a chromosome and checks that position lies on it.
func (n normalizer) place(name string, position int) (Chromosome, int, error) {
	chr, idx, ok := n.ref.Lookup(name)
	if !ok {
		return Chromosome{}, -1, fmt.Errorf("%w: %q", ErrUnknownChromosome, name)
	}
	if position < 0 || position > chr.Size {
		return Chromosome{}, -1, fmt.Errorf("%w: position %d outside %s (size %d)", ErrMalformedRecord, position, chr.Name, chr.Size)
	}
	return chr, idx, nil
}

func recordCategory(r Record) (Category, error) {
	switch r.Dt {
	case DtSNVIndel:
		return PointMutation, nil
	case DtFusionRNA, DtSV:
		return Fusion, nil
	case DtCNV:
		return CopyNumber, nil
	case DtLOH:
		return LossOfHeterozygosity, nil
	case 0:
	default:
		return 0, fmt.Errorf("%w: unsupported dt %d", ErrMalformedRecord, r.Dt)
	}
	switch strings.ToLower(r.Category) {
	case "snvindel", "snv", "mutation":
		return PointMutation, nil
	case "fusion", "fusionrna", "sv":
		return Fusion, nil
	case "cnv":
		return CopyNumber, nil
	case "loh":
		return LossOfHeterozygosity, nil
	case "":
		return 0, fmt.Errorf("%w: missing dt or category", ErrMalformedRecord)
	}
	return 0, fmt.Errorf("%w: unsupported category %q", ErrMalformedRecord, r.Category)
}
