package discomap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ChromosomeSize is one row of a chrom.sizes table.
type ChromosomeSize struct {
	Name string
	Size int
}

// Chromosome is a chromosome with its angular interval on the plot.
type Chromosome struct {
	Name       string  `json:"name"`
	Size       int     `json:"size"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
}

// Reference holds chromosome order, sizes and angles for one genome.
// It is never modified after NewReference returns.
type Reference struct {
	Order       []string
	Chromosomes []Chromosome
	TotalSize   int
	TotalAngle  float64

	index map[string]int
}

// NewReference computes chromosome angles proportional to their sizes.
// A non-positive totalAngle means a full circle.
func NewReference(sizes []ChromosomeSize, totalAngle float64) (*Reference, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: no chromosomes", ErrInvalidReference)
	}
	if totalAngle <= 0 {
		totalAngle = FullCircle
	}

	ref := &Reference{
		Order:       make([]string, len(sizes)),
		Chromosomes: make([]Chromosome, len(sizes)),
		TotalAngle:  totalAngle,
		index:       make(map[string]int, len(sizes)),
	}
	for i, s := range sizes {
		if s.Size <= 0 {
			return nil, fmt.Errorf("%w: chromosome %q has size %d", ErrInvalidReference, s.Name, s.Size)
		}
		name := NormalizeChromosomeName(s.Name)
		if _, dup := ref.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate chromosome %q", ErrInvalidReference, s.Name)
		}
		ref.index[name] = i
		ref.Order[i] = name
		ref.TotalSize += s.Size
	}

	// Accumulate sizes rather than angles so rounding never opens a gap.
	cumulative := 0
	for i, s := range sizes {
		start := totalAngle * float64(cumulative) / float64(ref.TotalSize)
		cumulative += s.Size
		end := totalAngle * float64(cumulative) / float64(ref.TotalSize)
		if i == len(sizes)-1 {
			end = totalAngle
		}
		ref.Chromosomes[i] = Chromosome{
			Name:       ref.Order[i],
			Size:       s.Size,
			StartAngle: start,
			EndAngle:   end,
		}
	}
	return ref, nil
}

// Lookup finds a chromosome by name, tolerating a missing "chr" prefix.
func (r *Reference) Lookup(name string) (Chromosome, int, bool) {
	i, ok := r.index[NormalizeChromosomeName(name)]
	if !ok {
		return Chromosome{}, -1, false
	}
	return r.Chromosomes[i], i, true
}

// Angle maps a base-pair position on chr to a plot angle.
func (r *Reference) Angle(chr Chromosome, position int) float64 {
	return chr.StartAngle + (chr.EndAngle-chr.StartAngle)*float64(position)/float64(chr.Size)
}

// NormalizeChromosomeName adds a "chr" prefix when missing.
func NormalizeChromosomeName(in string) string {
	in = strings.TrimSpace(in)
	if strings.HasPrefix(in, "chr") {
		return in
	}
	if strings.HasPrefix(in, "CHR") || strings.HasPrefix(in, "Chr") {
		return "chr" + in[3:]
	}
	return "chr" + in
}

// ReadChromSizes parses a UCSC chrom.sizes table (name<TAB>size per line).
func ReadChromSizes(r io.Reader) ([]ChromosomeSize, error) {
	var sizes []ChromosomeSize
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: chrom.sizes line %d: expected name and size", ErrInvalidReference, line)
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: chrom.sizes line %d: %v", ErrInvalidReference, line, err)
		}
		sizes = append(sizes, ChromosomeSize{Name: fields[0], Size: size})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sizes, nil
}

// ReferenceByName returns a built-in genome reference ("hg38" or "hg19").
func ReferenceByName(genome string) (*Reference, error) {
	switch strings.ToLower(genome) {
	case "hg38", "grch38":
		return NewReference(hg38Sizes, FullCircle)
	case "hg19", "grch37":
		return NewReference(hg19Sizes, FullCircle)
	}
	return nil, fmt.Errorf("%w: unknown genome %q", ErrInvalidReference, genome)
}

// HG38 returns the GRCh38 reference over chr1-22, X and Y.
func HG38() *Reference {
	ref, err := NewReference(hg38Sizes, FullCircle)
	if err != nil {
		panic(err) // static table
	}
	return ref
}

// HG19 returns the GRCh37 reference over chr1-22, X and Y.
func HG19() *Reference {
	ref, err := NewReference(hg19Sizes, FullCircle)
	if err != nil {
		panic(err) // static table
	}
	return ref
}

var hg38Sizes = []ChromosomeSize{
	{"chr1", 248956422}, {"chr2", 242193529}, {"chr3", 198295559}, {"chr4", 190214555},
	{"chr5", 181538259}, {"chr6", 170805979}, {"chr7", 159345973}, {"chr8", 145138636},
	{"chr9", 138394717}, {"chr10", 133797422}, {"chr11", 135086622}, {"chr12", 133275309},
	{"chr13", 114364328}, {"chr14", 107043718}, {"chr15", 101991189}, {"chr16", 90338345},
	{"chr17", 83257441}, {"chr18", 80373285}, {"chr19", 58617616}, {"chr20", 64444167},
	{"chr21", 46709983}, {"chr22", 50818468}, {"chrX", 156040895}, {"chrY", 57227415},
}

var hg19Sizes = []ChromosomeSize{
	{"chr1", 249250621}, {"chr2", 243199373}, {"chr3", 198022430}, {"chr4", 191154276},
	{"chr5", 180915260}, {"chr6", 171115067}, {"chr7", 159138663}, {"chr8", 146364022},
	{"chr9", 141213431}, {"chr10", 135534747}, {"chr11", 135006516}, {"chr12", 133851895},
	{"chr13", 115169878}, {"chr14", 107349540}, {"chr15", 102531392}, {"chr16", 90354753},
	{"chr17", 81195210}, {"chr18", 78077248}, {"chr19", 59128983}, {"chr20", 63025520},
	{"chr21", 48129895}, {"chr22", 51304566}, {"chrX", 155270560}, {"chrY", 59373566},
}
