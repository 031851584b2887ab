package discomap

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Mutation class codes that the arc mappers assign themselves.
const (
	ClassCNVGain   = "CNV_amp"
	ClassCNVLoss   = "CNV_loss"
	ClassLOH       = "CNV_loh"
	ClassFusionRNA = "Fuserna"
	ClassSV        = "SV"
)

// MutationClass is the display information for one class code.
type MutationClass struct {
	Code      string `yaml:"code"`
	Label     string `yaml:"label"`
	Color     string `yaml:"color"`
	NonExonic bool   `yaml:"nonExonic"`
}

// ClassTable is a read-only lookup from class code to display information.
// It is built once and shared by every mapper of a Builder.
type ClassTable struct {
	classes map[string]MutationClass
}

var unknownClassColor = Color{R: 0x99, G: 0x99, B: 0x99}

// NewClassTable builds a table; later entries replace earlier ones with the
// same code.
func NewClassTable(classes []MutationClass) ClassTable {
	t := ClassTable{classes: make(map[string]MutationClass, len(classes))}
	for _, c := range classes {
		if c.Label == "" {
			c.Label = c.Code
		}
		t.classes[c.Code] = c
	}
	return t
}

// Lookup returns the class for code. Unknown codes get a grey class labelled
// with the code itself.
func (t ClassTable) Lookup(code string) MutationClass {
	if c, ok := t.classes[code]; ok {
		return c
	}
	return MutationClass{Code: code, Label: code, Color: unknownClassColor.Hex()}
}

// IsNonExonic reports whether code belongs on the non-exonic ring.
func (t ClassTable) IsNonExonic(code string) bool {
	return t.classes[code].NonExonic
}

// Merge returns a copy of t with classes added or replaced.
func (t ClassTable) Merge(classes []MutationClass) ClassTable {
	all := make([]MutationClass, 0, len(t.classes)+len(classes))
	for _, c := range t.classes {
		all = append(all, c)
	}
	return NewClassTable(append(all, classes...))
}

// ReadClassTable decodes a YAML list of classes and merges it over the
// default table.
func ReadClassTable(r io.Reader) (ClassTable, error) {
	var classes []MutationClass
	if err := yaml.NewDecoder(r).Decode(&classes); err != nil && err != io.EOF {
		return ClassTable{}, fmt.Errorf("discomap: class table: %w", err)
	}
	for _, c := range classes {
		if c.Code == "" {
			return ClassTable{}, fmt.Errorf("discomap: class table: entry without code")
		}
		if _, err := ParseColor(c.Color); err != nil {
			return ClassTable{}, fmt.Errorf("discomap: class table: %s: %w", c.Code, err)
		}
	}
	return DefaultClassTable().Merge(classes), nil
}

// DefaultClassTable returns the standard mutation class colors.
func DefaultClassTable() ClassTable {
	return NewClassTable([]MutationClass{
		{Code: "M", Label: "MISSENSE", Color: "#3987CC"},
		{Code: "E", Label: "EXON", Color: "#bcbd22"},
		{Code: "F", Label: "FRAMESHIFT", Color: "#db3d3d"},
		{Code: "N", Label: "NONSENSE", Color: "#ff7f0e"},
		{Code: "S", Label: "SILENT", Color: "#2ca02c"},
		{Code: "D", Label: "PROTEINDEL", Color: "#7f7f7f"},
		{Code: "I", Label: "PROTEININS", Color: "#8c564b"},
		{Code: "ProteinAltering", Label: "PROTEINALTERING", Color: "#5345ba"},
		{Code: "P", Label: "SPLICE_REGION", Color: "#9467bd"},
		{Code: "L", Label: "SPLICE", Color: "#6633FF"},
		{Code: "StartLost", Label: "STARTLOST", Color: "#ffb7b3"},
		{Code: "StopLost", Label: "STOPLOST", Color: "#ff31e8"},
		{Code: "Intron", Label: "INTRON", Color: "#656565", NonExonic: true},
		{Code: "Utr3", Label: "UTR_3", Color: "#998199", NonExonic: true},
		{Code: "Utr5", Label: "UTR_5", Color: "#819981", NonExonic: true},
		{Code: "noncoding", Label: "NONCODING", Color: "#000000", NonExonic: true},
		{Code: ClassCNVGain, Label: "Copy number gain", Color: "#d6604d"},
		{Code: ClassCNVLoss, Label: "Copy number loss", Color: "#4393c3"},
		{Code: ClassLOH, Label: "LOH", Color: "#12EDFC"},
		{Code: ClassFusionRNA, Label: "Fusion transcript", Color: "#545454"},
		{Code: ClassSV, Label: "Structural variation", Color: "#858585"},
	})
}
