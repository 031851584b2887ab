package discomap

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Settings controls ring geometry, label layout and legend titles.
type Settings struct {
	Rings  RingSettings   `yaml:"rings" json:"rings"`
	Label  LabelSettings  `yaml:"label" json:"label"`
	Legend LegendSettings `yaml:"legend" json:"legend"`
}

// RingSettings holds radii and per-ring widths, in pixels.
type RingSettings struct {
	// ChromosomeInnerRadius is where the chromosome ring starts. Data rings
	// are stacked inward from here.
	ChromosomeInnerRadius float64 `yaml:"chromosomeInnerRadius" json:"chromosomeInnerRadius"`
	ChromosomeWidth       float64 `yaml:"chromosomeWidth" json:"chromosomeWidth"`

	// Label connector geometry, measured outward from the chromosome ring.
	LabelLinesInnerRadius float64 `yaml:"labelLinesInnerRadius" json:"labelLinesInnerRadius"`
	LabelsToLinesDistance float64 `yaml:"labelsToLinesDistance" json:"labelsToLinesDistance"`
	LabelsToLinesGap      float64 `yaml:"labelsToLinesGap" json:"labelsToLinesGap"`

	NonExonicWidth            float64 `yaml:"nonExonicWidth" json:"nonExonicWidth"`
	PointMutationWidth        float64 `yaml:"snvWidth" json:"snvWidth"`
	LossOfHeterozygosityWidth float64 `yaml:"lohWidth" json:"lohWidth"`
	CopyNumberWidth           float64 `yaml:"cnvWidth" json:"cnvWidth"`
	FusionWidth               float64 `yaml:"fusionWidth" json:"fusionWidth"`

	// ShowNonExonic routes intronic/UTR/noncoding point mutations to their
	// own ring. When false they are left out of the plot.
	ShowNonExonic bool `yaml:"showNonExonic" json:"showNonExonic"`
}

// LabelSettings tunes gene label placement.
type LabelSettings struct {
	FontSize float64 `yaml:"fontSize" json:"fontSize"`
	// MaxDeltaAngle is the largest forward shift, in radians, a colliding
	// label may receive.
	MaxDeltaAngle float64 `yaml:"maxDeltaAngle" json:"maxDeltaAngle"`
	// OverlapAngleFactor scales FontSize/circumference into the minimum gap
	// between adjacent labels.
	OverlapAngleFactor float64 `yaml:"overlapAngleFactor" json:"overlapAngleFactor"`
	// PrioritizeByGeneSet shows only labels for genes in the gene set.
	PrioritizeByGeneSet bool `yaml:"prioritizeByGeneSet" json:"prioritizeByGeneSet"`
}

// LegendSettings holds legend section titles.
type LegendSettings struct {
	NonExonicTitle            string `yaml:"nonExonicTitle" json:"nonExonicTitle"`
	PointMutationTitle        string `yaml:"snvTitle" json:"snvTitle"`
	LossOfHeterozygosityTitle string `yaml:"lohTitle" json:"lohTitle"`
	CopyNumberTitle           string `yaml:"cnvTitle" json:"cnvTitle"`
	FusionTitle               string `yaml:"fusionTitle" json:"fusionTitle"`
}

// DefaultSettings returns a sensible default configuration.
func DefaultSettings() Settings {
	return Settings{
		Rings: RingSettings{
			ChromosomeInnerRadius:     190,
			ChromosomeWidth:           20,
			LabelLinesInnerRadius:     10,
			LabelsToLinesDistance:     30,
			LabelsToLinesGap:          2,
			NonExonicWidth:            20,
			PointMutationWidth:        20,
			LossOfHeterozygosityWidth: 20,
			CopyNumberWidth:           30,
			FusionWidth:               20,
		},
		Label: LabelSettings{
			FontSize:      12,
			MaxDeltaAngle: 0.12,
			// 7 ≈ 2π plus a tenth of a line of spacing.
			OverlapAngleFactor: 7,
		},
		Legend: LegendSettings{
			NonExonicTitle:            "Non-exonic",
			PointMutationTitle:        "SNV/indel",
			LossOfHeterozygosityTitle: "LOH",
			CopyNumberTitle:           "CNV",
			FusionTitle:               "Fusion events",
		},
	}
}

// RingWidth returns the configured width of a data ring.
func (r RingSettings) RingWidth(c Category) float64 {
	switch c {
	case NonExonic:
		return r.NonExonicWidth
	case PointMutation:
		return r.PointMutationWidth
	case LossOfHeterozygosity:
		return r.LossOfHeterozygosityWidth
	case CopyNumber:
		return r.CopyNumberWidth
	case Fusion:
		return r.FusionWidth
	}
	return 0
}

// Title returns the legend title for a category.
func (l LegendSettings) Title(c Category) string {
	switch c {
	case NonExonic:
		return l.NonExonicTitle
	case PointMutation:
		return l.PointMutationTitle
	case LossOfHeterozygosity:
		return l.LossOfHeterozygosityTitle
	case CopyNumber:
		return l.CopyNumberTitle
	case Fusion:
		return l.FusionTitle
	}
	return ""
}

// Validate rejects settings that make ring stacking or label collision
// ill-defined.
func (s Settings) Validate() error {
	var errs []error
	if s.Rings.ChromosomeWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: chromosome ring width %v must be positive", ErrInvalidSettings, s.Rings.ChromosomeWidth))
	}
	stacked := 0.0
	for _, c := range ringOrder {
		w := s.Rings.RingWidth(c)
		if w <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s ring width %v must be positive", ErrInvalidSettings, c, w))
		}
		stacked += w
	}
	if s.Rings.ChromosomeInnerRadius <= stacked {
		errs = append(errs, fmt.Errorf("%w: chromosome inner radius %v cannot hold data rings totalling %v",
			ErrInvalidSettings, s.Rings.ChromosomeInnerRadius, stacked))
	}
	if s.Rings.LabelLinesInnerRadius < 0 || s.Rings.LabelsToLinesDistance < 0 || s.Rings.LabelsToLinesGap < 0 {
		errs = append(errs, fmt.Errorf("%w: label line distances must not be negative", ErrInvalidSettings))
	}
	if s.Label.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: font size %v must be positive", ErrInvalidSettings, s.Label.FontSize))
	}
	if s.Label.MaxDeltaAngle <= 0 {
		errs = append(errs, fmt.Errorf("%w: maxDeltaAngle %v must be positive", ErrInvalidSettings, s.Label.MaxDeltaAngle))
	}
	if s.Label.OverlapAngleFactor < 0 {
		errs = append(errs, fmt.Errorf("%w: overlapAngleFactor %v must not be negative", ErrInvalidSettings, s.Label.OverlapAngleFactor))
	}
	return errors.Join(errs...)
}

// LoadSettings decodes YAML settings on top of DefaultSettings and validates
// the result.
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
