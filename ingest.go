package discomap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

// ReadRecords decodes records from a JSON array or from an object holding
// the array under "mlst" or "records".
func ReadRecords(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	var records []Record
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("discomap: decode records: %w", err)
		}
		return records, nil
	}

	var wrapped struct {
		Mlst    []Record `json:"mlst"`
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("discomap: decode records: %w", err)
	}
	return append(wrapped.Mlst, wrapped.Records...), nil
}

// ReadSegments reads copy-number or LOH segments from GFF. The score column
// carries the segment value; optional "gene" and "sample" attributes are
// copied over. GFF starts are 1-based and are converted back on the way in.
func ReadSegments(r io.Reader, c Category) ([]Record, error) {
	var category string
	switch c {
	case CopyNumber:
		category = "cnv"
	case LossOfHeterozygosity:
		category = "loh"
	default:
		return nil, fmt.Errorf("discomap: %s is not a segment category", c)
	}

	var records []Record
	sc := featio.NewScanner(gff.NewReader(r))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		start, stop := f.FeatStart+1, f.FeatEnd
		rec := Record{
			Category: category,
			Chr:      f.SeqName,
			Start:    &start,
			Stop:     &stop,
			Gene:     attribute(f, "gene"),
			Sample:   attribute(f, "sample"),
		}
		if f.FeatScore != nil {
			v := *f.FeatScore
			rec.Value = &v
		}
		records = append(records, rec)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("discomap: read segments: %w", err)
	}
	return records, nil
}

func attribute(f *gff.Feature, tag string) string {
	return strings.Trim(f.FeatAttributes.Get(tag), `"`)
}

// ReadGeneSet reads one gene symbol per line. Blank lines and lines starting
// with '#' are ignored; only the first field of a line is used.
func ReadGeneSet(r io.Reader) (GeneSet, error) {
	var genes []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		genes = append(genes, strings.Fields(line)[0])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewGeneSet(genes...), nil
}
