package discomap

import "sort"

// LegendItem is one mutation class with its occurrence count.
type LegendItem struct {
	Class string `json:"class"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// LegendSection describes one drawn ring.
type LegendSection struct {
	Category Category     `json:"category"`
	Title    string       `json:"title"`
	Items    []LegendItem `json:"items"`
	// Range is set for gradient-scaled categories (CNV, LOH).
	Range *ValueRange `json:"range,omitempty"`
}

// Legend lists a section per present data ring, in ring allocation order.
type Legend struct {
	Sections []LegendSection `json:"sections"`
}

// Section returns the section for c, if that ring is present.
func (l Legend) Section(c Category) (LegendSection, bool) {
	for _, s := range l.Sections {
		if s.Category == c {
			return s, true
		}
	}
	return LegendSection{}, false
}

func buildLegend(titles LegendSettings, classes ClassTable, counts map[Category]classCounts, ranges map[Category]ValueRange) Legend {
	var legend Legend
	for _, c := range ringOrder {
		cc, ok := counts[c]
		if !ok {
			continue
		}
		section := LegendSection{Category: c, Title: titles.Title(c)}
		for code, n := range cc {
			class := classes.Lookup(code)
			section.Items = append(section.Items, LegendItem{
				Class: code,
				Label: class.Label,
				Color: class.Color,
				Count: n,
			})
		}
		sort.Slice(section.Items, func(i, j int) bool {
			a, b := section.Items[i], section.Items[j]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			return a.Class < b.Class
		})
		if r, ok := ranges[c]; ok {
			section.Range = &r
		}
		legend.Sections = append(legend.Sections, section)
	}
	return legend
}
