package discomap

import (
	"math"

	"github.com/biogo/store/interval"
)

// CollisionMode selects how labels of prioritized genes are treated.
type CollisionMode int

const (
	// ModeAll shifts every label forward; a label that cannot be shifted
	// far enough is dropped. The first label is always kept.
	ModeAll CollisionMode = iota
	// ModeMixed pins prioritized labels and fits the others around them.
	ModeMixed
	// ModeGeneSet lays out prioritized labels only.
	ModeGeneSet
)

func (m CollisionMode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeMixed:
		return "mixed"
	case ModeGeneSet:
		return "geneSet"
	}
	return "unknown"
}

// LabelMove records a label that was shifted to resolve a collision, so a
// renderer can animate from Original to Moved.
type LabelMove struct {
	Gene     string `json:"gene"`
	Original Label  `json:"original"`
	Moved    Label  `json:"moved"`
}

// LabelLayout is the outcome of collision resolution.
type LabelLayout struct {
	Mode   CollisionMode `json:"-"`
	Labels []Label       `json:"labels"` // labels to display, ascending angle
	Moves  []LabelMove   `json:"moves"`
}

// collisionEngine spreads labels around the label ring with a single
// forward pass. It holds no state between calls.
type collisionEngine struct {
	geometry      labelGeometry
	overlapAngle  float64
	maxDeltaAngle float64
	totalAngle    float64
}

func newCollisionEngine(geometry labelGeometry, label LabelSettings, totalAngle float64) collisionEngine {
	circumference := 2 * math.Pi * geometry.linesRadius
	return collisionEngine{
		geometry:      geometry,
		overlapAngle:  label.OverlapAngleFactor * label.FontSize / circumference,
		maxDeltaAngle: label.MaxDeltaAngle,
		totalAngle:    totalAngle,
	}
}

// selectMode picks the resolution mode for a label set.
func selectMode(prioritizeByGeneSet bool, labels []Label) CollisionMode {
	if prioritizeByGeneSet {
		return ModeGeneSet
	}
	for _, l := range labels {
		if l.IsPrioritized {
			return ModeMixed
		}
	}
	return ModeAll
}

type fitResult int

const (
	fitsAsIs fitResult = iota
	fitsMoved
	tooFar
)

// fit places current after previous. A shift that would reach maxDeltaAngle
// or push the label past the end of the circle is reported as tooFar.
func (e collisionEngine) fit(previous, current Label) (Label, fitResult) {
	overlap := previous.EndAngle - current.StartAngle + e.overlapAngle
	if overlap <= 0 {
		return current, fitsAsIs
	}
	if overlap >= e.maxDeltaAngle || current.EndAngle+overlap > e.totalAngle {
		return current, tooFar
	}
	return e.geometry.moved(current, overlap), fitsMoved
}

// resolve lays out labels, which must be sorted by StartAngle. Neither the
// slice nor its labels are modified.
func (e collisionEngine) resolve(labels []Label, mode CollisionMode) LabelLayout {
	switch mode {
	case ModeGeneSet:
		var prioritized []Label
		for _, l := range labels {
			if l.IsPrioritized {
				prioritized = append(prioritized, l)
			}
		}
		return e.forward(prioritized, mode, true)
	case ModeMixed:
		return e.mixed(labels)
	}
	return e.forward(labels, mode, false)
}

// forward applies the greedy shift to every label. keepTooFar keeps labels
// whose collision cannot be resolved, flagged as overlapping, instead of
// dropping them.
func (e collisionEngine) forward(labels []Label, mode CollisionMode, keepTooFar bool) LabelLayout {
	layout := LabelLayout{Mode: mode, Labels: make([]Label, 0, len(labels))}
	for i, l := range labels {
		if i == 0 {
			layout.Labels = append(layout.Labels, l)
			continue
		}
		previous := layout.Labels[len(layout.Labels)-1]
		placed, res := e.fit(previous, l)
		switch res {
		case fitsAsIs:
			layout.Labels = append(layout.Labels, l)
		case fitsMoved:
			layout.Labels = append(layout.Labels, placed)
			layout.Moves = append(layout.Moves, LabelMove{Gene: l.Gene, Original: l, Moved: placed})
		case tooFar:
			if keepTooFar {
				l.KeptOverlap = true
				layout.Labels = append(layout.Labels, l)
			}
		}
	}
	return layout
}

// mixed pins prioritized labels and fits the others between them. A
// non-prioritized label is dropped rather than moved onto a prioritized one.
func (e collisionEngine) mixed(labels []Label) LabelLayout {
	layout := LabelLayout{Mode: ModeMixed, Labels: make([]Label, 0, len(labels))}

	var pinned []int
	for i, l := range labels {
		if l.IsPrioritized {
			pinned = append(pinned, i)
		}
	}
	index := e.pinnedIndex(labels, pinned)

	next := 0 // position in pinned of the next prioritized label at or after i
	for i, l := range labels {
		for next < len(pinned) && pinned[next] < i {
			next++
		}
		hasPrevious := len(layout.Labels) > 0

		if l.IsPrioritized {
			if hasPrevious {
				previous := layout.Labels[len(layout.Labels)-1]
				if previous.EndAngle-l.StartAngle+e.overlapAngle > 0 {
					l.KeptOverlap = true
				}
			}
			layout.Labels = append(layout.Labels, l)
			continue
		}

		candidate, res := l, fitsAsIs
		if hasPrevious {
			candidate, res = e.fit(layout.Labels[len(layout.Labels)-1], l)
		}
		if res == tooFar {
			continue
		}
		if next < len(pinned) {
			upcoming := labels[pinned[next]]
			if candidate.EndAngle+e.overlapAngle > upcoming.StartAngle {
				continue
			}
		}
		if index.overlaps(candidate) {
			continue
		}

		layout.Labels = append(layout.Labels, candidate)
		if res == fitsMoved {
			layout.Moves = append(layout.Moves, LabelMove{Gene: l.Gene, Original: l, Moved: candidate})
		}
	}
	return layout
}

// angleUnit quantizes angles for the interval tree (nanoradians).
const angleUnit = 1e9

// pinnedSpan is a prioritized label's keep-out zone on the label ring.
type pinnedSpan struct {
	start, end int
	id         uintptr
}

func (s pinnedSpan) Overlap(b interval.IntRange) bool { return s.start < b.End && b.Start < s.end }
func (s pinnedSpan) Range() interval.IntRange          { return interval.IntRange{Start: s.start, End: s.end} }
func (s pinnedSpan) ID() uintptr                       { return s.id }

// pinnedIndex answers whether a label would crowd any prioritized label,
// including ones across the 0/totalAngle seam.
type pinnedIndex struct {
	tree *interval.IntTree
}

func (e collisionEngine) pinnedIndex(labels []Label, pinned []int) pinnedIndex {
	t := &interval.IntTree{}
	var id uintptr
	for _, i := range pinned {
		l := labels[i]
		for _, offset := range []float64{-e.totalAngle, 0, e.totalAngle} {
			// Shrink by one unit so labels exactly overlapAngle apart are
			// not reported after rounding.
			span := pinnedSpan{
				start: quantize(l.StartAngle-e.overlapAngle+offset) + 1,
				end:   quantize(l.EndAngle+e.overlapAngle+offset) - 1,
				id:    id,
			}
			id++
			if span.start >= span.end {
				continue
			}
			if err := t.Insert(span, true); err != nil {
				panic(err) // ids are unique
			}
		}
	}
	t.AdjustRanges()
	return pinnedIndex{tree: t}
}

func (p pinnedIndex) overlaps(l Label) bool {
	q := pinnedSpan{start: quantize(l.StartAngle), end: quantize(l.EndAngle)}
	if q.end == q.start {
		q.end++
	}
	return len(p.tree.Get(q)) > 0
}

func quantize(angle float64) int {
	return int(math.Round(angle * angleUnit))
}
