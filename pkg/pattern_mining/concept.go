package pattern_mining

import (
	"sort"
)

// Untested marks a p-value that was never computed; NotEstimated marks a
// stability score that was never estimated.
const (
	Untested     = -1.0
	NotEstimated = -1.0
)

// Concept is a closed pattern: Intent is the set of (neuron, lag) items and
// Extent the ascending start bins of the windows holding all of them.
//
// Closedness: Intent is exactly the set of items common to the windows of
// Extent, and Extent is exactly the set of windows holding Intent.
type Concept struct {
	Intent Itemset
	Extent []int

	PValue          float64
	IntentStability float64
	ExtentStability float64
}

// NewConcept copies intent and extent into canonical order. Annotations
// start as untested / not estimated.
func NewConcept(intent Itemset, extent []int) Concept {
	ext := append([]int(nil), extent...)
	sort.Ints(ext)
	return Concept{
		Intent:          NewItemset(intent...),
		Extent:          ext,
		PValue:          Untested,
		IntentStability: NotEstimated,
		ExtentStability: NotEstimated,
	}
}

// Size is the number of spikes of the pattern, i.e. |intent|.
func (c Concept) Size() int { return len(c.Intent) }

// Support is the number of windows the pattern occurs in.
func (c Concept) Support() int { return len(c.Extent) }

// NeuronCount is the number of distinct neurons taking part.
func (c Concept) NeuronCount() int {
	seen := make(map[int]struct{}, len(c.Intent))
	for _, it := range c.Intent {
		seen[it.Neuron] = struct{}{}
	}
	return len(seen)
}

// Neurons returns one neuron per item, in intent order.
func (c Concept) Neurons() []int {
	out := make([]int, len(c.Intent))
	for i, it := range c.Intent {
		out[i] = it.Neuron
	}
	return out
}

// Lags returns one lag per item relative to the earliest item, in intent order.
func (c Concept) Lags() []int {
	out := make([]int, len(c.Intent))
	if len(c.Intent) == 0 {
		return out
	}
	first := c.Intent[0].Lag
	for i, it := range c.Intent {
		out[i] = it.Lag - first
	}
	return out
}

// MaxLag is the duration of the pattern in bins.
func (c Concept) MaxLag() int {
	if len(c.Intent) == 0 {
		return 0
	}
	return c.Intent[len(c.Intent)-1].Lag - c.Intent[0].Lag
}

// Anchored reports whether the pattern has a spike at lag 0.
func (c Concept) Anchored() bool {
	return len(c.Intent) > 0 && c.Intent[0].Lag == 0
}

// FirstOccurrence returns the first window of the extent, -1 if empty.
func (c Concept) FirstOccurrence() int {
	if len(c.Extent) == 0 {
		return -1
	}
	return c.Extent[0]
}

// Overlap counts the windows shared by both extents.
func (c Concept) Overlap(other Concept) int {
	i, j, n := 0, 0, 0
	for i < len(c.Extent) && j < len(other.Extent) {
		switch {
		case c.Extent[i] == other.Extent[j]:
			n++
			i++
			j++
		case c.Extent[i] < other.Extent[j]:
			i++
		default:
			j++
		}
	}
	return n
}

// CoveredSpikes is (Size - offset) * Support.
func (c Concept) CoveredSpikes(offset int) int {
	return (c.Size() - offset) * c.Support()
}

// SameAs compares intents and extents, ignoring annotations.
func (c Concept) SameAs(other Concept) bool {
	if c.Intent.Compare(other.Intent) != 0 || len(c.Extent) != len(other.Extent) {
		return false
	}
	for i := range c.Extent {
		if c.Extent[i] != other.Extent[i] {
			return false
		}
	}
	return true
}

// Less is the deterministic report order: larger patterns first, then more
// frequent ones, then earlier ones, then by intent.
func Less(a, b Concept) bool {
	if a.Size() != b.Size() {
		return a.Size() > b.Size()
	}
	if a.Support() != b.Support() {
		return a.Support() > b.Support()
	}
	if fa, fb := a.FirstOccurrence(), b.FirstOccurrence(); fa != fb {
		return fa < fb
	}
	return a.Intent.Compare(b.Intent) < 0
}

// SortConcepts sorts in place with Less.
func SortConcepts(concepts []Concept) {
	sort.SliceStable(concepts, func(i, j int) bool { return Less(concepts[i], concepts[j]) })
}
