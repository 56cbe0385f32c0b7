package reduction

import (
	"github.com/jtomasevic/spade/pkg/pattern_mining"
)

// ReducePatterns removes concepts explained by another concept.
//
// For every pair where B is contained in A, two residuals are formed: the
// occurrences of B not explained by A, (|B|, c_B - c_A + h), and the items of
// A not explained by B, (|A| - |B| + k, c_A). A residual is excluded when it
// falls under the floors or the judge finds it non-significant.
//
//   - only the subset residual excluded: B is a by-product of A and goes,
//   - only the superset residual excluded: A's extra items are chance, A goes,
//   - both excluded: the worse of the two goes (see better),
//   - neither: both stay.
//
// Every pair is decided on its own, so a concept beaten by one that is itself
// removed still goes. The unique largest concept of a support group is never
// removed by a concept of the same support. The output is a fixed point:
// reducing it again removes nothing.
func ReducePatterns(concepts []pattern_mining.Concept, opts ...Option) ([]pattern_mining.Concept, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	sorted := append([]pattern_mining.Concept(nil), concepts...)
	pattern_mining.SortConcepts(sorted)
	protected := uniqueLargest(sorted)

	removed := make([]bool, len(sorted))
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if !o.contains(a, b) {
				continue
			}
			loser := o.decide(a, b)
			if loser < 0 {
				continue
			}
			idx := i
			if loser == 1 {
				idx = j
			}
			if a.Support() == b.Support() && protected[idx] {
				continue
			}
			removed[idx] = true
		}
	}

	out := make([]pattern_mining.Concept, 0, len(sorted))
	for i, c := range sorted {
		if !removed[i] {
			out = append(out, c)
		}
	}
	return out, nil
}

// contains reports whether b is contained in a.
func (o options) contains(a, b pattern_mining.Concept) bool {
	if a.Size() < b.Size() {
		return false
	}
	if a.Intent.Missing(b.Intent) > o.maxMissing {
		return false
	}
	if o.minOverlap > 0 {
		smaller := min(a.Support(), b.Support())
		if smaller == 0 {
			return false
		}
		if float64(a.Overlap(b))/float64(smaller) < o.minOverlap {
			return false
		}
	}
	return true
}

// decide returns 0 if a loses, 1 if b loses, -1 if both stay.
func (o options) decide(a, b pattern_mining.Concept) int {
	subsetExcluded := o.excluded(b.Size(), b.Support()-a.Support()+o.subsetSlack)
	supersetExcluded := o.excluded(a.Size()-b.Size()+o.supersetSlack, a.Support())

	switch {
	case subsetExcluded && !supersetExcluded:
		return 1
	case supersetExcluded && !subsetExcluded:
		return 0
	case subsetExcluded && supersetExcluded:
		if o.better(a, b) {
			return 1
		}
		return 0
	}
	return -1
}

func (o options) excluded(size, support int) bool {
	if size < o.minSpikes || support < o.minSupport {
		return true
	}
	return o.judge != nil && o.judge.ResidualExcluded(size, support)
}

// better reports whether a beats b: lower p-value, then more covered
// spikes, then larger, then more frequent, then earlier, then intent order.
// P-values only count when both were tested.
func (o options) better(a, b pattern_mining.Concept) bool {
	if a.PValue >= 0 && b.PValue >= 0 && a.PValue != b.PValue {
		return a.PValue < b.PValue
	}
	if ca, cb := a.CoveredSpikes(o.coveredOffset), b.CoveredSpikes(o.coveredOffset); ca != cb {
		return ca > cb
	}
	if a.Size() != b.Size() {
		return a.Size() > b.Size()
	}
	if a.Support() != b.Support() {
		return a.Support() > b.Support()
	}
	if fa, fb := a.FirstOccurrence(), b.FirstOccurrence(); fa != fb {
		return fa < fb
	}
	return a.Intent.Compare(b.Intent) <= 0
}

// uniqueLargest flags, per support group, the concept that is strictly
// larger than every other concept of the group.
func uniqueLargest(concepts []pattern_mining.Concept) []bool {
	type group struct {
		size, idx, count int
	}
	groups := make(map[int]*group)
	for i, c := range concepts {
		g, ok := groups[c.Support()]
		switch {
		case !ok:
			groups[c.Support()] = &group{size: c.Size(), idx: i, count: 1}
		case c.Size() > g.size:
			g.size, g.idx, g.count = c.Size(), i, 1
		case c.Size() == g.size:
			g.count++
		}
	}
	out := make([]bool, len(concepts))
	for _, g := range groups {
		if g.count == 1 {
			out[g.idx] = true
		}
	}
	return out
}
