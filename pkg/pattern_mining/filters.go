package pattern_mining

// AnchoredOnly drops concepts without a spike at lag 0. Windows are only
// materialised when their first bin fires, so a concept whose earliest item
// sits at a later lag is a shifted view of an anchored one.
func AnchoredOnly(concepts []Concept) []Concept {
	out := concepts[:0:0]
	for _, c := range concepts {
		if c.Anchored() {
			out = append(out, c)
		}
	}
	return out
}

// NonDegenerate drops single-spike concepts and concepts present in every
// one of the positions windows of the session.
func NonDegenerate(concepts []Concept, positions int) []Concept {
	out := concepts[:0:0]
	for _, c := range concepts {
		if c.Size() < 2 || c.Support() == positions {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterMovingWindowSubsets removes the copies of a pattern that the
// sliding window produces by cutting it at a later spike.
//
// Among concepts of equal support, items are re-referenced to the last spike
// of each concept. A concept whose re-referenced items are contained in those
// of another concept is dropped. Input order is kept. With winLen 1 there is
// nothing to shift and the input is returned unchanged.
func FilterMovingWindowSubsets(concepts []Concept, winLen int) []Concept {
	if winLen <= 1 || len(concepts) == 0 {
		return concepts
	}

	rereferenced := make([]Itemset, len(concepts))
	bySupport := make(map[int][]int)
	for i, c := range concepts {
		rereferenced[i] = c.Intent.ReReferenced()
		bySupport[c.Support()] = append(bySupport[c.Support()], i)
	}

	drop := make([]bool, len(concepts))
	for _, group := range bySupport {
		for _, i := range group {
			for _, j := range group {
				if i == j || len(rereferenced[j]) < len(rereferenced[i]) {
					continue
				}
				if rereferenced[j].Contains(rereferenced[i]) {
					drop[i] = true
					break
				}
			}
		}
	}

	out := make([]Concept, 0, len(concepts))
	for i, c := range concepts {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return out
}

// FilterBounds keeps the concepts allowed by b.
func FilterBounds(concepts []Concept, b Bounds) []Concept {
	out := concepts[:0:0]
	for _, c := range concepts {
		if b.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}
