package pattern_mining

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

func TestItemset_CanonicalOrder(t *testing.T) {
	s := NewItemset(Item{3, 2}, Item{1, 0}, Item{0, 2}, Item{1, 0})
	require.Equal(t, Itemset{{1, 0}, {0, 2}, {3, 2}}, s)
	require.Equal(t, "{1@0 0@2 3@2}", s.String())

	require.True(t, s.Contains(NewItemset(Item{3, 2}, Item{1, 0})))
	require.Equal(t, 1, s.Missing(NewItemset(Item{3, 2}, Item{4, 4})))
	require.Equal(t, -1, NewItemset(Item{1, 0}).Compare(s))
}

func TestItemset_ReReferenced(t *testing.T) {
	s := NewItemset(Item{0, 0}, Item{1, 2}, Item{2, 5})
	require.Equal(t, NewItemset(Item{2, 0}, Item{1, 3}, Item{0, 5}), s.ReReferenced())
}

func TestItem_ID(t *testing.T) {
	it := Item{Neuron: 7, Lag: 3}
	require.Equal(t, 73, it.ID(10))
	require.Equal(t, it, ItemFromID(73, 10))
}

func TestConcept_Derived(t *testing.T) {
	c := NewConcept(NewItemset(Item{4, 1}, Item{2, 3}, Item{4, 3}), []int{30, 10, 20})

	require.Equal(t, 3, c.Size())
	require.Equal(t, 2, c.NeuronCount())
	require.Equal(t, 3, c.Support())
	require.Equal(t, []int{10, 20, 30}, c.Extent)
	require.Equal(t, []int{4, 2, 4}, c.Neurons())
	require.Equal(t, []int{0, 2, 2}, c.Lags())
	require.Equal(t, 2, c.MaxLag())
	require.False(t, c.Anchored())
	require.Equal(t, 10, c.FirstOccurrence())
	require.Equal(t, 3, c.CoveredSpikes(2))

	other := NewConcept(c.Intent, []int{20, 30, 40})
	require.Equal(t, 2, c.Overlap(other))
	require.False(t, c.SameAs(other))
}

func TestSortConcepts(t *testing.T) {
	a := NewConcept(NewItemset(Item{0, 0}, Item{1, 1}), []int{5, 9})
	b := NewConcept(NewItemset(Item{0, 0}, Item{1, 1}, Item{2, 2}), []int{7, 8})
	c := NewConcept(NewItemset(Item{2, 0}, Item{3, 1}), []int{1, 9})
	d := NewConcept(NewItemset(Item{4, 0}, Item{5, 1}), []int{1, 2, 3})

	concepts := []Concept{a, b, c, d}
	SortConcepts(concepts)
	require.Equal(t, []Concept{b, d, c, a}, concepts)
}

func TestFilterMovingWindowSubsets(t *testing.T) {
	full := NewConcept(NewItemset(Item{0, 0}, Item{1, 1}, Item{2, 2}), []int{0, 50, 100})
	// same pattern cut at its second spike
	cut := NewConcept(NewItemset(Item{1, 0}, Item{2, 1}), []int{1, 51, 101})
	// cut at its second spike but with another support: kept
	other := NewConcept(NewItemset(Item{1, 0}, Item{2, 1}), []int{1, 51})
	// same support but not a shifted subset
	unrelated := NewConcept(NewItemset(Item{1, 0}, Item{3, 1}), []int{3, 53, 103})

	out := FilterMovingWindowSubsets([]Concept{full, cut, other, unrelated}, 3)
	require.Equal(t, []Concept{full, other, unrelated}, out)

	require.Len(t, FilterMovingWindowSubsets([]Concept{full, cut}, 1), 2)
}

func TestNonDegenerate(t *testing.T) {
	single := NewConcept(NewItemset(Item{0, 0}), []int{1, 2})
	everywhere := NewConcept(NewItemset(Item{0, 0}, Item{1, 0}), []int{0, 1, 2})
	fine := NewConcept(NewItemset(Item{0, 0}, Item{1, 0}), []int{0, 2})

	require.Equal(t, []Concept{fine}, NonDegenerate([]Concept{single, everywhere, fine}, 3))
}

func TestSpectrum_CountsAndDurations(t *testing.T) {
	s := NewSpectrum(Spectrum2D)
	s.Add(NewConcept(NewItemset(Item{0, 0}, Item{1, 1}), []int{0, 10}))
	s.Add(NewConcept(NewItemset(Item{2, 0}, Item{3, 4}), []int{3, 13}))
	s.Add(NewConcept(NewItemset(Item{0, 0}, Item{1, 1}, Item{2, 1}), []int{0, 10}))

	require.Equal(t, 2, s.Count(Signature{Size: 2, Support: 2}))
	require.Equal(t, 2, s.DistinctDurations(2, 2))
	require.Equal(t, 3, s.Total())
	require.Equal(t, 2, s.Len())

	s3 := NewSpectrum(Spectrum3D)
	s3.Add(NewConcept(NewItemset(Item{0, 0}, Item{1, 1}), []int{0, 10}))
	s3.Add(NewConcept(NewItemset(Item{2, 0}, Item{3, 4}), []int{3, 13}))
	require.Equal(t, []Signature{{2, 2, 1}, {2, 2, 4}}, s3.Signatures())

	_, err := ParseSpectrumKind("try")
	require.ErrorIs(t, err, ErrUnknownSpectrum)
}

func TestVisitedSet_IgnoresCapacity(t *testing.T) {
	v := NewVisitedSet()
	a := bitset.New(10).Set(3).Set(7)
	b := bitset.New(200).Set(3).Set(7)

	require.Equal(t, HashBits(a), HashBits(b))
	require.True(t, v.Add(a))
	require.False(t, v.Add(b))
	require.True(t, v.Add(bitset.New(10).Set(3)))
	require.Equal(t, 2, v.Len())
}
