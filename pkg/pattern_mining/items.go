package pattern_mining

import (
	"fmt"
	"sort"
	"strings"
)

// Item is one (neuron, lag) cell of a sliding window.
// Lag is in bins, 0 <= Lag < WinLen.
type Item struct {
	Neuron int
	Lag    int
}

// ID packs the item into neuron*winLen + lag.
func (it Item) ID(winLen int) int {
	return it.Neuron*winLen + it.Lag
}

func ItemFromID(id, winLen int) Item {
	return Item{Neuron: id / winLen, Lag: id % winLen}
}

func (it Item) String() string {
	return fmt.Sprintf("%d@%d", it.Neuron, it.Lag)
}

// Itemset is kept in canonical order: by lag, then by neuron.
type Itemset []Item

// NewItemset copies items into canonical order and drops duplicates.
func NewItemset(items ...Item) Itemset {
	out := append(Itemset(nil), items...)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	dedup := out[:0]
	for i, it := range out {
		if i > 0 && it == out[i-1] {
			continue
		}
		dedup = append(dedup, it)
	}
	return dedup
}

func (it Item) less(other Item) bool {
	if it.Lag != other.Lag {
		return it.Lag < other.Lag
	}
	return it.Neuron < other.Neuron
}

// Contains reports whether every item of other is in s. Both must be canonical.
func (s Itemset) Contains(other Itemset) bool {
	return s.Missing(other) == 0
}

// Missing counts the items of other that are absent from s.
func (s Itemset) Missing(other Itemset) int {
	i, n := 0, 0
	for _, it := range other {
		for i < len(s) && s[i].less(it) {
			i++
		}
		if i < len(s) && s[i] == it {
			i++
			continue
		}
		n++
	}
	return n
}

// Compare orders itemsets lexicographically on their canonical items.
func (s Itemset) Compare(other Itemset) int {
	for i := 0; i < len(s) && i < len(other); i++ {
		if s[i] == other[i] {
			continue
		}
		if s[i].less(other[i]) {
			return -1
		}
		return 1
	}
	switch {
	case len(s) < len(other):
		return -1
	case len(s) > len(other):
		return 1
	}
	return 0
}

func (s Itemset) String() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// ReReferenced expresses every lag relative to the last spike of the set:
// (neuron, lag) becomes (neuron, maxLag - lag).
func (s Itemset) ReReferenced() Itemset {
	maxLag := 0
	for _, it := range s {
		if it.Lag > maxLag {
			maxLag = it.Lag
		}
	}
	out := make([]Item, len(s))
	for i, it := range s {
		out[i] = Item{Neuron: it.Neuron, Lag: maxLag - it.Lag}
	}
	return NewItemset(out...)
}
