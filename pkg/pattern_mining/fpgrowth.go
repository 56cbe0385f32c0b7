package pattern_mining

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// FPGrowthMiner enumerates every frequent itemset with FP-growth and keeps
// the closed ones. The number of frequent itemsets grows as 2^size of the
// largest pattern, so it is only practical for small patterns; ClosureMiner
// returns the same concepts.
type FPGrowthMiner struct{}

func (FPGrowthMiner) Name() string { return "fpgrowth" }

func (FPGrowthMiner) Mine(ctx *Context, minSupport int) []Concept {
	if minSupport < 1 {
		minSupport = 1
	}
	n := ctx.NumTransactions()
	paths := make([][]int, n)
	weights := make([]int, n)
	for tid := 0; tid < n; tid++ {
		for _, it := range ctx.Transaction(tid) {
			paths[tid] = append(paths[tid], it.ID(ctx.WinLen()))
		}
		weights[tid] = 1
	}

	var out []Concept
	tree := newFPTree(paths, weights, minSupport)
	tree.mine(nil, minSupport, func(ids []int, _ int) {
		bits := bitset.New(uint(ctx.NumItems()))
		for _, id := range ids {
			bits.Set(uint(id))
		}
		ext := ctx.Extent(bits)
		if closed := ctx.Intent(ext); SameMembers(closed, bits) {
			out = append(out, ctx.Concept(closed, ext))
		}
	})
	return out
}

type fpNode struct {
	item     int
	count    int
	parent   *fpNode
	children map[int]*fpNode
	link     *fpNode
}

type fpTree struct {
	root    *fpNode
	heads   map[int]*fpNode
	support map[int]int
	// frequent items, most frequent first
	order []int
}

func newFPTree(paths [][]int, weights []int, minSupport int) *fpTree {
	counts := make(map[int]int)
	for i, p := range paths {
		for _, id := range p {
			counts[id] += weights[i]
		}
	}

	t := &fpTree{
		root:    &fpNode{item: -1, children: make(map[int]*fpNode)},
		heads:   make(map[int]*fpNode),
		support: make(map[int]int),
	}
	for id, c := range counts {
		if c >= minSupport {
			t.support[id] = c
			t.order = append(t.order, id)
		}
	}
	sort.Slice(t.order, func(i, j int) bool {
		a, b := t.order[i], t.order[j]
		if t.support[a] != t.support[b] {
			return t.support[a] > t.support[b]
		}
		return a < b
	})
	rank := make(map[int]int, len(t.order))
	for i, id := range t.order {
		rank[id] = i
	}

	for i, p := range paths {
		kept := make([]int, 0, len(p))
		for _, id := range p {
			if _, ok := rank[id]; ok {
				kept = append(kept, id)
			}
		}
		sort.Slice(kept, func(a, b int) bool { return rank[kept[a]] < rank[kept[b]] })
		t.insert(kept, weights[i])
	}
	return t
}

func (t *fpTree) insert(ids []int, weight int) {
	node := t.root
	for _, id := range ids {
		child, ok := node.children[id]
		if !ok {
			child = &fpNode{item: id, parent: node, children: make(map[int]*fpNode)}
			node.children[id] = child
			child.link = t.heads[id]
			t.heads[id] = child
		}
		child.count += weight
		node = child
	}
}

// mine emits suffix extended by every frequent itemset of the tree, least
// frequent items first.
func (t *fpTree) mine(suffix []int, minSupport int, emit func(ids []int, support int)) {
	for i := len(t.order) - 1; i >= 0; i-- {
		id := t.order[i]
		set := append(append([]int(nil), suffix...), id)
		emit(set, t.support[id])

		var condPaths [][]int
		var condWeights []int
		for n := t.heads[id]; n != nil; n = n.link {
			var path []int
			for p := n.parent; p != t.root; p = p.parent {
				path = append(path, p.item)
			}
			if len(path) > 0 {
				condPaths = append(condPaths, path)
				condWeights = append(condWeights, n.count)
			}
		}
		if len(condPaths) == 0 {
			continue
		}
		if sub := newFPTree(condPaths, condWeights, minSupport); len(sub.order) > 0 {
			sub.mine(set, minSupport, emit)
		}
	}
}
