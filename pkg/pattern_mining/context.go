package pattern_mining

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/jtomasevic/spade/pkg/spike_train"
)

// Pair is one entry of the (window, item) relation.
type Pair struct {
	Window int
	Item   Item
}

// Context is the formal context mined for closed patterns.
//
// Objects are transactions: windows of WinLen bins that start with at least
// one spike in their first bin. Attributes are items (neuron, lag). Other
// windows are left out: they can only support concepts whose earliest spike
// is not at lag 0, and those are never reported.
//
// Transactions are addressed by their index (tid); Windows() maps a tid back
// to the bin the window starts at.
type Context struct {
	winLen     int
	numNeurons int
	positions  int

	windows      []int
	windowIndex  map[int]int
	transactions []*bitset.BitSet
	tidsets      []*bitset.BitSet
	all          *bitset.BitSet
}

// BuildContext slides a window of winLen bins over the matrix.
func BuildContext(m *spike_train.OccurrenceMatrix, winLen int) (*Context, error) {
	if winLen <= 0 {
		return nil, spike_train.NewParameterError("win_len", winLen, "must be positive")
	}
	if m.NumBins() < winLen {
		return nil, spike_train.NewParameterError("win_len", winLen,
			fmt.Sprintf("longer than the %d bins of the session", m.NumBins()))
	}

	positions := m.NumBins() - winLen + 1
	var pairs []Pair
	for w := 0; w < positions; w++ {
		anchored := false
		for c := 0; c < m.NumChannels(); c++ {
			if m.Active(c, w) {
				anchored = true
				break
			}
		}
		if !anchored {
			continue
		}
		for lag := 0; lag < winLen; lag++ {
			for c := 0; c < m.NumChannels(); c++ {
				if m.Active(c, w+lag) {
					pairs = append(pairs, Pair{Window: w, Item: Item{Neuron: c, Lag: lag}})
				}
			}
		}
	}
	return ContextFromRelation(pairs, m.NumChannels(), winLen, positions)
}

// ContextFromRelation builds a context from its (window, item) pairs.
// positions is the number of window positions of the session.
func ContextFromRelation(pairs []Pair, numNeurons, winLen, positions int) (*Context, error) {
	if winLen <= 0 {
		return nil, spike_train.NewParameterError("win_len", winLen, "must be positive")
	}
	if numNeurons < 0 || positions < 0 {
		return nil, spike_train.NewParameterError("positions", positions, "must be non-negative")
	}

	ctx := &Context{
		winLen:      winLen,
		numNeurons:  numNeurons,
		positions:   positions,
		windowIndex: make(map[int]int),
	}
	numItems := uint(numNeurons * winLen)
	for _, p := range pairs {
		if p.Item.Neuron < 0 || p.Item.Neuron >= numNeurons || p.Item.Lag < 0 || p.Item.Lag >= winLen {
			return nil, spike_train.NewParameterError("item", p.Item, "outside the context")
		}
		if p.Window < 0 || p.Window >= positions {
			return nil, spike_train.NewParameterError("window", p.Window, "outside the session")
		}
		tid, ok := ctx.windowIndex[p.Window]
		if !ok {
			tid = len(ctx.windows)
			ctx.windowIndex[p.Window] = tid
			ctx.windows = append(ctx.windows, p.Window)
			ctx.transactions = append(ctx.transactions, bitset.New(numItems))
		}
		ctx.transactions[tid].Set(uint(p.Item.ID(winLen)))
	}

	// tids follow first appearance; renumber them by window so extents come
	// out ordered by time.
	ctx.sortByWindow()

	n := uint(len(ctx.windows))
	ctx.all = bitset.New(n)
	ctx.tidsets = make([]*bitset.BitSet, numItems)
	for id := range ctx.tidsets {
		ctx.tidsets[id] = bitset.New(n)
	}
	for tid, tr := range ctx.transactions {
		ctx.all.Set(uint(tid))
		for id, ok := tr.NextSet(0); ok; id, ok = tr.NextSet(id + 1) {
			ctx.tidsets[id].Set(uint(tid))
		}
	}
	return ctx, nil
}

func (c *Context) sortByWindow() {
	order := make([]int, len(c.windows))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return c.windows[order[i]] < c.windows[order[j]] })

	windows := make([]int, len(order))
	transactions := make([]*bitset.BitSet, len(order))
	for newTid, oldTid := range order {
		windows[newTid] = c.windows[oldTid]
		transactions[newTid] = c.transactions[oldTid]
		c.windowIndex[windows[newTid]] = newTid
	}
	c.windows = windows
	c.transactions = transactions
}

func (c *Context) WinLen() int             { return c.winLen }
func (c *Context) NumNeurons() int         { return c.numNeurons }
func (c *Context) NumItems() int           { return c.numNeurons * c.winLen }
func (c *Context) NumTransactions() int    { return len(c.windows) }
func (c *Context) NumWindowPositions() int { return c.positions }

// Windows returns the start bin of every transaction, ascending.
func (c *Context) Windows() []int {
	return append([]int(nil), c.windows...)
}

// Transaction returns the items of transaction tid.
func (c *Context) Transaction(tid int) Itemset {
	return c.Items(c.transactions[tid])
}

// Relation returns every (window, item) pair of the context.
func (c *Context) Relation() []Pair {
	var out []Pair
	for tid, w := range c.windows {
		for _, it := range c.Transaction(tid) {
			out = append(out, Pair{Window: w, Item: it})
		}
	}
	return out
}

// ItemBits converts an itemset into an attribute bitset of this context.
// Items outside the context are ignored.
func (c *Context) ItemBits(s Itemset) *bitset.BitSet {
	b := bitset.New(uint(c.NumItems()))
	for _, it := range s {
		if it.Neuron < 0 || it.Neuron >= c.numNeurons || it.Lag < 0 || it.Lag >= c.winLen {
			continue
		}
		b.Set(uint(it.ID(c.winLen)))
	}
	return b
}

// Items converts an attribute bitset back to a canonical itemset.
func (c *Context) Items(b *bitset.BitSet) Itemset {
	out := make(Itemset, 0, b.Count())
	for id, ok := b.NextSet(0); ok; id, ok = b.NextSet(id + 1) {
		out = append(out, ItemFromID(int(id), c.winLen))
	}
	return NewItemset(out...)
}

// Tids converts window start bins into a transaction bitset. Windows that
// are not transactions of this context are ignored.
func (c *Context) Tids(windows []int) *bitset.BitSet {
	b := bitset.New(uint(len(c.windows)))
	for _, w := range windows {
		if tid, ok := c.windowIndex[w]; ok {
			b.Set(uint(tid))
		}
	}
	return b
}

// WindowsOf converts a transaction bitset into ascending window start bins.
func (c *Context) WindowsOf(tids *bitset.BitSet) []int {
	out := make([]int, 0, tids.Count())
	for tid, ok := tids.NextSet(0); ok; tid, ok = tids.NextSet(tid + 1) {
		out = append(out, c.windows[tid])
	}
	return out
}

// ItemTids returns the transactions containing item id. Callers must not
// modify it.
func (c *Context) ItemTids(id int) *bitset.BitSet {
	return c.tidsets[id]
}

// Extent returns the transactions containing every item of intent. The
// extent of the empty intent is every transaction.
func (c *Context) Extent(intent *bitset.BitSet) *bitset.BitSet {
	ext := c.all.Clone()
	for id, ok := intent.NextSet(0); ok; id, ok = intent.NextSet(id + 1) {
		if int(id) >= len(c.tidsets) {
			return bitset.New(uint(len(c.windows)))
		}
		ext.InPlaceIntersection(c.tidsets[id])
	}
	return ext
}

// Intent returns the items common to every transaction of extent. The
// intent of the empty extent is every item.
func (c *Context) Intent(extent *bitset.BitSet) *bitset.BitSet {
	numItems := uint(c.NumItems())
	tid, ok := extent.NextSet(0)
	if !ok {
		return bitset.New(numItems).FlipRange(0, numItems)
	}
	in := c.transactions[tid].Clone()
	for tid, ok = extent.NextSet(tid + 1); ok; tid, ok = extent.NextSet(tid + 1) {
		in.InPlaceIntersection(c.transactions[tid])
	}
	return in
}

// Closure returns the smallest closed intent containing intent, with its extent.
func (c *Context) Closure(intent *bitset.BitSet) (*bitset.BitSet, *bitset.BitSet) {
	ext := c.Extent(intent)
	return c.Intent(ext), ext
}

// ActiveBins returns, per neuron, in how many transactions it fires at lag 0.
func (c *Context) ActiveBins() []int {
	out := make([]int, c.numNeurons)
	for n := range out {
		out[n] = int(c.tidsets[Item{Neuron: n}.ID(c.winLen)].Count())
	}
	return out
}

// Concept builds a concept from closed intent and extent bitsets.
func (c *Context) Concept(intent, extent *bitset.BitSet) Concept {
	return NewConcept(c.Items(intent), c.WindowsOf(extent))
}
