package stability

import (
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
)

type closureKind uint8

const (
	// closure of a reduced intent: the closed intent it grows back to
	intentClosure closureKind = iota
	// closure of a reduced extent: the extent of its common items
	extentClosure
)

type cacheKey struct {
	Kind closureKind
	Hash uint64
}

type cachedClosure struct {
	in  *bitset.BitSet
	out *bitset.BitSet
}

// ClosureCache memoises closures computed against one context. Different
// trials of different concepts often drop down to the same reduced set.
// Safe for concurrent use.
type ClosureCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]cachedClosure

	hits, misses int
}

func NewClosureCache() *ClosureCache {
	return &ClosureCache{entries: make(map[cacheKey][]cachedClosure)}
}

// Stats returns how many lookups were served from the cache and how many
// had to be computed.
func (c *ClosureCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *ClosureCache) getOrCompute(kind closureKind, in *bitset.BitSet, compute func() *bitset.BitSet) *bitset.BitSet {
	key := cacheKey{Kind: kind, Hash: pattern_mining.HashBits(in)}

	c.mu.RLock()
	for _, e := range c.entries[key] {
		if pattern_mining.SameMembers(e.in, in) {
			c.mu.RUnlock()
			c.mu.Lock()
			c.hits++
			c.mu.Unlock()
			return e.out
		}
	}
	c.mu.RUnlock()

	// Two goroutines may compute the same closure; both results are equal.
	out := compute()

	c.mu.Lock()
	c.misses++
	c.entries[key] = append(c.entries[key], cachedClosure{in: in.Clone(), out: out})
	c.mu.Unlock()
	return out
}

// IntentClosure returns the closed intent generated by intent.
func (c *ClosureCache) IntentClosure(ctx *pattern_mining.Context, intent *bitset.BitSet) *bitset.BitSet {
	return c.getOrCompute(intentClosure, intent, func() *bitset.BitSet {
		closed, _ := ctx.Closure(intent)
		return closed
	})
}

// ExtentClosure returns the extent of the items common to extent.
func (c *ClosureCache) ExtentClosure(ctx *pattern_mining.Context, extent *bitset.BitSet) *bitset.BitSet {
	return c.getOrCompute(extentClosure, extent, func() *bitset.BitSet {
		return ctx.Extent(ctx.Intent(extent))
	})
}
