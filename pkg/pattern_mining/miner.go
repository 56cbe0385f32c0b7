package pattern_mining

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Strategy mines every closed intent of a context supported by at least
// minSupport transactions. The empty intent is never returned.
// Implementations must be deterministic as a set; order is not significant.
type Strategy interface {
	Name() string
	Mine(ctx *Context, minSupport int) []Concept
}

// StrategyByName returns "lattice" (default) or "fpgrowth".
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lattice", "closure":
		return ClosureMiner{}, nil
	case "fpgrowth", "fp-growth", "fp_growth":
		return FPGrowthMiner{}, nil
	default:
		return nil, fmt.Errorf("strategy %q: %w", name, ErrUnknownStrategy)
	}
}

// ClosureMiner walks the lattice of closed intents.
//
// It starts at the closure of all transactions and, from every closed intent,
// tries each frequent item not yet in it: the extent shrinks to the item's
// transactions, the intent grows to the common items of that extent. Every
// closed intent is reached this way; the visited set makes sure each is
// emitted and expanded once.
type ClosureMiner struct{}

func (ClosureMiner) Name() string { return "lattice" }

func (m ClosureMiner) Mine(ctx *Context, minSupport int) []Concept {
	if minSupport < 1 {
		minSupport = 1
	}
	if ctx.NumTransactions() < minSupport {
		return nil
	}

	var frequent []int
	for id := 0; id < ctx.NumItems(); id++ {
		if int(ctx.ItemTids(id).Count()) >= minSupport {
			frequent = append(frequent, id)
		}
	}

	rootExt := ctx.Extent(bitset.New(uint(ctx.NumItems())))
	rootInt := ctx.Intent(rootExt)

	visited := NewVisitedSet()
	visited.Add(rootInt)

	var out []Concept
	if rootInt.Any() {
		out = append(out, ctx.Concept(rootInt, rootExt))
	}
	m.expand(ctx, rootInt, rootExt, frequent, minSupport, visited, &out)
	return out
}

func (m ClosureMiner) expand(ctx *Context, intent, extent *bitset.BitSet, frequent []int,
	minSupport int, visited *VisitedSet, out *[]Concept) {
	for _, id := range frequent {
		if intent.Test(uint(id)) {
			continue
		}
		ext := extent.Intersection(ctx.ItemTids(id))
		if int(ext.Count()) < minSupport {
			continue
		}
		closed := ctx.Intent(ext)
		if !visited.Add(closed) {
			continue
		}
		*out = append(*out, ctx.Concept(closed, ext))
		m.expand(ctx, closed, ext, frequent, minSupport, visited, out)
	}
}
