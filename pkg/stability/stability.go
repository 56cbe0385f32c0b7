package stability

import (
	"context"
	"math/rand/v2"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// Score is the fraction of perturbation trials a concept survived.
type Score struct {
	Intent float64
	Extent float64
}

// Estimator computes approximate stability of concepts mined from one context.
type Estimator struct {
	ctx   *pattern_mining.Context
	cache *ClosureCache
}

func NewEstimator(ctx *pattern_mining.Context) *Estimator {
	return &Estimator{ctx: ctx, cache: NewClosureCache()}
}

// Cache exposes the estimator's closure cache.
func (e *Estimator) Cache() *ClosureCache { return e.cache }

// Estimate runs nSubsets intent trials and nSubsets extent trials.
//
// An intent trial removes one random item and closes what is left; it
// succeeds when the closure still holds the whole intent. An extent trial
// removes one random window, takes the items common to the remaining
// windows and derives their extent; it succeeds when that extent still holds
// the whole original extent. Emptying the extent fails the trial.
func (e *Estimator) Estimate(c pattern_mining.Concept, nSubsets int, src rand.Source) (Score, error) {
	if nSubsets <= 0 {
		return Score{}, spike_train.NewParameterError("n_subsets", nSubsets, "must be positive")
	}
	rng := rand.New(src)

	intent := e.ctx.ItemBits(c.Intent)
	extent := e.ctx.Tids(c.Extent)
	items := intent.Count()
	windows := extent.Count()

	intentOK, extentOK := 0, 0
	for i := 0; i < nSubsets; i++ {
		if items > 0 {
			reduced := intent.Clone().Clear(nthSet(intent, rng.IntN(int(items))))
			if e.cache.IntentClosure(e.ctx, reduced).IsSuperSet(intent) {
				intentOK++
			}
		}
		if windows > 1 {
			reduced := extent.Clone().Clear(nthSet(extent, rng.IntN(int(windows))))
			if e.cache.ExtentClosure(e.ctx, reduced).IsSuperSet(extent) {
				extentOK++
			}
		}
	}
	return Score{
		Intent: float64(intentOK) / float64(nSubsets),
		Extent: float64(extentOK) / float64(nSubsets),
	}, nil
}

// EstimateStability scores a single concept against ctx.
func EstimateStability(c pattern_mining.Concept, ctx *pattern_mining.Context, nSubsets int, src rand.Source) (Score, error) {
	return NewEstimator(ctx).Estimate(c, nSubsets, src)
}

// Annotate estimates every concept in parallel and returns annotated copies.
// Concept i draws from rand.NewPCG(seed, i), so the result does not depend
// on workers.
func Annotate(ctx context.Context, concepts []pattern_mining.Concept, mctx *pattern_mining.Context,
	nSubsets int, seed uint64, workers int) ([]pattern_mining.Concept, error) {
	if nSubsets <= 0 {
		return nil, spike_train.NewParameterError("n_subsets", nSubsets, "must be positive")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	est := NewEstimator(mctx)
	out := make([]pattern_mining.Concept, len(concepts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range concepts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := est.Estimate(c, nSubsets, rand.NewPCG(seed, uint64(i)))
			if err != nil {
				return err
			}
			c.IntentStability = score.Intent
			c.ExtentStability = score.Extent
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Thresholds are the minimal stability scores a concept must reach.
type Thresholds struct {
	Intent float64 `yaml:"intent" validate:"gte=0,lte=1"`
	Extent float64 `yaml:"extent" validate:"gte=0,lte=1"`
}

func (t Thresholds) Validate() error {
	if t.Intent < 0 || t.Intent > 1 {
		return spike_train.NewParameterError("stability_thresh.intent", t.Intent, "must be in [0, 1]")
	}
	if t.Extent < 0 || t.Extent > 1 {
		return spike_train.NewParameterError("stability_thresh.extent", t.Extent, "must be in [0, 1]")
	}
	return nil
}

// Filter keeps concepts whose scores meet both thresholds. Concepts that
// were never estimated are kept.
func Filter(concepts []pattern_mining.Concept, t Thresholds) []pattern_mining.Concept {
	out := make([]pattern_mining.Concept, 0, len(concepts))
	for _, c := range concepts {
		if c.IntentStability == pattern_mining.NotEstimated || c.ExtentStability == pattern_mining.NotEstimated {
			out = append(out, c)
			continue
		}
		if c.IntentStability >= t.Intent && c.ExtentStability >= t.Extent {
			out = append(out, c)
		}
	}
	return out
}

// nthSet returns the index of the n-th set bit of b.
func nthSet(b *bitset.BitSet, n int) uint {
	i, ok := b.NextSet(0)
	for ; ok && n > 0; n-- {
		i, ok = b.NextSet(i + 1)
	}
	return i
}
