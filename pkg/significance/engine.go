package significance

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// DefaultDitherBins is the dither, in bins, used when no surrogate method is given.
const DefaultDitherBins = 15

// SurrogateOptions configures the surrogate engine.
type SurrogateOptions struct {
	// N is the number of surrogate trials. 0 disables significance testing.
	N int
	// Func generates one surrogate train. Nil means DitherSpikes by
	// DefaultDitherBins bins.
	Func SurrogateFunc
	// Seed makes the run reproducible: trial i draws from rand.NewPCG(Seed, i).
	Seed uint64
	// Workers bounds the trials running at once. <= 0 means runtime.NumCPU().
	Workers int
	// OnTrial, when set, is called after each successful trial.
	OnTrial func(trial int)
}

// SurrogatePValues estimates a p-value for every signature of observed.
//
// Each trial replaces every train with a surrogate, re-bins and re-mines the
// session with the same options, and folds the resulting spectrum into a
// NullDistribution. A trial that fails makes the whole run untested: the
// result carries WarningSurrogatesFailed instead of partial p-values. A
// cancelled ctx is returned as an error.
func SurrogatePValues(ctx context.Context, trains []spike_train.SpikeTrain, binSize float64,
	mine pattern_mining.MineOptions, observed *pattern_mining.Spectrum, opts SurrogateOptions) (*PValueSpectrum, error) {
	if opts.N < 0 {
		return nil, spike_train.NewParameterError("n_surr", opts.N, "must be non-negative")
	}
	if observed == nil {
		return nil, spike_train.NewParameterError("spectrum", nil, "observed spectrum is required")
	}
	if err := mine.Validate(); err != nil {
		return nil, err
	}
	if err := spike_train.CheckSession(trains); err != nil {
		return nil, err
	}
	if opts.N == 0 {
		return UntestedPValues(observed, Warning{
			Code:    WarningUntested,
			Message: "no surrogates requested, patterns are not filtered by significance",
		}), nil
	}

	fn := opts.Func
	if fn == nil {
		fn = DitherSpikes(DefaultDitherBins * binSize)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	null := NewNullDistribution(observed)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.N; i++ {
		if gctx.Err() != nil {
			break
		}
		trial := i
		g.Go(func() error {
			spectrum, err := runTrial(gctx, trains, binSize, mine, fn, rand.NewPCG(opts.Seed, uint64(trial)))
			if err != nil {
				return fmt.Errorf("surrogate trial %d: %w", trial, err)
			}
			null.Fold(spectrum)
			if opts.OnTrial != nil {
				opts.OnTrial(trial)
			}
			return nil
		})
	}
	err := g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return UntestedPValues(observed, Warning{
			Code:    WarningSurrogatesFailed,
			Message: err.Error(),
		}), nil
	}

	out := &PValueSpectrum{
		Kind:   observed.Kind(),
		N:      null.Trials(),
		values: null.PValues(),
	}
	return out, nil
}

func runTrial(ctx context.Context, trains []spike_train.SpikeTrain, binSize float64,
	mine pattern_mining.MineOptions, fn SurrogateFunc, src rand.Source) (*pattern_mining.Spectrum, error) {
	surrogates := make([]spike_train.SpikeTrain, len(trains))
	for c, tr := range trains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := fn(tr, src)
		if err != nil {
			return nil, err
		}
		if s.TStart != tr.TStart || s.TStop != tr.TStop {
			return nil, errors.New("surrogate changed the observation window of train " + tr.Name)
		}
		surrogates[c] = s
	}
	return pattern_mining.MineSpectrum(surrogates, binSize, mine)
}
