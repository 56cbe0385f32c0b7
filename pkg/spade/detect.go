// Package spade detects repeating spatio-temporal spike patterns: it mines
// closed patterns from binned spike trains, tests them against surrogate
// data, filters them by stability and reduces the surviving set.
package spade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jtomasevic/spade/pkg/logging"
	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/reduction"
	"github.com/jtomasevic/spade/pkg/significance"
	"github.com/jtomasevic/spade/pkg/spike_train"
	"github.com/jtomasevic/spade/pkg/stability"
)

// stability draws from different PCG streams than the surrogates
const stabilitySeedSalt = 0x9e3779b97f4a7c15

// Result of one detection run. Concepts and Patterns are in report order.
type Result struct {
	RunID    uuid.UUID
	Concepts []pattern_mining.Concept
	Patterns []Pattern

	// Spectrum of the data before significance, stability and reduction.
	Spectrum       *pattern_mining.Spectrum
	PValues        *significance.PValueSpectrum
	NonSignificant []pattern_mining.Signature
	Warnings       []Warning
}

// DetectPatterns runs the whole pipeline on one session:
// mine → surrogate p-values → significance → stability → reduction.
//
// Every input and configuration error is returned before any mining starts.
// Zero surrogates or zero stability subsets are not errors: the run goes on
// with sentinel values and the result carries a warning.
func DetectPatterns(ctx context.Context, trains []spike_train.SpikeTrain, cfg Config, opts ...Option) (res *Result, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := pattern_mining.ParseSpectrumKind(cfg.Spectrum)
	if err != nil {
		return nil, err
	}
	corr, err := significance.ParseCorrection(cfg.Correction)
	if err != nil {
		return nil, err
	}
	strategy := o.strategy
	if strategy == nil {
		if strategy, err = pattern_mining.StrategyByName(cfg.Strategy); err != nil {
			return nil, err
		}
	}
	surrogate := o.surrogate
	if surrogate == nil {
		if surrogate, err = significance.SurrogateByName(cfg.Surrogates.Method, cfg.ditherOrDefault()); err != nil {
			return nil, err
		}
	}
	if err := spike_train.CheckSession(trains); err != nil {
		return nil, err
	}
	logger := o.logger
	if logger == nil {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, spike_train.NewParameterError("log.level", cfg.Log.Level, err.Error())
		}
		logger = logging.New(logging.Config{Level: level, JSON: cfg.Log.JSON, Service: "spade"})
	}

	runID := uuid.New()
	logger = logger.With("run_id", runID.String())
	ctx, span := startDetectSpan(ctx, runID.String(), len(trains), cfg)
	defer span.End()
	started := time.Now()
	defer func() {
		count, warnings := 0, 0
		if res != nil {
			count, warnings = len(res.Patterns), len(res.Warnings)
		}
		setDetectSpanResult(span, count, warnings, err == nil)
		recordDetectMetrics(ctx, time.Since(started), count, err == nil)
	}()

	mineOpts := cfg.mineOptions(kind, strategy)
	mined, err := pattern_mining.MinePatterns(trains, cfg.BinSize, mineOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("mined",
		"strategy", strategy.Name(),
		"transactions", mined.Context.NumTransactions(),
		"concepts", len(mined.Concepts),
		"signatures", mined.Spectrum.Len())

	res = &Result{RunID: runID, Spectrum: mined.Spectrum}

	pv, err := significance.SurrogatePValues(ctx, trains, cfg.BinSize, mineOpts, mined.Spectrum, significance.SurrogateOptions{
		N:       cfg.Surrogates.N,
		Func:    surrogate,
		Seed:    cfg.Seed,
		Workers: cfg.Workers,
		OnTrial: func(int) { recordSurrogateTrial(ctx) },
	})
	if err != nil {
		return nil, fmt.Errorf("surrogates: %w", err)
	}
	res.PValues = pv
	res.Warnings = append(res.Warnings, pv.Warnings...)

	table, err := significance.TestSignificance(pv, cfg.Alpha, corr)
	if err != nil {
		return nil, err
	}
	res.NonSignificant = table.NonSignificant()
	concepts := table.Apply(mined.Concepts)
	logger.Debug("significance",
		"tested", !table.Untested(),
		"threshold", table.Threshold(),
		"kept", len(concepts),
		"non_significant", len(res.NonSignificant))

	if cfg.Stability.NumSubsets > 0 {
		concepts, err = stability.Annotate(ctx, concepts, mined.Context, cfg.Stability.NumSubsets,
			cfg.Seed^stabilitySeedSalt, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("stability: %w", err)
		}
		concepts = stability.Filter(concepts, cfg.Stability.Thresholds)
		logger.Debug("stability", "kept", len(concepts))
	} else {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarningStabilitySkipped,
			Message: "no stability subsets requested, patterns are not filtered by stability",
		})
	}

	if cfg.PSR != nil {
		before := len(concepts)
		concepts, err = reduction.ReducePatterns(concepts,
			reduction.WithSubsetSlack(cfg.PSR.SubsetSlack),
			reduction.WithSupersetSlack(cfg.PSR.SupersetSlack),
			reduction.WithCoveredSpikesOffset(cfg.PSR.CoveredOffset),
			reduction.WithMaxMissing(cfg.PSR.MaxMissing),
			reduction.WithMinOverlap(cfg.PSR.MinOverlap),
			reduction.WithFloors(max(cfg.Bounds.MinSpikes, 2), max(cfg.Bounds.MinSupport, 2)),
			reduction.WithJudge(table),
		)
		if err != nil {
			return nil, err
		}
		logger.Debug("reduction", "removed", before-len(concepts))
	}

	pattern_mining.SortConcepts(concepts)
	res.Concepts = concepts
	res.Patterns = patternBuilder{
		names:   trainNames(trains),
		binSize: cfg.BinSize,
		tStart:  trains[0].TStart,
		kind:    kind,
	}.buildAll(concepts)

	for _, w := range res.Warnings {
		logger.Warn(w.Message, "code", string(w.Code))
		if o.listener != nil {
			o.listener.OnWarning(w)
		}
	}
	if o.listener != nil {
		for _, p := range res.Patterns {
			o.listener.OnPatternDetected(p)
		}
	}
	logger.Info("detection finished",
		"patterns", len(res.Patterns),
		"warnings", len(res.Warnings),
		"elapsed", time.Since(started))
	return res, nil
}

func trainNames(trains []spike_train.SpikeTrain) []string {
	out := make([]string, len(trains))
	for i, tr := range trains {
		out[i] = tr.Name
	}
	return out
}
