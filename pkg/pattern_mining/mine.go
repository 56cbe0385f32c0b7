package pattern_mining

import (
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// MineOptions configures one mining run. The zero Strategy is ClosureMiner
// and the zero Spectrum is "#".
type MineOptions struct {
	WinLen   int
	Bounds   Bounds
	Spectrum SpectrumKind
	Strategy Strategy
}

// Validate checks the options without touching any data.
func (o MineOptions) Validate() error {
	if o.WinLen <= 0 {
		return spike_train.NewParameterError("win_len", o.WinLen, "must be positive")
	}
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	_, err := ParseSpectrumKind(string(o.Spectrum))
	return err
}

func (o MineOptions) strategy() Strategy {
	if o.Strategy == nil {
		return ClosureMiner{}
	}
	return o.Strategy
}

// MiningResult holds the reported concepts, their spectrum and the data they
// were mined from.
type MiningResult struct {
	Concepts []Concept
	Spectrum *Spectrum
	Context  *Context
	Matrix   *spike_train.OccurrenceMatrix
}

// MineContext mines ctx and post-processes the closed concepts:
//  1. only anchored concepts (a spike at lag 0) are kept,
//  2. degenerate ones (one spike, or present in every window) are dropped,
//  3. copies cut by the moving window are dropped,
//  4. bounds are applied,
//  5. the survivors are counted into the spectrum and sorted.
func MineContext(ctx *Context, opts MineOptions) ([]Concept, *Spectrum, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	kind, _ := ParseSpectrumKind(string(opts.Spectrum))

	concepts := opts.strategy().Mine(ctx, opts.Bounds.EffectiveMinSupport())
	concepts = AnchoredOnly(concepts)
	concepts = NonDegenerate(concepts, ctx.NumWindowPositions())
	concepts = FilterMovingWindowSubsets(concepts, ctx.WinLen())
	concepts = FilterBounds(concepts, opts.Bounds)

	spectrum := NewSpectrum(kind)
	for _, c := range concepts {
		spectrum.Add(c)
	}
	SortConcepts(concepts)
	return concepts, spectrum, nil
}

// MinePatterns bins trains, builds the sliding-window context and mines it.
func MinePatterns(trains []spike_train.SpikeTrain, binSize float64, opts MineOptions) (*MiningResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m, err := spike_train.Bin(trains, binSize)
	if err != nil {
		return nil, err
	}
	ctx, err := BuildContext(m, opts.WinLen)
	if err != nil {
		return nil, err
	}
	concepts, spectrum, err := MineContext(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &MiningResult{
		Concepts: concepts,
		Spectrum: spectrum,
		Context:  ctx,
		Matrix:   m,
	}, nil
}

// MineSpectrum is MinePatterns without keeping concepts or context.
func MineSpectrum(trains []spike_train.SpikeTrain, binSize float64, opts MineOptions) (*Spectrum, error) {
	res, err := MinePatterns(trains, binSize, opts)
	if err != nil {
		return nil, err
	}
	return res.Spectrum, nil
}
