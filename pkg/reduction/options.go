package reduction

import (
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// Judge decides whether a residual signature left by reduction is
// explained by chance. *significance.SignificanceTable implements it.
type Judge interface {
	ResidualExcluded(size, support int) bool
}

type options struct {
	subsetSlack   int
	supersetSlack int
	coveredOffset int
	maxMissing    int
	minOverlap    float64
	minSpikes     int
	minSupport    int
	judge         Judge
}

func defaultOptions() options {
	return options{
		minSpikes:  2,
		minSupport: 2,
	}
}

func (o options) validate() error {
	switch {
	case o.subsetSlack < 0:
		return spike_train.NewParameterError("psr_param.h", o.subsetSlack, "must be non-negative")
	case o.supersetSlack < 0:
		return spike_train.NewParameterError("psr_param.k", o.supersetSlack, "must be non-negative")
	case o.coveredOffset < 0:
		return spike_train.NewParameterError("psr_param.l", o.coveredOffset, "must be non-negative")
	case o.maxMissing < 0:
		return spike_train.NewParameterError("max_missing", o.maxMissing, "must be non-negative")
	case o.minOverlap < 0 || o.minOverlap > 1:
		return spike_train.NewParameterError("min_overlap", o.minOverlap, "must be in [0, 1]")
	case o.minSpikes < 0:
		return spike_train.NewParameterError("min_spikes", o.minSpikes, "must be non-negative")
	case o.minSupport < 0:
		return spike_train.NewParameterError("min_occ", o.minSupport, "must be non-negative")
	}
	return nil
}

type Option func(*options)

// WithSubsetSlack sets h: the subset residual support is c_B - c_A + h.
func WithSubsetSlack(h int) Option {
	return func(o *options) { o.subsetSlack = h }
}

// WithSupersetSlack sets k: the superset residual size is |A| - |B| + k.
func WithSupersetSlack(k int) Option {
	return func(o *options) { o.supersetSlack = k }
}

// WithCoveredSpikesOffset sets l in the (size - l) * support score.
func WithCoveredSpikesOffset(l int) Option {
	return func(o *options) { o.coveredOffset = l }
}

// WithMaxMissing lets B count as contained in A with up to n items absent from A.
func WithMaxMissing(n int) Option {
	return func(o *options) { o.maxMissing = n }
}

// WithMinOverlap requires |ext(A) ∩ ext(B)| / min(|ext(A)|, |ext(B)|) >= r.
func WithMinOverlap(r float64) Option {
	return func(o *options) { o.minOverlap = r }
}

// WithFloors excludes residuals smaller than minSpikes or rarer than minSupport.
func WithFloors(minSpikes, minSupport int) Option {
	return func(o *options) {
		o.minSpikes = minSpikes
		o.minSupport = minSupport
	}
}

// WithJudge excludes residuals the judge finds non-significant.
func WithJudge(j Judge) Option {
	return func(o *options) { o.judge = j }
}
