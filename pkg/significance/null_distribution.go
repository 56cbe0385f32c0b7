package significance

import (
	"sync"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
)

// NullDistribution folds surrogate spectra into per-signature counters.
//
// Only the signatures of the observed spectrum are tracked, and only as
// counters: a trial's spectrum is discarded once folded. Folding is
// commutative, so the order trials finish in does not matter.
type NullDistribution struct {
	mu sync.RWMutex

	observed map[pattern_mining.Signature]int

	// exceed[sig]: trials whose count at sig reached the observed count.
	exceed map[pattern_mining.Signature]int
	// present[sig]: trials where sig occurred at all.
	present map[pattern_mining.Signature]int

	trials int
}

func NewNullDistribution(observed *pattern_mining.Spectrum) *NullDistribution {
	d := &NullDistribution{
		observed: make(map[pattern_mining.Signature]int, observed.Len()),
		exceed:   make(map[pattern_mining.Signature]int, observed.Len()),
		present:  make(map[pattern_mining.Signature]int, observed.Len()),
	}
	for _, e := range observed.Entries() {
		d.observed[e.Signature] = e.Count
	}
	return d
}

// Fold adds one surrogate spectrum.
func (d *NullDistribution) Fold(surrogate *pattern_mining.Spectrum) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.trials++
	for sig, obs := range d.observed {
		n := surrogate.Count(sig)
		if n >= 1 {
			d.present[sig]++
		}
		if n >= obs {
			d.exceed[sig]++
		}
	}
}

func (d *NullDistribution) Trials() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.trials
}

// PValue is the fraction of trials at least as rich in sig as the data.
//
// When no trial reached the observed count the estimate would be 0. That is
// kept only if sig did occur in some trial; a signature never produced by
// any trial gets 1/N instead, the resolution of N trials.
func (d *NullDistribution) PValue(sig pattern_mining.Signature) float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.trials == 0 {
		return pattern_mining.Untested
	}
	if e := d.exceed[sig]; e > 0 {
		return float64(e) / float64(d.trials)
	}
	if d.present[sig] > 0 {
		return 0
	}
	return 1 / float64(d.trials)
}

// PValues evaluates every observed signature.
func (d *NullDistribution) PValues() map[pattern_mining.Signature]float64 {
	out := make(map[pattern_mining.Signature]float64, len(d.observed))
	for sig := range d.observed {
		out[sig] = d.PValue(sig)
	}
	return out
}
