package pattern_mining

import (
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// Bounds decides which mined patterns are reported.
//
// A zero max bound means unbounded. Spikes bound the pattern size (number of
// (neuron, lag) items), Neurons bound the number of distinct neurons.
type Bounds struct {
	MinSpikes  int `yaml:"min_spikes" validate:"gte=0"`
	MaxSpikes  int `yaml:"max_spikes" validate:"gte=0"`
	MinSupport int `yaml:"min_occ" validate:"gte=0"`
	MaxSupport int `yaml:"max_occ" validate:"gte=0"`
	MinNeurons int `yaml:"min_neu" validate:"gte=0"`
	MaxNeurons int `yaml:"max_neu" validate:"gte=0"`
}

// Validate rejects negative bounds and max bounds below their min.
func (b Bounds) Validate() error {
	pairs := []struct {
		loName, hiName string
		lo, hi         int
	}{
		{"min_spikes", "max_spikes", b.MinSpikes, b.MaxSpikes},
		{"min_occ", "max_occ", b.MinSupport, b.MaxSupport},
		{"min_neu", "max_neu", b.MinNeurons, b.MaxNeurons},
	}
	for _, p := range pairs {
		if p.lo < 0 {
			return spike_train.NewParameterError(p.loName, p.lo, "must be non-negative")
		}
		if p.hi < 0 {
			return spike_train.NewParameterError(p.hiName, p.hi, "must be non-negative")
		}
		if p.hi > 0 && p.hi < p.lo {
			return spike_train.NewParameterError(p.hiName, p.hi, "smaller than "+p.loName)
		}
	}
	return nil
}

// EffectiveMinSupport is the support threshold handed to the miners.
func (b Bounds) EffectiveMinSupport() int {
	if b.MinSupport < 1 {
		return 1
	}
	return b.MinSupport
}

// Allows reports whether c falls within every bound.
func (b Bounds) Allows(c Concept) bool {
	if !within(c.Size(), b.MinSpikes, b.MaxSpikes) {
		return false
	}
	if !within(c.Support(), b.MinSupport, b.MaxSupport) {
		return false
	}
	return within(c.NeuronCount(), b.MinNeurons, b.MaxNeurons)
}

func within(v, lo, hi int) bool {
	if v < lo {
		return false
	}
	return hi == 0 || v <= hi
}
