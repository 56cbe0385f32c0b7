package significance

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jtomasevic/spade/pkg/spike_train"
)

// SurrogateFunc returns a randomised copy of train drawing only from src.
// The copy keeps the observation window of the original.
type SurrogateFunc func(train spike_train.SpikeTrain, src rand.Source) (spike_train.SpikeTrain, error)

// DitherSpikes moves every spike independently by a uniform amount in
// [-dither, dither]. Spikes pushed out of the window are reflected back in,
// so the spike count is kept.
func DitherSpikes(dither float64) SurrogateFunc {
	return func(train spike_train.SpikeTrain, src rand.Source) (spike_train.SpikeTrain, error) {
		if dither <= 0 || len(train.Times) == 0 {
			return train, nil
		}
		u := distuv.Uniform{Min: -dither, Max: dither, Src: src}
		times := make([]float64, len(train.Times))
		for i, t := range train.Times {
			times[i] = reflectInto(t+u.Rand(), train.TStart, train.TStop)
		}
		return spike_train.FromUnsorted(train.Name, times, train.TStart, train.TStop)
	}
}

// RandomizeSpikes draws the same number of spikes uniformly over the window.
func RandomizeSpikes() SurrogateFunc {
	return func(train spike_train.SpikeTrain, src rand.Source) (spike_train.SpikeTrain, error) {
		times := spike_train.Uniform(len(train.Times), train.TStart, train.TStop, src)
		return spike_train.FromUnsorted(train.Name, times, train.TStart, train.TStop)
	}
}

// ShiftTrain shifts the whole train by a uniform amount in [-shift, shift],
// wrapping around the window.
func ShiftTrain(shift float64) SurrogateFunc {
	return func(train spike_train.SpikeTrain, src rand.Source) (spike_train.SpikeTrain, error) {
		if shift <= 0 || len(train.Times) == 0 {
			return train, nil
		}
		delta := distuv.Uniform{Min: -shift, Max: shift, Src: src}.Rand()
		times := append([]float64(nil), train.Times...)
		floats.AddConst(delta-train.TStart, times)
		d := train.Duration()
		for i, t := range times {
			t = math.Mod(t, d)
			if t < 0 {
				t += d
			}
			times[i] = train.TStart + t
		}
		return spike_train.FromUnsorted(train.Name, times, train.TStart, train.TStop)
	}
}

// HomogeneousPoisson replaces the train with a Poisson train of equal rate.
func HomogeneousPoisson() SurrogateFunc {
	return func(train spike_train.SpikeTrain, src rand.Source) (spike_train.SpikeTrain, error) {
		return spike_train.Poisson(train.Name, train.Rate(), train.TStart, train.TStop, src)
	}
}

// SurrogateByName resolves a surrogate method. dither is the maximal
// displacement used by the dithering and shifting methods.
func SurrogateByName(name string, dither float64) (SurrogateFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dither_spikes", "dither":
		if !(dither > 0) {
			return nil, spike_train.NewParameterError("dither", dither, "must be positive")
		}
		return DitherSpikes(dither), nil
	case "randomise_spikes", "randomize_spikes", "randomise", "randomize":
		return RandomizeSpikes(), nil
	case "shift_spiketrain", "shift":
		if !(dither > 0) {
			return nil, spike_train.NewParameterError("dither", dither, "must be positive")
		}
		return ShiftTrain(dither), nil
	case "homogeneous_poisson_process", "poisson":
		return HomogeneousPoisson(), nil
	default:
		return nil, fmt.Errorf("surrogate %q: %w", name, ErrUnknownSurrogate)
	}
}

// reflectInto folds t back into [lo, hi].
func reflectInto(t, lo, hi float64) float64 {
	for t < lo || t > hi {
		if t < lo {
			t = 2*lo - t
		}
		if t > hi {
			t = 2*hi - t
		}
	}
	return t
}
