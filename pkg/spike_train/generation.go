package spike_train

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Arange returns start, start+step, ... strictly below stop.
func Arange(start, stop, step float64) []float64 {
	if step <= 0 || stop <= start {
		return nil
	}
	n := int(math.Ceil((stop-start)/step - binTolerance))
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Poisson draws a homogeneous Poisson train with the given rate (spikes per
// time unit) on [tStart, tStop].
func Poisson(name string, rate, tStart, tStop float64, src rand.Source) (SpikeTrain, error) {
	if rate < 0 || math.IsNaN(rate) {
		return SpikeTrain{}, NewParameterError("rate", rate, "must be non-negative")
	}
	if tStop <= tStart {
		return SpikeTrain{}, NewParameterError("t_stop", tStop, "must be after t_start")
	}
	if rate == 0 {
		return NewSpikeTrain(name, nil, tStart, tStop)
	}

	isi := distuv.Exponential{Rate: rate, Src: src}
	var times []float64
	t := tStart
	for {
		t += isi.Rand()
		if t > tStop {
			break
		}
		if len(times) > 0 && t <= times[len(times)-1] {
			continue
		}
		times = append(times, t)
	}
	return NewSpikeTrain(name, times, tStart, tStop)
}

// Synchronous returns n trains that all fire at one shared Poisson carrier:
// a compound Poisson process whose amplitude is always n.
func Synchronous(n int, rate, tStart, tStop float64, src rand.Source) ([]SpikeTrain, error) {
	if n <= 0 {
		return nil, NewParameterError("n", n, "must be positive")
	}
	carrier, err := Poisson("carrier", rate, tStart, tStop, src)
	if err != nil {
		return nil, err
	}
	out := make([]SpikeTrain, n)
	for i := range out {
		out[i] = SpikeTrain{
			Name:   fmt.Sprintf("n%d", i),
			Times:  append([]float64(nil), carrier.Times...),
			TStart: tStart,
			TStop:  tStop,
		}
	}
	return out, nil
}

// Planted builds one train per lag: train i fires at onset+lags[i] for every
// onset. Occurrences that would fall past tStop are dropped from that train.
func Planted(prefix string, onsets, lags []float64, tStart, tStop float64) ([]SpikeTrain, error) {
	if len(lags) == 0 {
		return nil, NewParameterError("lags", 0, "at least one lag is required")
	}
	if floats.Min(lags) < 0 {
		return nil, NewParameterError("lags", lags, "must be non-negative")
	}
	out := make([]SpikeTrain, 0, len(lags))
	for i, lag := range lags {
		times := append([]float64(nil), onsets...)
		floats.AddConst(lag, times)
		kept := times[:0]
		for _, t := range times {
			if t >= tStart && t <= tStop {
				kept = append(kept, t)
			}
		}
		train, err := FromUnsorted(fmt.Sprintf("%s%d", prefix, i), kept, tStart, tStop)
		if err != nil {
			return nil, err
		}
		out = append(out, train)
	}
	return out, nil
}

// Shift returns a copy of the train with every spike moved by delta. Spikes
// leaving the window are dropped.
func Shift(train SpikeTrain, delta float64) SpikeTrain {
	times := append([]float64(nil), train.Times...)
	floats.AddConst(delta, times)
	kept := times[:0]
	for _, t := range times {
		if t >= train.TStart && t <= train.TStop {
			kept = append(kept, t)
		}
	}
	return SpikeTrain{Name: train.Name, Times: kept, TStart: train.TStart, TStop: train.TStop}
}

// Uniform returns count spike times drawn uniformly on [tStart, tStop).
func Uniform(count int, tStart, tStop float64, src rand.Source) []float64 {
	u := distuv.Uniform{Min: tStart, Max: tStop, Src: src}
	out := make([]float64, count)
	for i := range out {
		out[i] = u.Rand()
	}
	return out
}
