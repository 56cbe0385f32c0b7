package spike_train

import (
	"fmt"
	"math"
	"sort"
)

// EventSequence is the read-only view of one recorded channel.
type EventSequence interface {
	SpikeTimes() []float64
	Start() float64
	Stop() float64
}

// SpikeTrain is an immutable sequence of spike times for one neuron.
// Times are expressed in the unit of the session they belong to.
// Once built, a SpikeTrain MUST NOT be modified.
type SpikeTrain struct {
	Name   string
	Times  []float64
	TStart float64
	TStop  float64
}

// NewSpikeTrain validates times and returns a SpikeTrain owning a copy of them.
func NewSpikeTrain(name string, times []float64, tStart, tStop float64) (SpikeTrain, error) {
	train := SpikeTrain{
		Name:   name,
		Times:  append([]float64(nil), times...),
		TStart: tStart,
		TStop:  tStop,
	}
	if err := train.Validate(); err != nil {
		return SpikeTrain{}, err
	}
	return train, nil
}

// FromUnsorted sorts times, drops exact duplicates and builds a train.
// Surrogate generators rely on it since displaced spikes lose their order.
func FromUnsorted(name string, times []float64, tStart, tStop float64) (SpikeTrain, error) {
	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	out := sorted[:0]
	for i, t := range sorted {
		if i > 0 && t == sorted[i-1] {
			continue
		}
		out = append(out, t)
	}
	return NewSpikeTrain(name, out, tStart, tStop)
}

func (s SpikeTrain) SpikeTimes() []float64 { return s.Times }
func (s SpikeTrain) Start() float64        { return s.TStart }
func (s SpikeTrain) Stop() float64         { return s.TStop }
func (s SpikeTrain) Len() int              { return len(s.Times) }

// Duration returns t_stop - t_start.
func (s SpikeTrain) Duration() float64 {
	return s.TStop - s.TStart
}

// Rate returns the mean firing rate in spikes per time unit.
func (s SpikeTrain) Rate() float64 {
	d := s.Duration()
	if d <= 0 {
		return 0
	}
	return float64(len(s.Times)) / d
}

// Validate checks the train invariants: a non-empty window and strictly
// increasing times inside it.
func (s SpikeTrain) Validate() error {
	if math.IsNaN(s.TStart) || math.IsNaN(s.TStop) || s.TStop <= s.TStart {
		return fmt.Errorf("train %q: t_start=%v t_stop=%v: %w", s.Name, s.TStart, s.TStop, ErrOutOfRange)
	}
	for i, t := range s.Times {
		if t < s.TStart || t > s.TStop || math.IsNaN(t) {
			return fmt.Errorf("train %q: spike %d at %v not in [%v, %v]: %w", s.Name, i, t, s.TStart, s.TStop, ErrOutOfRange)
		}
		if i > 0 && t <= s.Times[i-1] {
			return fmt.Errorf("train %q: spike %d at %v after %v: %w", s.Name, i, t, s.Times[i-1], ErrUnsorted)
		}
	}
	return nil
}

// Collect converts loosely typed inputs into spike trains. Anything that is
// not a SpikeTrain, *SpikeTrain or EventSequence is rejected.
func Collect(inputs ...any) ([]SpikeTrain, error) {
	out := make([]SpikeTrain, 0, len(inputs))
	for i, in := range inputs {
		switch v := in.(type) {
		case SpikeTrain:
			out = append(out, v)
		case *SpikeTrain:
			if v == nil {
				return nil, fmt.Errorf("input %d is a nil train: %w", i, ErrNotEventSequence)
			}
			out = append(out, *v)
		case EventSequence:
			train, err := NewSpikeTrain(fmt.Sprintf("%d", i), v.SpikeTimes(), v.Start(), v.Stop())
			if err != nil {
				return nil, err
			}
			out = append(out, train)
		default:
			return nil, fmt.Errorf("input %d has type %T: %w", i, in, ErrNotEventSequence)
		}
	}
	return out, nil
}

// CheckSession validates every train and verifies they share one
// observation window.
func CheckSession(trains []SpikeTrain) error {
	if len(trains) == 0 {
		return NewParameterError("trains", 0, "at least one spike train is required")
	}
	first := trains[0]
	for i, tr := range trains {
		if err := tr.Validate(); err != nil {
			return err
		}
		if tr.TStop != first.TStop {
			return fmt.Errorf("train %d t_stop=%v differs from %v: %w", i, tr.TStop, first.TStop, ErrMismatchedStop)
		}
		if tr.TStart != first.TStart {
			return fmt.Errorf("train %d t_start=%v differs from %v: %w", i, tr.TStart, first.TStart, ErrMismatchedStop)
		}
	}
	return nil
}
