package spike_train

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEventSequence is returned when an input value is not a spike train.
	ErrNotEventSequence = errors.New("input is not an event sequence")
	// ErrMismatchedStop is returned when trains of one session disagree on t_stop (or t_start).
	ErrMismatchedStop = errors.New("spike trains do not share the same observation window")
	// ErrOutOfRange is returned for spike times outside [t_start, t_stop].
	ErrOutOfRange = errors.New("spike time outside the observation window")
	// ErrUnsorted is returned for spike times that are not strictly increasing.
	ErrUnsorted = errors.New("spike times are not strictly increasing")
	// ErrInvalidParameter is the class of every ParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParameterError names the offending parameter and the value it was given.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func NewParameterError(name string, value any, reason string) *ParameterError {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}
