package pattern_mining

import "errors"

var (
	// ErrUnknownSpectrum is returned for a spectrum kind other than "#" or "3d#".
	ErrUnknownSpectrum = errors.New("unknown spectrum kind")
	// ErrUnknownStrategy is returned for a mining strategy name that is not registered.
	ErrUnknownStrategy = errors.New("unknown mining strategy")
)
