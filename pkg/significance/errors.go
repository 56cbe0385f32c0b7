package significance

import "errors"

var (
	// ErrUnknownCorrection is returned for a multiple-comparison correction that is not supported.
	ErrUnknownCorrection = errors.New("unknown multiple-comparison correction")
	// ErrUnknownSurrogate is returned for a surrogate method that is not registered.
	ErrUnknownSurrogate = errors.New("unknown surrogate method")
)

type WarningCode string

const (
	// WarningUntested: no surrogates were run, p-values are the untested sentinel.
	WarningUntested WarningCode = "untested_significance"
	// WarningSurrogatesFailed: at least one surrogate trial failed, p-values are untested.
	WarningSurrogatesFailed WarningCode = "surrogates_failed"
)

// Warning is a non-fatal condition the caller must be able to observe.
type Warning struct {
	Code    WarningCode `yaml:"code" json:"code"`
	Message string      `yaml:"message" json:"message"`
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
