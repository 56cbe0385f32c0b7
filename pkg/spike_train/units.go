package spike_train

import (
	"fmt"
	"strconv"
	"strings"
)

type Unit string

const (
	Second      Unit = "s"
	Millisecond Unit = "ms"
	Microsecond Unit = "us"
)

// Seconds returns how many seconds one unit lasts.
func (u Unit) Seconds() float64 {
	switch u {
	case Second:
		return 1
	case Millisecond:
		return 1e-3
	case Microsecond:
		return 1e-6
	default:
		return 0
	}
}

// Convert expresses v (given in u) in the target unit.
func (u Unit) Convert(v float64, target Unit) float64 {
	if target.Seconds() == 0 {
		return 0
	}
	return v * u.Seconds() / target.Seconds()
}

func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sec", "second", "seconds":
		return Second, nil
	case "ms", "millisecond", "milliseconds":
		return Millisecond, nil
	case "us", "µs", "microsecond", "microseconds":
		return Microsecond, nil
	default:
		return "", NewParameterError("unit", s, "expected one of s, ms, us")
	}
}

// ParseQuantity reads values such as "1ms", "0.5 s" or "15" and returns the
// magnitude expressed in target. A bare number is taken to be in target.
func ParseQuantity(s string, target Unit) (float64, error) {
	raw := strings.TrimSpace(s)
	i := len(raw)
	for i > 0 {
		c := raw[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	num, suffix := strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i:])
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("quantity %q: %w", s, NewParameterError("quantity", s, "not a number"))
	}
	if suffix == "" {
		return v, nil
	}
	u, err := ParseUnit(suffix)
	if err != nil {
		return 0, err
	}
	return u.Convert(v, target), nil
}
