package significance

import (
	"fmt"
	"sort"
	"strings"
)

type Correction string

const (
	NoCorrection Correction = "none"
	Bonferroni   Correction = "bonferroni"
	// FDRBH is the Benjamini-Hochberg false discovery rate procedure.
	FDRBH Correction = "fdr_bh"
)

// ParseCorrection accepts the canonical names and their short forms:
// "", "no", "none"; "b", "bonf", "bonferroni"; "fdr", "fdr_bh".
func ParseCorrection(s string) (Correction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "none":
		return NoCorrection, nil
	case "b", "bonf", "bonferroni":
		return Bonferroni, nil
	case "fdr", "fdr_bh":
		return FDRBH, nil
	default:
		return "", fmt.Errorf("correction %q: %w", s, ErrUnknownCorrection)
	}
}

// threshold returns the largest p-value still significant among pvalues
// at level alpha, and whether any p-value passes at all.
func (c Correction) threshold(pvalues []float64, alpha float64) (float64, bool) {
	m := len(pvalues)
	if m == 0 {
		return 0, false
	}
	switch c {
	case Bonferroni:
		return alpha / float64(m), true
	case FDRBH:
		sorted := append([]float64(nil), pvalues...)
		sort.Float64s(sorted)
		for k := m; k >= 1; k-- {
			if sorted[k-1] <= float64(k)/float64(m)*alpha {
				return sorted[k-1], true
			}
		}
		return 0, false
	default:
		return alpha, true
	}
}
