package significance

import (
	"sort"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/spike_train"
)

// SignificanceTable is the outcome of testing a p-value spectrum.
// An untested table treats every signature as significant.
type SignificanceTable struct {
	Alpha      float64
	Correction Correction

	kind        pattern_mining.SpectrumKind
	untested    bool
	threshold   float64
	pvalues     map[pattern_mining.Signature]float64
	significant map[pattern_mining.Signature]bool
}

// TestSignificance applies alpha and a multiple-comparison correction over
// every signature of pv. The number of comparisons is pv.Len().
func TestSignificance(pv *PValueSpectrum, alpha float64, corr Correction) (*SignificanceTable, error) {
	if !(alpha > 0 && alpha <= 1) {
		return nil, spike_train.NewParameterError("alpha", alpha, "must be in (0, 1]")
	}
	corr, err := ParseCorrection(string(corr))
	if err != nil {
		return nil, err
	}

	t := &SignificanceTable{
		Alpha:       alpha,
		Correction:  corr,
		kind:        pv.Kind,
		untested:    pv.Untested(),
		pvalues:     make(map[pattern_mining.Signature]float64, pv.Len()),
		significant: make(map[pattern_mining.Signature]bool, pv.Len()),
	}
	entries := pv.Entries()
	for _, e := range entries {
		t.pvalues[e.Signature] = e.P
	}
	if t.untested {
		for _, e := range entries {
			t.significant[e.Signature] = true
		}
		return t, nil
	}

	ps := make([]float64, len(entries))
	for i, e := range entries {
		ps[i] = e.P
	}
	threshold, passes := corr.threshold(ps, alpha)
	t.threshold = threshold
	for _, e := range entries {
		t.significant[e.Signature] = passes && e.P >= 0 && e.P <= threshold
	}
	return t, nil
}

func (t *SignificanceTable) Untested() bool { return t.untested }

// Threshold is the corrected level p-values are compared against (0 if
// nothing can pass).
func (t *SignificanceTable) Threshold() float64 { return t.threshold }

// IsSignificant reports whether sig cleared the corrected threshold.
// Signatures outside a tested table are not significant.
func (t *SignificanceTable) IsSignificant(sig pattern_mining.Signature) bool {
	return t.untested || t.significant[sig]
}

// PValue returns the p-value of sig, Untested if sig is not in the table.
func (t *SignificanceTable) PValue(sig pattern_mining.Signature) float64 {
	if v, ok := t.pvalues[sig]; ok {
		return v
	}
	return pattern_mining.Untested
}

// NonSignificant returns the signatures that failed the test, ordered.
func (t *SignificanceTable) NonSignificant() []pattern_mining.Signature {
	var out []pattern_mining.Signature
	for sig, ok := range t.significant {
		if !ok {
			out = append(out, sig)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ResidualExcluded reports whether a (size, support) residual left by
// pattern-set reduction matches a non-significant signature of any duration.
func (t *SignificanceTable) ResidualExcluded(size, support int) bool {
	if t.untested {
		return false
	}
	for sig, ok := range t.significant {
		if !ok && sig.Size == size && sig.Support == support {
			return true
		}
	}
	return false
}

// Apply annotates every concept with its p-value and keeps the significant ones.
func (t *SignificanceTable) Apply(concepts []pattern_mining.Concept) []pattern_mining.Concept {
	out := make([]pattern_mining.Concept, 0, len(concepts))
	for _, c := range concepts {
		sig := t.kind.SignatureOf(c)
		c.PValue = t.PValue(sig)
		if t.IsSignificant(sig) {
			out = append(out, c)
		}
	}
	return out
}
