package significance

import (
	"sort"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
)

// PValue is the p-value of one signature.
type PValue struct {
	pattern_mining.Signature `yaml:",inline"`
	P                        float64 `yaml:"p" json:"p"`
}

// PValueSpectrum maps every observed signature to its p-value.
// With N == 0, or after a failed surrogate run, every value is Untested.
type PValueSpectrum struct {
	Kind     pattern_mining.SpectrumKind
	N        int
	Warnings []Warning

	values   map[pattern_mining.Signature]float64
	untested bool
}

// NewPValueSpectrum builds a spectrum from explicit entries.
func NewPValueSpectrum(kind pattern_mining.SpectrumKind, n int, entries ...PValue) *PValueSpectrum {
	p := &PValueSpectrum{Kind: kind, N: n, values: make(map[pattern_mining.Signature]float64, len(entries))}
	for _, e := range entries {
		p.values[e.Signature] = e.P
	}
	p.untested = n == 0
	return p
}

// UntestedPValues marks every observed signature untested and records why.
func UntestedPValues(observed *pattern_mining.Spectrum, w Warning) *PValueSpectrum {
	p := &PValueSpectrum{
		Kind:     observed.Kind(),
		values:   make(map[pattern_mining.Signature]float64, observed.Len()),
		untested: true,
		Warnings: []Warning{w},
	}
	for _, sig := range observed.Signatures() {
		p.values[sig] = pattern_mining.Untested
	}
	return p
}

// Untested reports whether the p-values carry no information.
func (p *PValueSpectrum) Untested() bool { return p.untested }

// Len returns the number of tested signatures.
func (p *PValueSpectrum) Len() int { return len(p.values) }

// PValue returns the p-value of sig.
func (p *PValueSpectrum) PValue(sig pattern_mining.Signature) (float64, bool) {
	v, ok := p.values[sig]
	return v, ok
}

// Entries returns every p-value ordered by signature.
func (p *PValueSpectrum) Entries() []PValue {
	out := make([]PValue, 0, len(p.values))
	for sig, v := range p.values {
		out = append(out, PValue{Signature: sig, P: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Signature.Less(out[j].Signature) })
	return out
}
