package pattern_mining

import (
	"fmt"
	"sort"
	"strings"
)

type SpectrumKind string

const (
	// Spectrum2D groups patterns by (size, support).
	Spectrum2D SpectrumKind = "#"
	// Spectrum3D groups patterns by (size, support, max lag).
	Spectrum3D SpectrumKind = "3d#"
)

// ParseSpectrumKind accepts "#" and "3d#". The empty string means "#".
func ParseSpectrumKind(s string) (SpectrumKind, error) {
	switch strings.TrimSpace(s) {
	case "", string(Spectrum2D):
		return Spectrum2D, nil
	case string(Spectrum3D):
		return Spectrum3D, nil
	default:
		return "", fmt.Errorf("spectrum %q: %w", s, ErrUnknownSpectrum)
	}
}

// Signature is the key of a spectrum. MaxLag is always 0 in a 2d spectrum.
type Signature struct {
	Size    int `yaml:"size" json:"size"`
	Support int `yaml:"support" json:"support"`
	MaxLag  int `yaml:"max_lag,omitempty" json:"max_lag,omitempty"`
}

func (s Signature) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Size, s.Support, s.MaxLag)
}

// Less orders signatures by size, support, max lag.
func (s Signature) Less(o Signature) bool {
	if s.Size != o.Size {
		return s.Size < o.Size
	}
	if s.Support != o.Support {
		return s.Support < o.Support
	}
	return s.MaxLag < o.MaxLag
}

// SignatureOf returns the signature of c in a spectrum of this kind.
func (k SpectrumKind) SignatureOf(c Concept) Signature {
	sig := Signature{Size: c.Size(), Support: c.Support()}
	if k == Spectrum3D {
		sig.MaxLag = c.MaxLag()
	}
	return sig
}

// SpectrumEntry is one signature with its number of distinct patterns.
type SpectrumEntry struct {
	Signature `yaml:",inline"`
	Count     int `yaml:"count" json:"count"`
}

// Spectrum counts distinct patterns per signature.
// Not safe for concurrent use.
type Spectrum struct {
	kind      SpectrumKind
	counts    map[Signature]int
	durations map[[2]int]map[int]struct{}
}

func NewSpectrum(kind SpectrumKind) *Spectrum {
	if kind == "" {
		kind = Spectrum2D
	}
	return &Spectrum{
		kind:      kind,
		counts:    make(map[Signature]int),
		durations: make(map[[2]int]map[int]struct{}),
	}
}

func (s *Spectrum) Kind() SpectrumKind { return s.kind }

// Add counts one more pattern.
func (s *Spectrum) Add(c Concept) {
	s.counts[s.kind.SignatureOf(c)]++
	key := [2]int{c.Size(), c.Support()}
	d, ok := s.durations[key]
	if !ok {
		d = make(map[int]struct{})
		s.durations[key] = d
	}
	d[c.MaxLag()] = struct{}{}
}

// Count returns the number of patterns with signature sig.
func (s *Spectrum) Count(sig Signature) int {
	return s.counts[sig]
}

// Len returns the number of distinct signatures.
func (s *Spectrum) Len() int { return len(s.counts) }

// Total returns the number of patterns counted.
func (s *Spectrum) Total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Signatures returns every signature, ordered.
func (s *Spectrum) Signatures() []Signature {
	out := make([]Signature, 0, len(s.counts))
	for sig := range s.counts {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Entries returns every signature with its count, ordered.
func (s *Spectrum) Entries() []SpectrumEntry {
	sigs := s.Signatures()
	out := make([]SpectrumEntry, len(sigs))
	for i, sig := range sigs {
		out[i] = SpectrumEntry{Signature: sig, Count: s.counts[sig]}
	}
	return out
}

// DistinctDurations returns how many different max lags were seen among
// the patterns of the given size and support.
func (s *Spectrum) DistinctDurations(size, support int) int {
	return len(s.durations[[2]int{size, support}])
}
