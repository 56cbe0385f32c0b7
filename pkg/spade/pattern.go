package spade

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
)

var patternNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("spade.pattern"))

// Pattern is the reported form of a concept.
type Pattern struct {
	// ID depends only on the intent and the extent.
	ID uuid.UUID `yaml:"id" json:"id"`

	Neurons     []int    `yaml:"neurons,flow" json:"neurons"`
	NeuronNames []string `yaml:"neuron_names,flow" json:"neuron_names"`
	// Lags are in bins relative to the first neuron; LagTimes in time units.
	Lags     []int     `yaml:"lags,flow" json:"lags"`
	LagTimes []float64 `yaml:"lag_times,flow" json:"lag_times"`

	// Windows are the start bins of the occurrences, Times their start times.
	Windows []int     `yaml:"windows,flow" json:"windows"`
	Times   []float64 `yaml:"times,flow" json:"times"`

	Signature       pattern_mining.Signature `yaml:"signature" json:"signature"`
	PValue          float64                  `yaml:"pvalue" json:"pvalue"`
	IntentStability float64                  `yaml:"intent_stability" json:"intent_stability"`
	ExtentStability float64                  `yaml:"extent_stability" json:"extent_stability"`
}

// PatternID is the deterministic identifier of a concept.
func PatternID(c pattern_mining.Concept) uuid.UUID {
	return uuid.NewSHA1(patternNamespace, []byte(fmt.Sprintf("%s|%v", c.Intent, c.Extent)))
}

type patternBuilder struct {
	names   []string
	binSize float64
	tStart  float64
	kind    pattern_mining.SpectrumKind
}

func (b patternBuilder) build(c pattern_mining.Concept) Pattern {
	p := Pattern{
		ID:              PatternID(c),
		Neurons:         c.Neurons(),
		Lags:            c.Lags(),
		Windows:         append([]int(nil), c.Extent...),
		Signature:       b.kind.SignatureOf(c),
		PValue:          c.PValue,
		IntentStability: c.IntentStability,
		ExtentStability: c.ExtentStability,
	}
	p.NeuronNames = make([]string, len(p.Neurons))
	for i, n := range p.Neurons {
		if n < len(b.names) && b.names[n] != "" {
			p.NeuronNames[i] = b.names[n]
		} else {
			p.NeuronNames[i] = fmt.Sprintf("n%d", n)
		}
	}
	p.LagTimes = make([]float64, len(p.Lags))
	for i, l := range p.Lags {
		p.LagTimes[i] = float64(l) * b.binSize
	}
	// the first item of an anchored concept sits in the window's first bin
	offset := 0
	if len(c.Intent) > 0 {
		offset = c.Intent[0].Lag
	}
	p.Times = make([]float64, len(c.Extent))
	for i, w := range c.Extent {
		p.Times[i] = b.tStart + float64(w+offset)*b.binSize
	}
	return p
}

func (b patternBuilder) buildAll(concepts []pattern_mining.Concept) []Pattern {
	out := make([]Pattern, len(concepts))
	for i, c := range concepts {
		out[i] = b.build(c)
	}
	return out
}
