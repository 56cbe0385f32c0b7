package spade

import (
	"fmt"
	"io"

	"github.com/jtomasevic/spade/pkg/significance"
)

// Warning is a non-fatal condition raised during a run.
type Warning = significance.Warning

// WarningStabilitySkipped: no stability subsets were requested, concepts
// keep the not-estimated sentinel.
const WarningStabilitySkipped significance.WarningCode = "stability_skipped"

// Listener is notified as a run finishes: every warning first, then every
// reported pattern in report order.
type Listener interface {
	OnWarning(w Warning)
	OnPatternDetected(p Pattern)
}

// MultiListener fans out to every listener in order.
type MultiListener []Listener

func (m MultiListener) OnWarning(w Warning) {
	for _, l := range m {
		l.OnWarning(w)
	}
}

func (m MultiListener) OnPatternDetected(p Pattern) {
	for _, l := range m {
		l.OnPatternDetected(p)
	}
}

// PrintListener writes one line per warning and per pattern.
type PrintListener struct {
	W io.Writer
}

func NewPrintListener(w io.Writer) *PrintListener {
	return &PrintListener{W: w}
}

func (p *PrintListener) OnWarning(w Warning) {
	fmt.Fprintf(p.W, "WARNING %s\n", w)
}

func (p *PrintListener) OnPatternDetected(pt Pattern) {
	fmt.Fprintf(p.W, "PATTERN %s [%s] support=%d p=%s\n",
		pt.ID.String()[:8], patternItems(pt), pt.Signature.Support, formatPValue(pt.PValue))
}
