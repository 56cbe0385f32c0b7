package spade

import (
	"fmt"
	"io"
	"strings"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/significance"
)

// PrintReport writes the patterns of res grouped by signature, largest first.
//
//	[size 6, support 15]
//	└── 1b4e28ba n0@0 n1@1 n2@2 n3@3 n4@4 n5@5  p=0.01  stability=(1.00, 1.00)
//	      ↳ 2000 2066 2132 ...
func PrintReport(w io.Writer, res *Result) {
	fmt.Fprintf(w, "run %s: %d pattern(s)\n", res.RunID.String()[:8], len(res.Patterns))
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "! %s\n", warn)
	}

	var groups [][]Pattern
	for i, p := range res.Patterns {
		if i == 0 || p.Signature != res.Patterns[i-1].Signature {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], p)
	}

	for _, g := range groups {
		fmt.Fprintf(w, "\n%s\n", signatureHeader(g[0].Signature))
		for i, p := range g {
			prefix := "├──"
			if i == len(g)-1 {
				prefix = "└──"
			}
			fmt.Fprintf(w, "%s %s %s  p=%s  stability=%s\n",
				prefix, p.ID.String()[:8], patternItems(p), formatPValue(p.PValue),
				formatStability(p.IntentStability, p.ExtentStability))
			fmt.Fprintf(w, "      ↳ %s\n", formatTimes(p.Times))
		}
	}
}

// PrintSpectrum writes one line per signature with its count and, when
// available, its p-value.
func PrintSpectrum(w io.Writer, spectrum *pattern_mining.Spectrum, pv *significance.PValueSpectrum) {
	fmt.Fprintf(w, "spectrum %s: %d signature(s), %d pattern(s)\n", spectrum.Kind(), spectrum.Len(), spectrum.Total())
	for _, e := range spectrum.Entries() {
		line := fmt.Sprintf("%s count=%d", signatureHeader(e.Signature), e.Count)
		if pv != nil {
			if p, ok := pv.PValue(e.Signature); ok {
				line += " p=" + formatPValue(p)
			}
		}
		fmt.Fprintln(w, line)
	}
}

func signatureHeader(sig pattern_mining.Signature) string {
	if sig.MaxLag > 0 {
		return fmt.Sprintf("[size %d, support %d, max lag %d]", sig.Size, sig.Support, sig.MaxLag)
	}
	return fmt.Sprintf("[size %d, support %d]", sig.Size, sig.Support)
}

func patternItems(p Pattern) string {
	items := make([]string, len(p.Neurons))
	for i := range p.Neurons {
		items[i] = fmt.Sprintf("%s@%d", p.NeuronNames[i], p.Lags[i])
	}
	return strings.Join(items, " ")
}

func formatPValue(p float64) string {
	if p == pattern_mining.Untested {
		return "untested"
	}
	return fmt.Sprintf("%.4g", p)
}

func formatStability(intent, extent float64) string {
	if intent == pattern_mining.NotEstimated || extent == pattern_mining.NotEstimated {
		return "n/a"
	}
	return fmt.Sprintf("(%.2f, %.2f)", intent, extent)
}

func formatTimes(times []float64) string {
	const shown = 8
	parts := make([]string, 0, shown+1)
	for i, t := range times {
		if i == shown {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(times)-shown))
			break
		}
		parts = append(parts, fmt.Sprintf("%g", t))
	}
	return strings.Join(parts, " ")
}
