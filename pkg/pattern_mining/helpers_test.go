package pattern_mining

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/spade/pkg/spike_train"
)

const (
	fixtureStop   = 3000.0
	fixtureWinLen = 10
)

// planted returns the trains of one repeating pattern.
func planted(t *testing.T, onsets []float64, lags ...float64) []spike_train.SpikeTrain {
	t.Helper()
	trains, err := spike_train.Planted("n", onsets, append([]float64{0}, lags...), 0, fixtureStop)
	require.NoError(t, err)
	return trains
}

func patt1(t *testing.T) []spike_train.SpikeTrain {
	return planted(t, spike_train.Arange(0, 1000, 100), 2)
}

func patt2(t *testing.T) []spike_train.SpikeTrain {
	return planted(t, spike_train.Arange(1000, 2000, 83)[:12], 1, 2)
}

func patt3(t *testing.T) []spike_train.SpikeTrain {
	return planted(t, spike_train.Arange(2000, 3000, 66)[:15], 1, 2, 3, 4, 5)
}

// msip is three disjoint patterns: 2 neurons x 10, 3 x 12, 6 x 15.
func msip(t *testing.T) []spike_train.SpikeTrain {
	var out []spike_train.SpikeTrain
	out = append(out, patt1(t)...)
	out = append(out, patt2(t)...)
	out = append(out, patt3(t)...)
	return out
}

func poissonTrains(t *testing.T, n int, rate, stop float64, seed uint64) []spike_train.SpikeTrain {
	t.Helper()
	out := make([]spike_train.SpikeTrain, n)
	for i := range out {
		tr, err := spike_train.Poisson("bg", rate, 0, stop, rand.NewPCG(seed, uint64(i)))
		require.NoError(t, err)
		out[i] = tr
	}
	return out
}

func buildContext(t *testing.T, trains []spike_train.SpikeTrain, winLen int) *Context {
	t.Helper()
	m, err := spike_train.Bin(trains, 1)
	require.NoError(t, err)
	ctx, err := BuildContext(m, winLen)
	require.NoError(t, err)
	return ctx
}

// conceptKeys renders concepts as sortable strings for set comparison.
func conceptKeys(concepts []Concept) []string {
	out := make([]string, len(concepts))
	for i, c := range concepts {
		out[i] = fmt.Sprint(c.Intent, c.Extent)
	}
	sort.Strings(out)
	return out
}
