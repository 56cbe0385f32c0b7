package significance

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jtomasevic/spade/pkg/pattern_mining"
	"github.com/jtomasevic/spade/pkg/spike_train"
)

func sig(size, support int) pattern_mining.Signature {
	return pattern_mining.Signature{Size: size, Support: support}
}

// spectrumOf builds a 2d spectrum holding count patterns per signature.
func spectrumOf(counts map[pattern_mining.Signature]int) *pattern_mining.Spectrum {
	s := pattern_mining.NewSpectrum(pattern_mining.Spectrum2D)
	next := 0
	for sg, n := range counts {
		for k := 0; k < n; k++ {
			items := make([]pattern_mining.Item, sg.Size)
			for i := range items {
				items[i] = pattern_mining.Item{Neuron: next + i}
			}
			next += sg.Size
			windows := make([]int, sg.Support)
			for i := range windows {
				windows[i] = i * 100
			}
			s.Add(pattern_mining.NewConcept(pattern_mining.NewItemset(items...), windows))
		}
	}
	return s
}

func patt3(t *testing.T) []spike_train.SpikeTrain {
	t.Helper()
	onsets := spike_train.Arange(2000, 3000, 66)[:15]
	trains, err := spike_train.Planted("n", onsets, []float64{0, 1, 2, 3, 4, 5}, 0, 3000)
	require.NoError(t, err)
	return trains
}

/*
========================
Null distribution
========================
*/

func TestNullDistribution_PValueRule(t *testing.T) {
	observed := spectrumOf(map[pattern_mining.Signature]int{
		sig(2, 5): 2,
		sig(3, 4): 3,
		sig(4, 4): 1,
	})
	null := NewNullDistribution(observed)
	require.Equal(t, pattern_mining.Untested, null.PValue(sig(2, 5)))

	null.Fold(spectrumOf(map[pattern_mining.Signature]int{sig(2, 5): 3, sig(3, 4): 1}))
	null.Fold(spectrumOf(map[pattern_mining.Signature]int{sig(2, 5): 1, sig(3, 4): 1}))
	null.Fold(spectrumOf(nil))
	null.Fold(spectrumOf(map[pattern_mining.Signature]int{sig(2, 5): 2}))

	require.Equal(t, 4, null.Trials())
	// reached the observed count in 2 of 4 trials
	require.InDelta(t, 0.5, null.PValue(sig(2, 5)), 1e-12)
	// seen, never as often as observed
	require.Zero(t, null.PValue(sig(3, 4)))
	// never seen: resolution floor
	require.InDelta(t, 0.25, null.PValue(sig(4, 4)), 1e-12)
}

/*
========================
Corrections
========================
*/

func TestParseCorrection(t *testing.T) {
	for in, want := range map[string]Correction{
		"": NoCorrection, "no": NoCorrection,
		"b": Bonferroni, "bonf": Bonferroni, "Bonferroni": Bonferroni,
		"fdr": FDRBH, "fdr_bh": FDRBH,
	} {
		got, err := ParseCorrection(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseCorrection("try")
	require.ErrorIs(t, err, ErrUnknownCorrection)
}

func TestTestSignificance_Corrections(t *testing.T) {
	pv := NewPValueSpectrum(pattern_mining.Spectrum2D, 100,
		PValue{Signature: sig(2, 3), P: 0.2},
		PValue{Signature: sig(2, 4), P: 0.01},
		PValue{Signature: sig(3, 5), P: 0.02},
	)

	table, err := TestSignificance(pv, 0.05, NoCorrection)
	require.NoError(t, err)
	require.Equal(t, []pattern_mining.Signature{sig(2, 3)}, table.NonSignificant())

	table, err = TestSignificance(pv, 0.05, Bonferroni)
	require.NoError(t, err)
	require.InDelta(t, 0.05/3, table.Threshold(), 1e-12)
	require.True(t, table.IsSignificant(sig(2, 4)))
	require.False(t, table.IsSignificant(sig(3, 5)))
	require.Equal(t, []pattern_mining.Signature{sig(2, 3), sig(3, 5)}, table.NonSignificant())

	table, err = TestSignificance(pv, 0.05, FDRBH)
	require.NoError(t, err)
	require.InDelta(t, 0.02, table.Threshold(), 1e-12)
	require.True(t, table.IsSignificant(sig(3, 5)))
	require.False(t, table.IsSignificant(sig(2, 3)))

	require.True(t, table.ResidualExcluded(2, 3))
	require.False(t, table.ResidualExcluded(2, 4))
	// never tested
	require.False(t, table.ResidualExcluded(7, 7))
	require.False(t, table.IsSignificant(sig(7, 7)))
}

func TestTestSignificance_Errors(t *testing.T) {
	pv := NewPValueSpectrum(pattern_mining.Spectrum2D, 10,
		PValue{Signature: sig(2, 3), P: 0.2},
		PValue{Signature: sig(2, 4), P: 0.1},
	)
	_, err := TestSignificance(pv, 0.01, "try")
	require.ErrorIs(t, err, ErrUnknownCorrection)

	var pe *spike_train.ParameterError
	_, err = TestSignificance(pv, 0, NoCorrection)
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "alpha", pe.Name)
}

func TestTestSignificance_UntestedKeepsEverything(t *testing.T) {
	observed := spectrumOf(map[pattern_mining.Signature]int{sig(2, 5): 1})
	pv := UntestedPValues(observed, Warning{Code: WarningUntested})

	table, err := TestSignificance(pv, 0.05, Bonferroni)
	require.NoError(t, err)
	require.True(t, table.Untested())
	require.True(t, table.IsSignificant(sig(2, 5)))
	require.Empty(t, table.NonSignificant())
	require.False(t, table.ResidualExcluded(2, 5))

	c := pattern_mining.NewConcept(pattern_mining.NewItemset(
		pattern_mining.Item{Neuron: 0}, pattern_mining.Item{Neuron: 1}), []int{0, 100, 200, 300, 400})
	kept := table.Apply([]pattern_mining.Concept{c})
	require.Len(t, kept, 1)
	require.Equal(t, pattern_mining.Untested, kept[0].PValue)
}

/*
========================
Surrogate engine
========================
*/

func TestSurrogatePValues_NoSurrogates(t *testing.T) {
	trains := patt3(t)
	opts := pattern_mining.MineOptions{WinLen: 10}
	res, err := pattern_mining.MinePatterns(trains, 1, opts)
	require.NoError(t, err)

	pv, err := SurrogatePValues(context.Background(), trains, 1, opts, res.Spectrum, SurrogateOptions{N: 0})
	require.NoError(t, err)
	require.True(t, pv.Untested())
	require.Len(t, pv.Warnings, 1)
	require.Equal(t, WarningUntested, pv.Warnings[0].Code)
	for _, e := range pv.Entries() {
		require.Equal(t, pattern_mining.Untested, e.P)
	}

	var pe *spike_train.ParameterError
	_, err = SurrogatePValues(context.Background(), trains, 1, opts, res.Spectrum, SurrogateOptions{N: -3})
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "n_surr", pe.Name)
}

func TestSurrogatePValues_PlantedPatternIsRare(t *testing.T) {
	trains := patt3(t)
	opts := pattern_mining.MineOptions{WinLen: 10}
	res, err := pattern_mining.MinePatterns(trains, 1, opts)
	require.NoError(t, err)

	run := func(workers int) *PValueSpectrum {
		pv, err := SurrogatePValues(context.Background(), trains, 1, opts, res.Spectrum, SurrogateOptions{
			N:       20,
			Func:    DitherSpikes(15),
			Seed:    7,
			Workers: workers,
		})
		require.NoError(t, err)
		return pv
	}

	pv := run(1)
	require.False(t, pv.Untested())
	require.Equal(t, 20, pv.N)
	p, ok := pv.PValue(sig(6, 15))
	require.True(t, ok)
	require.InDelta(t, 1.0/20, p, 1e-12)

	// worker count never changes the outcome
	require.Equal(t, pv.Entries(), run(4).Entries())
}

func TestSurrogatePValues_FailedTrialMeansUntested(t *testing.T) {
	trains := patt3(t)
	opts := pattern_mining.MineOptions{WinLen: 10}
	res, err := pattern_mining.MinePatterns(trains, 1, opts)
	require.NoError(t, err)

	boom := func(tr spike_train.SpikeTrain, _ rand.Source) (spike_train.SpikeTrain, error) {
		return spike_train.SpikeTrain{}, errors.New("boom")
	}
	pv, err := SurrogatePValues(context.Background(), trains, 1, opts, res.Spectrum, SurrogateOptions{N: 5, Func: boom})
	require.NoError(t, err)
	require.True(t, pv.Untested())
	require.Equal(t, WarningSurrogatesFailed, pv.Warnings[0].Code)
	require.Contains(t, pv.Warnings[0].Message, "boom")
}

func TestSurrogatePValues_Cancelled(t *testing.T) {
	trains := patt3(t)
	opts := pattern_mining.MineOptions{WinLen: 10}
	res, err := pattern_mining.MinePatterns(trains, 1, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SurrogatePValues(ctx, trains, 1, opts, res.Spectrum, SurrogateOptions{N: 5})
	require.ErrorIs(t, err, context.Canceled)
}

/*
========================
Surrogate generators
========================
*/

func TestSurrogates_KeepWindowAndCount(t *testing.T) {
	train, err := spike_train.Poisson("a", 0.02, 0, 3000, rand.NewPCG(1, 1))
	require.NoError(t, err)

	for name, fn := range map[string]SurrogateFunc{
		"dither":    DitherSpikes(15),
		"randomize": RandomizeSpikes(),
		"shift":     ShiftTrain(50),
	} {
		t.Run(name, func(t *testing.T) {
			s, err := fn(train, rand.NewPCG(3, 4))
			require.NoError(t, err)
			require.NoError(t, s.Validate())
			require.Equal(t, train.TStart, s.TStart)
			require.Equal(t, train.TStop, s.TStop)
			require.Equal(t, train.Len(), s.Len())
			require.NotEqual(t, train.Times, s.Times)
		})
	}

	s, err := HomogeneousPoisson()(train, rand.NewPCG(3, 4))
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	require.InDelta(t, train.Len(), s.Len(), 5*8)
}

func TestDitherSpikes_ReflectsAtEdges(t *testing.T) {
	train, err := spike_train.NewSpikeTrain("a", []float64{0, 1, 999, 1000}, 0, 1000)
	require.NoError(t, err)

	for seed := uint64(0); seed < 20; seed++ {
		s, err := DitherSpikes(30)(train, rand.NewPCG(seed, 0))
		require.NoError(t, err)
		require.NoError(t, s.Validate())
	}
}

func TestSurrogateByName(t *testing.T) {
	for _, name := range []string{"", "dither_spikes", "randomise_spikes", "shift_spiketrain", "homogeneous_poisson_process"} {
		fn, err := SurrogateByName(name, 15)
		require.NoError(t, err, name)
		require.NotNil(t, fn)
	}

	_, err := SurrogateByName("jitter_spikes_somehow", 15)
	require.ErrorIs(t, err, ErrUnknownSurrogate)

	_, err = SurrogateByName("dither_spikes", 0)
	require.ErrorIs(t, err, spike_train.ErrInvalidParameter)
}
