package spike_train

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

/*
========================
Validation
========================
*/

func TestSpikeTrain_New_RejectsUnsorted(t *testing.T) {
	_, err := NewSpikeTrain("a", []float64{1, 3, 2}, 0, 10)
	require.ErrorIs(t, err, ErrUnsorted)
}

func TestSpikeTrain_New_RejectsOutOfRange(t *testing.T) {
	_, err := NewSpikeTrain("a", []float64{1, 11}, 0, 10)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = NewSpikeTrain("a", nil, 5, 5)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSpikeTrain_FromUnsorted_SortsAndDedupes(t *testing.T) {
	train, err := FromUnsorted("a", []float64{4, 1, 4, 2}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 4}, train.Times)
	require.InDelta(t, 0.3, train.Rate(), 1e-12)
}

func TestCollect_RejectsNonEventSequence(t *testing.T) {
	train, err := NewSpikeTrain("a", []float64{1}, 0, 10)
	require.NoError(t, err)

	out, err := Collect(train, &train)
	require.NoError(t, err)
	require.Len(t, out, 2)

	_, err = Collect(train, []float64{1, 2})
	require.ErrorIs(t, err, ErrNotEventSequence)

	var nilTrain *SpikeTrain
	_, err = Collect(nilTrain)
	require.ErrorIs(t, err, ErrNotEventSequence)
}

func TestCheckSession_MismatchedStop(t *testing.T) {
	a, _ := NewSpikeTrain("a", []float64{1}, 0, 10)
	b, _ := NewSpikeTrain("b", []float64{1}, 0, 12)
	require.ErrorIs(t, CheckSession([]SpikeTrain{a, b}), ErrMismatchedStop)

	var pe *ParameterError
	require.True(t, errors.As(CheckSession(nil), &pe))
	require.Equal(t, "trains", pe.Name)
}

/*
========================
Units
========================
*/

func TestParseQuantity(t *testing.T) {
	v, err := ParseQuantity("1ms", Millisecond)
	require.NoError(t, err)
	require.InDelta(t, 1.0, v, 1e-12)

	v, err = ParseQuantity("0.5 s", Millisecond)
	require.NoError(t, err)
	require.InDelta(t, 500.0, v, 1e-9)

	v, err = ParseQuantity("15", Second)
	require.NoError(t, err)
	require.InDelta(t, 15.0, v, 1e-12)

	_, err = ParseQuantity("3 parsecs", Second)
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ParseQuantity("ms", Second)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

/*
========================
Binning
========================
*/

func TestBin_EdgesAndStop(t *testing.T) {
	a, err := NewSpikeTrain("a", []float64{0, 0.999, 1, 2.5, 10}, 0, 10)
	require.NoError(t, err)

	m, err := Bin([]SpikeTrain{a}, 1)
	require.NoError(t, err)
	require.Equal(t, 10, m.NumBins())
	require.Equal(t, 1, m.NumChannels())

	require.True(t, m.Active(0, 0))
	require.True(t, m.Active(0, 1))
	require.True(t, m.Active(0, 2))
	// spike exactly at t_stop goes to the last bin
	require.True(t, m.Active(0, 9))
	require.False(t, m.Active(0, 3))
	require.Equal(t, 4, m.ActiveBins(0))
}

func TestBin_FloatingPointEdge(t *testing.T) {
	// 0.3/0.1 is 2.9999999999999996 in binary floating point
	a, err := NewSpikeTrain("a", []float64{0.3}, 0, 1)
	require.NoError(t, err)

	m, err := Bin([]SpikeTrain{a}, 0.1)
	require.NoError(t, err)
	require.Equal(t, 10, m.NumBins())
	require.True(t, m.Active(0, 3))
	require.InDelta(t, 0.3, m.BinTime(3), 1e-12)
}

func TestBin_InvalidParameters(t *testing.T) {
	a, _ := NewSpikeTrain("a", []float64{1}, 0, 10)

	var pe *ParameterError
	_, err := Bin([]SpikeTrain{a}, 0)
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "bin_size", pe.Name)

	_, err = Bin([]SpikeTrain{a}, 20)
	require.ErrorIs(t, err, ErrInvalidParameter)

	b, _ := NewSpikeTrain("b", []float64{1}, 0, 11)
	_, err = Bin([]SpikeTrain{a, b}, 1)
	require.ErrorIs(t, err, ErrMismatchedStop)
}

/*
========================
Generation
========================
*/

func TestPoisson_RateAndDeterminism(t *testing.T) {
	a, err := Poisson("a", 0.05, 0, 10000, rand.NewPCG(1, 2))
	require.NoError(t, err)
	b, err := Poisson("a", 0.05, 0, 10000, rand.NewPCG(1, 2))
	require.NoError(t, err)

	require.Equal(t, a.Times, b.Times)
	require.NoError(t, a.Validate())
	// 500 expected spikes; 5 sigma is about 112
	require.InDelta(t, 500, a.Len(), 120)
}

func TestSynchronous_AllTrainsIdentical(t *testing.T) {
	trains, err := Synchronous(5, 0.003, 0, 5000, rand.NewPCG(7, 0))
	require.NoError(t, err)
	require.Len(t, trains, 5)
	for _, tr := range trains[1:] {
		require.Equal(t, trains[0].Times, tr.Times)
	}
	require.Equal(t, "n4", trains[4].Name)
}

func TestPlanted_ShiftsOnsets(t *testing.T) {
	onsets := Arange(0, 1000, 100)
	require.Len(t, onsets, 10)

	trains, err := Planted("p", onsets, []float64{0, 2}, 0, 1000)
	require.NoError(t, err)
	require.Len(t, trains, 2)
	require.Equal(t, 2.0, trains[1].Times[0])
	require.Equal(t, 902.0, trains[1].Times[9])

	shifted := Shift(trains[0], 950)
	require.Equal(t, []float64{950}, shifted.Times)
}

/*
========================
YAML sessions
========================
*/

func TestSession_RoundTrip(t *testing.T) {
	doc := `
unit: ms
t_start: 0
t_stop: 100
trains:
  - name: x
    times: [30, 10, 20]
  - times: []
`
	s, err := DecodeSession(bytes.NewBufferString(doc))
	require.NoError(t, err)
	require.Equal(t, Millisecond, s.Unit)
	require.Len(t, s.Trains, 2)
	require.Equal(t, []float64{10, 20, 30}, s.Trains[0].Times)
	require.Equal(t, "n1", s.Trains[1].Name)

	var buf bytes.Buffer
	require.NoError(t, EncodeSession(&buf, s))

	again, err := DecodeSession(&buf)
	require.NoError(t, err)
	require.Equal(t, s.Trains, again.Trains)
}

func TestSession_BadUnit(t *testing.T) {
	_, err := DecodeSession(bytes.NewBufferString("unit: fortnight\nt_stop: 1\ntrains: [{times: []}]\n"))
	require.ErrorIs(t, err, ErrInvalidParameter)
}
