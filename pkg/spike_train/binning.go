package spike_train

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// binTolerance absorbs floating point noise in (t - start) / binSize so a
// spike sitting exactly on a bin edge lands in the bin it starts.
const binTolerance = 1e-9

// OccurrenceMatrix is the binary channels x bins matrix of a session.
// Cell (c, t) is set iff channel c has at least one spike in bin t.
// It is immutable once built.
type OccurrenceMatrix struct {
	rows    []*bitset.BitSet
	counts  []int
	numBins int
	binSize float64
	tStart  float64
}

// NumBins returns floor((t_stop - t_start) / binSize) for a session.
func NumBins(tStart, tStop, binSize float64) int {
	return int(math.Floor((tStop-tStart)/binSize + binTolerance))
}

// Bin discretises a session. Spikes in the trailing partial bin, and spikes
// exactly at t_stop, are counted in the last bin.
func Bin(trains []SpikeTrain, binSize float64) (*OccurrenceMatrix, error) {
	if !(binSize > 0) || math.IsInf(binSize, 0) {
		return nil, NewParameterError("bin_size", binSize, "must be a positive finite number")
	}
	if err := CheckSession(trains); err != nil {
		return nil, err
	}

	start, stop := trains[0].TStart, trains[0].TStop
	n := NumBins(start, stop, binSize)
	if n < 1 {
		return nil, NewParameterError("bin_size", binSize, "larger than the observation window")
	}

	m := &OccurrenceMatrix{
		rows:    make([]*bitset.BitSet, len(trains)),
		counts:  make([]int, len(trains)),
		numBins: n,
		binSize: binSize,
		tStart:  start,
	}
	for c, tr := range trains {
		row := bitset.New(uint(n))
		for _, t := range tr.Times {
			idx := int(math.Floor((t-start)/binSize + binTolerance))
			if idx >= n {
				idx = n - 1
			}
			row.Set(uint(idx))
		}
		m.rows[c] = row
		m.counts[c] = int(row.Count())
	}
	return m, nil
}

func (m *OccurrenceMatrix) NumChannels() int { return len(m.rows) }
func (m *OccurrenceMatrix) NumBins() int     { return m.numBins }
func (m *OccurrenceMatrix) BinSize() float64 { return m.binSize }
func (m *OccurrenceMatrix) TStart() float64  { return m.tStart }

// Active reports whether channel c fired in bin t.
func (m *OccurrenceMatrix) Active(c, t int) bool {
	if c < 0 || c >= len(m.rows) || t < 0 || t >= m.numBins {
		return false
	}
	return m.rows[c].Test(uint(t))
}

// ActiveBins returns how many bins of channel c hold at least one spike.
func (m *OccurrenceMatrix) ActiveBins(c int) int {
	return m.counts[c]
}

// ActiveBinCounts returns the active-bin count of every channel.
func (m *OccurrenceMatrix) ActiveBinCounts() []int {
	return append([]int(nil), m.counts...)
}

// Row returns channel c's bins. Callers must not modify it.
func (m *OccurrenceMatrix) Row(c int) *bitset.BitSet {
	return m.rows[c]
}

// BinTime returns the left edge of bin t in session time.
func (m *OccurrenceMatrix) BinTime(t int) float64 {
	return m.tStart + float64(t)*m.binSize
}
