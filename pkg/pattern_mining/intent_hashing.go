package pattern_mining

import (
	"encoding/binary"
	"hash"
	"hash/fnv"

	"github.com/bits-and-blooms/bitset"
)

// Stable hashing of intents and extents.
//
// Both are bitsets; a hash only has to be equal for equal sets, so trailing
// zero words are skipped and two bitsets of different capacity holding the
// same members hash the same. Collisions are resolved by VisitedSet.

// HashBits returns the fnv-64a hash of the members of b.
func HashBits(b *bitset.BitSet) uint64 {
	h := fnv.New64a()
	words := b.Words()
	last := len(words)
	for last > 0 && words[last-1] == 0 {
		last--
	}
	writeInt64(h, last)
	for _, w := range words[:last] {
		writeUint64(h, w)
	}
	return h.Sum64()
}

// HashItemset hashes a canonical itemset independently of any context.
func HashItemset(s Itemset) uint64 {
	h := fnv.New64a()
	writeInt64(h, len(s))
	for _, it := range s {
		writeInt64(h, it.Neuron)
		writeInt64(h, it.Lag)
	}
	return h.Sum64()
}

// SameMembers compares bitsets regardless of their capacity.
func SameMembers(a, b *bitset.BitSet) bool {
	return a.SymmetricDifferenceCardinality(b) == 0
}

// VisitedSet remembers bitsets already seen. Not safe for concurrent use.
type VisitedSet struct {
	buckets map[uint64][]*bitset.BitSet
	size    int
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{buckets: make(map[uint64][]*bitset.BitSet)}
}

// Add records b and reports whether it was new.
func (v *VisitedSet) Add(b *bitset.BitSet) bool {
	key := HashBits(b)
	for _, seen := range v.buckets[key] {
		if SameMembers(seen, b) {
			return false
		}
	}
	v.buckets[key] = append(v.buckets[key], b)
	v.size++
	return true
}

func (v *VisitedSet) Len() int { return v.size }

// ---------- helpers ----------

func writeInt64(h hash.Hash64, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = h.Write(buf[:])
}

func writeUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}
