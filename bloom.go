// In-memory bloom filter over document guids.
//
// Enabled with Config.Bloom. Find, Exists, Update and Delete consult it
// before scanning, so lookups of absent ids skip the linear scan. Deletes
// cannot clear bits, so the filter is rebuilt from the live documents on
// every load, commit, reload and restore. Sized for ~10k ids at a 1% false
// positive rate; larger stores still work with a higher positive rate.
package oredb

import (
	"hash/fnv"
)

// Bloom filter sizing constants.
const (
	BloomSize = 11982 // bytes, ~96k bits for 10k entries at 1% FP
	BloomK    = 7     // number of hash functions
)

type bloom struct {
	bits []byte
}

func newBloom() *bloom {
	return &bloom{bits: make([]byte, BloomSize)}
}

// Add inserts an id into the filter.
func (b *bloom) Add(id string) {
	for _, pos := range positions(id) {
		b.bits[pos/8] |= 1 << (pos % 8)
	}
}

// Contains returns true if the id might be present, false if definitely absent.
func (b *bloom) Contains(id string) bool {
	for _, pos := range positions(id) {
		if b.bits[pos/8]&(1<<(pos%8)) == 0 {
			return false
		}
	}
	return true
}

// Reset clears all bits.
func (b *bloom) Reset() {
	clear(b.bits)
}

// positions derives BloomK bit positions by double hashing with FNV-64a
// and FNV-32a.
func positions(id string) [BloomK]uint {
	h64 := fnv.New64a()
	h64.Write([]byte(id))
	a := h64.Sum64()

	h32 := fnv.New32a()
	h32.Write([]byte(id))
	b := uint(h32.Sum32())

	nbits := uint(BloomSize * 8)
	var pos [BloomK]uint
	for i := range BloomK {
		pos[i] = (uint(a) + uint(i)*b) % nbits
	}
	return pos
}
