// Package hashx provides the order-sensitive hash accumulation used for
// draw state and draw method fingerprints.
//
// Values are first scrambled with 64-bit FNV-1a and then mixed into the
// accumulator with the golden-ratio combine step, so Combine(a); Combine(b)
// differs from Combine(b); Combine(a).
package hashx

import "math"

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211

	golden = 0x9e3779b97f4a7c15
)

// Sum64 returns the FNV-1a hash of the eight little-endian bytes of v.
func Sum64(v uint64) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * i)) & 0xff
		h *= fnvPrime
	}
	return h
}

// Bytes returns the FNV-1a hash of b.
func Bytes(b []byte) uint64 {
	h := uint64(fnvOffset)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime
	}
	return h
}

// Union mixes an already computed hash into seed.
func Union(seed *uint64, h uint64) {
	*seed ^= h + golden + (*seed << 6) + (*seed >> 2)
}

// Combine hashes v and mixes it into seed.
func Combine(seed *uint64, v uint64) {
	Union(seed, Sum64(v))
}

// CombineInt mixes a signed integer into seed.
func CombineInt(seed *uint64, v int) {
	Combine(seed, uint64(v)) //nolint:gosec // bit pattern is what gets hashed
}

// CombineFloat32 mixes the bit pattern of v into seed.
// Negative zero is folded onto zero so equal values hash equally.
func CombineFloat32(seed *uint64, v float32) {
	if v == 0 {
		v = 0
	}
	Combine(seed, uint64(math.Float32bits(v)))
}
