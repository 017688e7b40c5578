// Package namegen provides the random identifier generator and keyed byte
// encoder shared by the obfuscation passes.
package namegen

import (
	crand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"time"
)

// NewRand returns a generator for seed when seeded is true. Otherwise it
// draws a fresh seed (crypto/rand, falling back to the clock) and returns it
// so the run can be reproduced.
func NewRand(seed int64, seeded bool) (*mathrand.Rand, int64) {
	if !seeded {
		seed = RandomSeed()
	}

	return mathrand.New(mathrand.NewSource(seed)), seed
}

// RandomSeed returns an unpredictable seed.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}

	return int64(binary.LittleEndian.Uint64(b[:]) & 0x7FFFFFFFFFFFFFFF)
}

// Intn returns a uniform integer in [min, max].
func Intn(r *mathrand.Rand, min, max int) int {
	if max <= min {
		return min
	}

	return min + r.Intn(max-min+1)
}

// Coin returns true with probability p.
func Coin(r *mathrand.Rand, p float64) bool {
	return r.Float64() < p
}
