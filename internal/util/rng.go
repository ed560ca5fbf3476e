package util

import (
	"math/rand"
	"time"
)

// New returns a generator for the given seed. Seed 0 means free-running:
// the generator is seeded from the wall clock.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(Resolve(seed)))
}

// Resolve turns the 0 sentinel into a concrete seed so callers can report
// which seed a run actually used.
func Resolve(seed int64) int64 {
	if seed == 0 {
		seed = time.Now().UnixNano()
		if seed == 0 {
			seed = 1
		}
	}
	return seed
}
