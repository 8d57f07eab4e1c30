package sim

import "math/rand"

// Rand is the random source behind wander-target selection and wander
// interval durations. Seed it (or substitute a scripted fake) to make
// wander behavior deterministic in tests.
type Rand interface {
	// Intn returns a uniform int in [0, n). n must be positive.
	Intn(n int) int
	// Float64 returns a uniform float64 in [0, 1).
	Float64() float64
}

// NewRand returns a seeded production Rand.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
