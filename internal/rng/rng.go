// Package rng provides the injectable randomness source threaded through
// the game engine and AI, so both can be seeded deterministically in tests.
package rng

import "math/rand"

// Source is the randomness contract the engine and AI depend on. Tests and
// benchmarks pass a seeded Source for determinism.
type Source interface {
	// Float returns a value in [0, 1).
	Float() float64
	// Intn returns a value in [lo, hi] inclusive.
	Intn(lo, hi int) int
	// Shuffle permutes n elements in place using swap(i, j).
	Shuffle(n int, swap func(i, j int))
}

// mathRand wraps math/rand.Rand behind the Source interface.
type mathRand struct{ r *rand.Rand }

// New returns a Source seeded with seed. Pass a fixed seed in tests and
// benchmarks for reproducibility; production call sites should seed from
// crypto/rand or time.
func New(seed int64) Source {
	return mathRand{r: rand.New(rand.NewSource(seed))}
}

func (m mathRand) Float() float64 { return m.r.Float64() }

func (m mathRand) Intn(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + m.r.Intn(hi-lo+1)
}

func (m mathRand) Shuffle(n int, swap func(i, j int)) {
	m.r.Shuffle(n, swap)
}
