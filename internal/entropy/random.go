// Package entropy provides the single seeded random source that drives a world.
// Every stochastic decision in a tick draws from one Source so that a run is
// reproducible from its seed, provided the draw order never changes.
package entropy

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a seeded pseudo-random generator owned by exactly one world.
// It is not safe for concurrent use.
type Source struct {
	seed int64
	pcg  *rand.PCG
	rng  *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	pcg := rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
	return &Source{
		seed: seed,
		pcg:  pcg,
		rng:  rand.New(pcg),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a uniform value in [0, 1). Consumes one draw.
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Uniform returns a uniform value in [lo, hi). Consumes one draw.
func (s *Source) Uniform(lo, hi float64) float64 {
	u := distuv.Uniform{Min: lo, Max: hi, Src: s.pcg}
	return u.Rand()
}

// Intn returns a uniform index in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.rng.IntN(n)
}

// Pair picks two distinct indices in [0, n) uniformly without replacement.
// Panics if n < 2.
func (s *Source) Pair(n int) (int, int) {
	i := s.rng.IntN(n)
	j := s.rng.IntN(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
