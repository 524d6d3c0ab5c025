// Package rng provides the single seeded random source threaded through
// every subsystem. Reproducibility depends on a fixed draw order, so all
// components receive the same *Source by injection and none construct
// their own.
package rng

import (
	"math"
	"math/rand"
)

// Source wraps a seeded generator with the draw primitives the simulation
// uses. It is not safe for concurrent use; the engine is single-threaded.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a draw in [0,1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a draw in [lo,hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// Normal returns a draw from N(mean, std).
func (s *Source) Normal(mean, std float64) float64 {
	return mean + std*s.r.NormFloat64()
}

// IntN returns a draw in [0,n). n must be > 0.
func (s *Source) IntN(n int) int {
	return s.r.Intn(n)
}

// IntRange returns a draw in [lo,hi).
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Shuffle permutes xs in place.
func Shuffle[T any](s *Source, xs []T) {
	s.r.Shuffle(len(xs), func(i, j int) {
		xs[i], xs[j] = xs[j], xs[i]
	})
}

// Choice returns a uniformly drawn element. Panics on empty input.
func Choice[T any](s *Source, xs []T) T {
	return xs[s.r.Intn(len(xs))]
}

// ClampNormal draws from N(mean, std) and clamps into [lo,hi].
func (s *Source) ClampNormal(mean, std, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, s.Normal(mean, std)))
}
