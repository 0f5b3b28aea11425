// Package variate supplies the random variates a queueing run draws:
// exponential interarrival gaps and uniform service durations.
package variate

import (
	"math"
	"math/rand/v2"
)

// A Source draws random variates.
type Source interface {
	// Exponential draws from an exponential distribution with the given mean.
	Exponential(mean float64) float64

	// Uniform draws uniformly from [lo, hi].
	Uniform(lo, hi float64) float64
}

// Seeded is a Source that replays the same stream for the same seed.
type Seeded struct {
	seed uint64
	rng  *rand.Rand
}

// NewSeeded creates a Seeded source.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (s *Seeded) Seed() uint64 {
	return s.seed
}

// Exponential draws from Exp(1/mean).
func (s *Seeded) Exponential(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}

// Uniform draws from U[lo, hi].
func (s *Seeded) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Scripted is a Source that returns fixed values in order. It is used to
// replay hand-written scenarios. Once a script runs out, Exponential returns
// +Inf, so no further arrivals happen, and Uniform returns lo.
type Scripted struct {
	gaps      []float64
	durations []float64
}

// NewScripted creates a Scripted source from interarrival gaps and service
// durations.
func NewScripted(gaps, durations []float64) *Scripted {
	return &Scripted{
		gaps:      append([]float64(nil), gaps...),
		durations: append([]float64(nil), durations...),
	}
}

// Exponential returns the next scripted gap and ignores mean.
func (s *Scripted) Exponential(float64) float64 {
	if len(s.gaps) == 0 {
		return math.Inf(1)
	}

	g := s.gaps[0]
	s.gaps = s.gaps[1:]

	return g
}

// Uniform returns the next scripted duration and ignores the bounds unless
// the script ran out.
func (s *Scripted) Uniform(lo, _ float64) float64 {
	if len(s.durations) == 0 {
		return lo
	}

	d := s.durations[0]
	s.durations = s.durations[1:]

	return d
}

// Arrivals converts absolute arrival times into the gaps Scripted expects.
func Arrivals(times ...float64) []float64 {
	gaps := make([]float64, len(times))

	prev := 0.0
	for i, t := range times {
		gaps[i] = t - prev
		prev = t
	}

	return gaps
}
