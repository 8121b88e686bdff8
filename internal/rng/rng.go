package rng

import (
	"fmt"
	"math/rand"
	"time"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Source names a kind of Generator
type Source string

// Source constants
const (
	SourceMath   Source = "math"
	SourceCrypto Source = "crypto"
)

// New returns a fresh Generator for the source
// An empty source is treated as SourceMath.
func New(source Source) (Generator, error) {
	switch source {
	case "", SourceMath:
		return NewSeeded(time.Now().UnixNano()), nil
	case SourceCrypto:
		return Crypto{}, nil
	}

	return nil, fmt.Errorf("unknown random source: %s", source)
}

// Seeded wraps a math/rand generator
// It is not safe for concurrent use. Each deck gets its own.
type Seeded struct {
	seed int64
	rng  *rand.Rand
}

// NewSeeded returns a generator with a fixed seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	return s.rng.Intn(n)
}

// Seed returns the seed the generator was created with
func (s *Seeded) Seed() int64 {
	return s.seed
}
