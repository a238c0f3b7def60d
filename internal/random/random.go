// Package random wraps a seedable generator shared by deck shuffling, role
// assignment, room codes and bot decisions.
package random

import (
	"math/rand/v2"
	"sync"
)

type Source interface {
	IntN(n int) int
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a goroutine-safe source. The same seed yields the same sequence.
func New(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Shuffle is an in-place Fisher–Yates shuffle.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Pick returns a uniformly chosen element. s must not be empty.
func Pick[T any](src Source, s []T) T {
	return s[src.IntN(len(s))]
}
