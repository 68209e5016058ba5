// Package vmath holds the small numeric helpers shared by the game core
package vmath

import "time"

// FastRand is a xorshift64 generator
// Not safe for concurrent use; the game loop owns the single instance
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator; zero seeds are remapped since xorshift sticks at 0
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// NewClockRand seeds from the wall clock
func NewClockRand() *FastRand {
	return NewFastRand(uint64(time.Now().UnixNano()))
}

// Next advances the generator
func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a value in [0, n), 0 when n <= 0
func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) built from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}
