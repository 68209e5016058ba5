package keyboard

import (
	"errors"
	"math"

	"github.com/lixenwraith/twister/parameter"
)

// ErrEmptyAvailable is returned when selection is asked to choose from nothing
// Callers guarantee a non-empty candidate set; hitting this is a bug
var ErrEmptyAvailable = errors.New("keyboard: no available keys to select from")

// Rand is the random source consumed by selection
// *vmath.FastRand and *math/rand.Rand both satisfy it
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Selector draws targets weighted away from held keys
type Selector struct {
	// Factor scales min distance into extra weight: weight = 1 + Factor*minDistance
	Factor float64
	Rand   Rand
}

// NewSelector returns a selector with the default distance factor
func NewSelector(rng Rand) *Selector {
	return &Selector{Factor: parameter.DistanceWeight, Rand: rng}
}

// SelectWeighted picks a key from available using the default factor
func SelectWeighted(available, held []Key, rng Rand) (Key, error) {
	return NewSelector(rng).Select(available, held)
}

// Select picks a key from available that is not in held
// With nothing held the draw is uniform; otherwise each candidate is weighted by
// 1 + Factor*d where d is the distance to its nearest held key
func (s *Selector) Select(available, held []Key) (Key, error) {
	candidates := without(available, held)
	if len(candidates) == 0 {
		return None, ErrEmptyAvailable
	}

	if len(held) == 0 {
		return candidates[s.Rand.Intn(len(candidates))], nil
	}

	weights := s.Weights(candidates, held)
	total := 0.0
	for _, w := range weights {
		total += w
	}

	r := s.Rand.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return candidates[i], nil
		}
	}
	// Float rounding can leave a sliver past the last weight
	return candidates[len(candidates)-1], nil
}

// Weights returns the selection weight of each candidate against held
func (s *Selector) Weights(candidates, held []Key) []float64 {
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		weights[i] = 1 + s.Factor*MinDistance(c, held)
	}
	return weights
}

// MinDistance is the distance from k to its nearest key in held
// Returns 0 for an empty held set
func MinDistance(k Key, held []Key) float64 {
	if len(held) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, h := range held {
		if d := Distance(k, h); d < min {
			min = d
		}
	}
	return min
}

// without returns keys of a that are not in b, preserving a's order
func without(a, b []Key) []Key {
	if len(b) == 0 {
		return a
	}
	out := make([]Key, 0, len(a))
	for _, k := range a {
		if !contains(b, k) {
			out = append(out, k)
		}
	}
	return out
}

func contains(keys []Key, k Key) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}
