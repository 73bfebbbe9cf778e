package chance

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrAllocation means a weighted pool had nothing left to draw from:
	// no candidates, or every remaining weight is zero.
	ErrAllocation = errors.New("weighted pool exhausted")

	ErrInvalidWeight = errors.New("invalid weight; must be finite and >= 0")
)

// Weighted pairs a candidate with its non-negative weight.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// Pick draws one candidate with probability proportional to its weight.
// Exactly one value is read from rng per call.
func Pick[T any](cands []Weighted[T], rng RandomSource) (T, error) {
	var zero T
	i, err := pickIndex(cands, rng)
	if err != nil {
		return zero, err
	}
	return cands[i].Item, nil
}

// PickExcluding draws like Pick, but a drawn candidate for which excluded
// returns true is removed from the pool for good and the draw is repeated
// against the renormalized remainder. The caller's slice is not modified.
func PickExcluding[T any](cands []Weighted[T], excluded func(T) bool, rng RandomSource) (T, error) {
	var zero T
	pool := append([]Weighted[T](nil), cands...)
	for {
		i, err := pickIndex(pool, rng)
		if err != nil {
			return zero, err
		}
		item := pool[i].Item
		if excluded == nil || !excluded(item) {
			return item, nil
		}
		pool = append(pool[:i], pool[i+1:]...)
	}
}

// pickIndex bisects the cumulative weights at rng.Float64()*total and
// returns the first index whose running sum exceeds the draw.
func pickIndex[T any](cands []Weighted[T], rng RandomSource) (int, error) {
	if len(cands) == 0 {
		return 0, fmt.Errorf("%w: no candidates", ErrAllocation)
	}
	var total float64
	for _, c := range cands {
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight < 0 {
			return 0, ErrInvalidWeight
		}
		total += c.Weight
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: total weight is zero", ErrAllocation)
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	r := rng.Float64() * total
	lo, hi := 0, len(cands)
	cum := make([]float64, len(cands))
	var acc float64
	for i, c := range cands {
		acc += c.Weight
		cum[i] = acc
	}
	for lo < hi {
		mid := (lo + hi) / 2
		if cum[mid] > r {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo >= len(cands) {
		// float rounding put r at the very top; take the last live candidate
		lo = len(cands) - 1
		for lo > 0 && cands[lo].Weight == 0 {
			lo--
		}
	}
	return lo, nil
}

// Shuffle permutes xs uniformly in place (Fisher-Yates) reading from rng.
func Shuffle[T any](xs []T, rng RandomSource) {
	if rng == nil {
		rng = DefaultRNG()
	}
	for i := len(xs) - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		if j > i {
			j = i
		}
		xs[i], xs[j] = xs[j], xs[i]
	}
}
