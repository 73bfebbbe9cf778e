package chance_test

import (
	"errors"
	"testing"

	"github.com/xtding233/mlbsim/internal/chance"
)

func TestPickProportional(t *testing.T) {
	cands := []chance.Weighted[string]{
		{Item: "a", Weight: 1},
		{Item: "b", Weight: 3},
		{Item: "c", Weight: 0},
	}
	rng := chance.NewSeededRNG(3)
	counts := map[string]int{}
	const n = 40000
	for i := 0; i < n; i++ {
		got, err := chance.Pick(cands, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[got]++
	}
	if counts["c"] != 0 {
		t.Fatalf("zero-weight candidate drawn %d times", counts["c"])
	}
	freq := float64(counts["b"]) / n
	if diff := freq - 0.75; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq(b)=%f not close to 0.75", freq)
	}
}

func TestPickBisectsCumulativeWeights(t *testing.T) {
	cands := []chance.Weighted[int]{{Item: 1, Weight: 0.2}, {Item: 2, Weight: 0.3}, {Item: 3, Weight: 0.5}}
	cases := []struct {
		r    float64
		want int
	}{
		{0, 1}, {0.19, 1}, {0.2, 2}, {0.49, 2}, {0.5, 3}, {0.999, 3},
	}
	for _, c := range cases {
		got, err := chance.Pick(cands, &chance.Sequence{Values: []float64{c.r}})
		if err != nil || got != c.want {
			t.Fatalf("r=%v: got=%v err=%v, want %v", c.r, got, err, c.want)
		}
	}
}

func TestPickAllocationErrors(t *testing.T) {
	if _, err := chance.Pick[string](nil, nil); !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("empty pool: got err=%v", err)
	}
	zero := []chance.Weighted[string]{{Item: "a"}, {Item: "b"}}
	if _, err := chance.Pick(zero, nil); !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("zero total: got err=%v", err)
	}
	neg := []chance.Weighted[string]{{Item: "a", Weight: -1}, {Item: "b", Weight: 2}}
	if _, err := chance.Pick(neg, nil); !errors.Is(err, chance.ErrInvalidWeight) {
		t.Fatalf("negative weight: got err=%v", err)
	}
}

func TestPickExcludingRemovesDrawnConflicts(t *testing.T) {
	cands := []chance.Weighted[string]{
		{Item: "taken", Weight: 9},
		{Item: "free", Weight: 1},
	}
	// first draw lands on "taken" (0.0 * 10), which is dropped; the redraw
	// can only produce "free"
	rng := &chance.Sequence{Values: []float64{0, 0.99}}
	got, err := chance.PickExcluding(cands, func(s string) bool { return s == "taken" }, rng)
	if err != nil || got != "free" {
		t.Fatalf("got=%v err=%v", got, err)
	}
	if len(cands) != 2 || cands[0].Item != "taken" {
		t.Fatalf("caller slice modified: %+v", cands)
	}
}

func TestPickExcludingExhausted(t *testing.T) {
	cands := []chance.Weighted[string]{{Item: "a", Weight: 1}, {Item: "b", Weight: 1}}
	_, err := chance.PickExcluding(cands, func(string) bool { return true }, chance.NewSeededRNG(1))
	if !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("expected ErrAllocation; got err=%v", err)
	}
	// the only remaining candidates carry no weight
	cands = []chance.Weighted[string]{{Item: "a", Weight: 1}, {Item: "b", Weight: 0}}
	_, err = chance.PickExcluding(cands, func(s string) bool { return s == "a" }, chance.NewSeededRNG(1))
	if !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("expected ErrAllocation for zero-weight remainder; got err=%v", err)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	chance.Shuffle(xs, chance.NewSeededRNG(11))
	seen := map[int]bool{}
	for _, x := range xs {
		if seen[x] || x < 1 || x > 9 {
			t.Fatalf("not a permutation: %v", xs)
		}
		seen[x] = true
	}
}
