package lineup

import (
	"fmt"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/stats"
)

// Randomizer draws lineups and starting pitchers weighted by playing time.
type Randomizer struct {
	rng chance.RandomSource
}

func NewRandomizer(rng chance.RandomSource) *Randomizer {
	if rng == nil {
		rng = chance.DefaultRNG()
	}
	return &Randomizer{rng: rng}
}

// Lineup fills each batting position from the depth chart, weighted by PA,
// never reusing a player. The filled positions are then shuffled into a
// batting order.
func (z *Randomizer) Lineup(chart stats.DepthChart) (Assignment, error) {
	var a Assignment
	assigned := make(map[string]bool, Size)
	for i, pos := range stats.BattingPositions {
		cands := weighted(chart[pos], stats.PA)
		p, err := chance.PickExcluding(cands, func(p stats.PlayerStats) bool {
			return assigned[p.Name]
		}, z.rng)
		if err != nil {
			return Assignment{}, fmt.Errorf("lineup: fill %s: %w", pos, err)
		}
		assigned[p.Name] = true
		a[i] = Slot{Position: pos, Player: p.Name}
	}
	chance.Shuffle(a[:], z.rng)
	return a, nil
}

// StartingPitcher draws one starter weighted by batters faced. Only
// pitchers with a TBF sample are eligible.
func (z *Randomizer) StartingPitcher(chart stats.DepthChart) (stats.PlayerStats, error) {
	p, err := chance.Pick(weighted(chart[stats.StartingPitcher], stats.TBF), z.rng)
	if err != nil {
		return stats.PlayerStats{}, fmt.Errorf("lineup: starting pitcher: %w", err)
	}
	return p, nil
}

// weighted keeps players whose sample key is present and usable.
func weighted(ps []stats.PlayerStats, key string) []chance.Weighted[stats.PlayerStats] {
	out := make([]chance.Weighted[stats.PlayerStats], 0, len(ps))
	for _, p := range ps {
		w, err := p.Stat(key)
		if err != nil || w <= 0 {
			continue
		}
		out = append(out, chance.Weighted[stats.PlayerStats]{Item: p, Weight: w})
	}
	return out
}
