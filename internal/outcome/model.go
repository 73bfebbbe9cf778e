package outcome

import (
	"fmt"
	"math"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/stats"
)

// residualTolerance absorbs float error when the three rated categories
// add up to a hair over 1.
const residualTolerance = 1e-9

// Stat keys blended for each rated category.
var (
	strikeoutKeys = []string{stats.SO}
	walkKeys      = []string{stats.BB, stats.IBB, stats.HBP}
	hitKeys       = []string{stats.H}
)

// Probabilities of the four first-level categories. Out is the residual.
type Probabilities struct {
	Strikeout float64
	Walk      float64
	Hit       float64
	Out       float64
}

// Sum adds the four probabilities.
func (p Probabilities) Sum() float64 { return p.Strikeout + p.Walk + p.Hit + p.Out }

// Situation is the game state the outcome model needs: double plays are only
// possible with a runner on first and nobody out.
type Situation struct {
	FirstOccupied bool
	Outs          int
}

// DefaultOutMix is the player-independent split of balls in play that end
// in an out.
func DefaultOutMix() []chance.Weighted[OutKind] {
	return []chance.Weighted[OutKind]{
		{Item: Groundout, Weight: 0.55},
		{Item: Flyout, Weight: 0.25},
		{Item: Lineout, Weight: 0.10},
		{Item: Popout, Weight: 0.10},
	}
}

// DefaultStrikeoutMix splits strikeouts by how the last strike came.
func DefaultStrikeoutMix() []chance.Weighted[StrikeoutStyle] {
	return []chance.Weighted[StrikeoutStyle]{
		{Item: Swinging, Weight: 0.70},
		{Item: Looking, Weight: 0.25},
		{Item: FoulTip, Weight: 0.05},
	}
}

// Model resolves plate appearances. It owns no game state; all randomness
// comes from the injected source.
type Model struct {
	rng          chance.RandomSource
	OutMix       []chance.Weighted[OutKind]
	StrikeoutMix []chance.Weighted[StrikeoutStyle]
}

// NewModel builds a model with the default mixes. A nil rng falls back to
// the crypto source.
func NewModel(rng chance.RandomSource) *Model {
	if rng == nil {
		rng = chance.DefaultRNG()
	}
	return &Model{
		rng:          rng,
		OutMix:       DefaultOutMix(),
		StrikeoutMix: DefaultStrikeoutMix(),
	}
}

// BlendedRate pools batter and pitcher counts over their combined samples:
// (sum(batter keys) + sum(pitcher keys)) / (batter PA + pitcher TBF).
func BlendedRate(batter, pitcher stats.PlayerStats, batterKeys, pitcherKeys []string) (float64, error) {
	nb, err := batter.Sum(batterKeys...)
	if err != nil {
		return 0, err
	}
	np, err := pitcher.Sum(pitcherKeys...)
	if err != nil {
		return 0, err
	}
	wb, err := batter.Stat(stats.PA)
	if err != nil {
		return 0, err
	}
	wp, err := pitcher.Stat(stats.TBF)
	if err != nil {
		return 0, err
	}
	if wb < 0 || wp < 0 || wb+wp <= 0 {
		return 0, fmt.Errorf("%w: sample size PA=%v (%s) + TBF=%v (%s) must be positive",
			stats.ErrData, wb, batter.Name, wp, pitcher.Name)
	}
	return (nb + np) / (wb + wp), nil
}

func blended(batter, pitcher stats.PlayerStats, keys []string) (float64, error) {
	return BlendedRate(batter, pitcher, keys, keys)
}

// Probabilities computes the four first-level probabilities for a matchup.
func (m *Model) Probabilities(batter, pitcher stats.PlayerStats) (Probabilities, error) {
	var p Probabilities
	var err error
	if p.Strikeout, err = blended(batter, pitcher, strikeoutKeys); err != nil {
		return Probabilities{}, err
	}
	if p.Walk, err = blended(batter, pitcher, walkKeys); err != nil {
		return Probabilities{}, err
	}
	if p.Hit, err = blended(batter, pitcher, hitKeys); err != nil {
		return Probabilities{}, err
	}
	for _, v := range []float64{p.Strikeout, p.Walk, p.Hit} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return Probabilities{}, fmt.Errorf("%w: %s vs %s gives rate %v outside [0,1]",
				stats.ErrData, batter.Name, pitcher.Name, v)
		}
	}
	p.Out = 1 - (p.Strikeout + p.Walk + p.Hit)
	if p.Out < 0 {
		if p.Out < -residualTolerance {
			return Probabilities{}, fmt.Errorf("%w: %s vs %s rated outcomes exceed 1 (out=%v)",
				stats.ErrData, batter.Name, pitcher.Name, p.Out)
		}
		p.Out = 0
	}
	return p, nil
}

// Resolve draws a plate appearance for batter against pitcher.
func (m *Model) Resolve(batter, pitcher stats.PlayerStats, sit Situation) (Outcome, error) {
	p, err := m.Probabilities(batter, pitcher)
	if err != nil {
		return nil, err
	}
	cat, err := chance.Pick([]chance.Weighted[Category]{
		{Item: CategoryStrikeout, Weight: p.Strikeout},
		{Item: CategoryWalk, Weight: p.Walk},
		{Item: CategoryHit, Weight: p.Hit},
		{Item: CategoryOut, Weight: p.Out},
	}, m.rng)
	if err != nil {
		return nil, dataErr(batter, "category", err)
	}

	switch cat {
	case CategoryStrikeout:
		style, err := chance.Pick(m.StrikeoutMix, m.rng)
		if err != nil {
			return nil, dataErr(batter, "strikeout style", err)
		}
		return Strikeout{Style: style}, nil
	case CategoryWalk:
		return m.resolveWalk(batter, pitcher)
	case CategoryHit:
		return m.resolveHit(batter)
	default:
		return m.resolveOut(batter, p, sit)
	}
}

func (m *Model) resolveWalk(batter, pitcher stats.PlayerStats) (Outcome, error) {
	kinds := []struct {
		kind WalkKind
		key  string
	}{
		{BaseOnBalls, stats.BB},
		{IntentionalBB, stats.IBB},
		{HitByPitch, stats.HBP},
	}
	cands := make([]chance.Weighted[WalkKind], 0, len(kinds))
	for _, k := range kinds {
		w, err := blended(batter, pitcher, []string{k.key})
		if err != nil {
			return nil, err
		}
		cands = append(cands, chance.Weighted[WalkKind]{Item: k.kind, Weight: w})
	}
	kind, err := chance.Pick(cands, m.rng)
	if err != nil {
		return nil, dataErr(batter, "walk kind", err)
	}
	return Walk{Kind: kind}, nil
}

// resolveHit uses the batter's own hit mix; batted-ball type is treated as
// batter-controlled.
func (m *Model) resolveHit(batter stats.PlayerStats) (Outcome, error) {
	kinds := []HitKind{Single, Double, Triple, HomeRun}
	cands := make([]chance.Weighted[HitKind], 0, len(kinds))
	for _, k := range kinds {
		w, err := batter.Stat(string(k))
		if err != nil {
			return nil, err
		}
		cands = append(cands, chance.Weighted[HitKind]{Item: k, Weight: w})
	}
	kind, err := chance.Pick(cands, m.rng)
	if err != nil {
		return nil, dataErr(batter, "hit kind", err)
	}
	return Hit{Kind: kind, Roll: m.rng.Float64()}, nil
}

func (m *Model) resolveOut(batter stats.PlayerStats, p Probabilities, sit Situation) (Outcome, error) {
	kind, err := chance.Pick(m.OutMix, m.rng)
	if err != nil {
		return nil, dataErr(batter, "out kind", err)
	}
	if kind != Groundout {
		return Out{Kind: kind}, nil
	}
	pGDP, err := gdpChance(batter, p.Out)
	if err != nil {
		return nil, err
	}
	gdp, err := chance.Draw(pGDP, m.rng)
	if err != nil {
		return nil, dataErr(batter, "double play", err)
	}
	return Out{Kind: Groundout, DoublePlay: gdp && sit.FirstOccupied && sit.Outs == 0}, nil
}

// gdpChance compares the batter's GDP rate with the out probability already
// computed for this plate appearance, clamped to [0,1].
func gdpChance(batter stats.PlayerStats, pOut float64) (float64, error) {
	gdp, err := batter.Stat(stats.GDP)
	if err != nil {
		return 0, err
	}
	pa, err := batter.Stat(stats.PA)
	if err != nil {
		return 0, err
	}
	if pa <= 0 {
		return 0, fmt.Errorf("%w: %s has PA=%v", stats.ErrData, batter.Name, pa)
	}
	if pOut <= 0 {
		return 0, nil
	}
	p := (gdp / pa) / pOut
	return math.Max(0, math.Min(1, p)), nil
}

func dataErr(batter stats.PlayerStats, what string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", stats.ErrData, batter.Name, what, err)
}
