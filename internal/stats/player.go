// Package stats holds per-player rate data and the loaders that build it.
package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

// ErrData is returned when a statistic needed to form a probability is
// missing, non-numeric, or gives a non-positive denominator.
var ErrData = errors.New("invalid statistic data")

// Stat keys as they appear in leaderboard exports.
const (
	PA  = "PA"  // plate appearances, batter sample size
	TBF = "TBF" // total batters faced, pitcher sample size
	SO  = "SO"
	BB  = "BB"
	IBB = "IBB"
	HBP = "HBP"
	H   = "H"
	B1  = "1B"
	B2  = "2B"
	B3  = "3B"
	HR  = "HR"
	GDP = "GDP"
)

// Position is a depth-chart slot.
type Position string

const (
	Catcher     Position = "C"
	FirstBase   Position = "1B"
	SecondBase  Position = "2B"
	Shortstop   Position = "SS"
	ThirdBase   Position = "3B"
	LeftField   Position = "LF"
	CenterField Position = "CF"
	RightField  Position = "RF"
	Designated  Position = "DH"

	StartingPitcher Position = "SP"
	ReliefPitcher   Position = "RP"
)

// BattingPositions are the nine lineup positions, in depth-chart order.
var BattingPositions = []Position{
	Catcher, FirstBase, SecondBase, Shortstop, ThirdBase,
	LeftField, CenterField, RightField, Designated,
}

// PitchingPositions are the pitching staff groups.
var PitchingPositions = []Position{StartingPitcher, ReliefPitcher}

// AllPositions returns batting then pitching positions.
func AllPositions() []Position {
	return append(slices.Clone(BattingPositions), PitchingPositions...)
}

// PlayerStats is one player's identity and numeric statistics. The value map
// is private so a loaded player cannot be changed.
type PlayerStats struct {
	Name      string
	Team      string
	Positions []Position
	values    map[string]float64
}

// NewPlayerStats copies values into a new PlayerStats.
func NewPlayerStats(name, team string, values map[string]float64, positions ...Position) PlayerStats {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return PlayerStats{
		Name:      name,
		Team:      team,
		Positions: slices.Clone(positions),
		values:    cp,
	}
}

// Has reports whether key was loaded for the player.
func (p PlayerStats) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Stat returns the value for key, or ErrData if it is absent or not finite.
func (p PlayerStats) Stat(key string) (float64, error) {
	v, ok := p.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no %q", ErrData, p.Name, key)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s has non-numeric %q", ErrData, p.Name, key)
	}
	return v, nil
}

// Sum adds the values of keys.
func (p PlayerStats) Sum(keys ...string) (float64, error) {
	var total float64
	for _, k := range keys {
		v, err := p.Stat(k)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Keys lists loaded stat keys in sorted order.
func (p PlayerStats) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EligibleAt reports whether the player appears on the pos depth chart.
func (p PlayerStats) EligibleAt(pos Position) bool {
	return slices.Contains(p.Positions, pos)
}

func (p PlayerStats) withPosition(pos Position) PlayerStats {
	if p.EligibleAt(pos) {
		return p
	}
	p.Positions = append(slices.Clone(p.Positions), pos)
	return p
}
