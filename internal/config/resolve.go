package config

import (
	"fmt"
	"sort"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/outcome"
	"github.com/xtding233/mlbsim/internal/teams"
)

// Overrides carry per-request changes (CLI flags, HTTP body) applied on top
// of the merged files.
type Overrides struct {
	Away          *string `json:"away,omitempty"`
	Home          *string `json:"home,omitempty"`
	Innings       *int    `json:"innings,omitempty"`
	PlacedRunner  *bool   `json:"placed_runner,omitempty"`
	Repetitions   *int    `json:"repetitions,omitempty"`
	Seed          *uint64 `json:"seed,omitempty"`
	Workers       *int    `json:"workers,omitempty"`
	Series        *int    `json:"series,omitempty"`
	StatsDir      *string `json:"-"`
	RandomLineups bool    `json:"random_lineups,omitempty"` // ignore configured lineups and starters
}

type Resolver interface {
	// Returns merged RawConfig and normalized Params
	Resolve(matchup string, o Overrides) (RawConfig, Params, error)
}

// Resolve merges default → matchup → overrides, validates, and normalizes.
func (l *Loader) Resolve(matchup string, o Overrides) (RawConfig, Params, error) {
	raw, err := l.LoadMerged(matchup)
	if err != nil {
		return RawConfig{}, Params{}, err
	}
	raw = applyOverrides(raw, o)
	p, err := Normalize(raw)
	if err != nil {
		return raw, Params{}, err
	}
	return raw, p, nil
}

func applyOverrides(raw RawConfig, o Overrides) RawConfig {
	overlay := RawConfig{
		Rules: RulesConfig{Innings: o.Innings, PlacedRunner: o.PlacedRunner},
		Run: RunConfig{
			Repetitions: o.Repetitions,
			Seed:        o.Seed,
			Workers:     o.Workers,
			Series:      o.Series,
		},
	}
	if o.Away != nil {
		overlay.Teams.Away = *o.Away
	}
	if o.Home != nil {
		overlay.Teams.Home = *o.Home
	}
	if o.StatsDir != nil {
		overlay.Stats.Dir = *o.StatsDir
	}
	out := mergeRaw(raw, overlay)
	if o.RandomLineups {
		out.Lineups = nil
	}
	return out
}

// Normalize validates raw and fills defaults.
func Normalize(raw RawConfig) (Params, error) {
	if err := ValidateRaw(raw); err != nil {
		return Params{}, err
	}
	p := Params{
		Version:      raw.Version,
		Innings:      deref(raw.Rules.Innings, game.RegulationInnings),
		PlacedRunner: deref(raw.Rules.PlacedRunner, true),
		OutMix:       outMix(raw.Rules.OutMix),
		StrikeoutMix: strikeoutMix(raw.Rules.StrikeoutMix),
		Repetitions:  deref(raw.Run.Repetitions, 1),
		Seed:         raw.Run.Seed,
		Workers:      deref(raw.Run.Workers, 1),
		Series:       deref(raw.Run.Series, 0),
		StatsDir:     raw.Stats.Dir,
	}
	// lookups cannot fail after validation
	p.Away, _ = teams.Lookup(raw.Teams.Away)
	p.Home, _ = teams.Lookup(raw.Teams.Home)

	if raw.Lineups != nil {
		for i, sc := range []*SideConfig{raw.Lineups.Away, raw.Lineups.Home} {
			if sc == nil {
				continue
			}
			p.Sides[i].Pitcher = sc.Pitcher
			if len(sc.Order) > 0 {
				a, err := lineup.FromSlots(sc.Order)
				if err != nil {
					return Params{}, fmt.Errorf("%w: %v", ErrInvalid, err)
				}
				p.Sides[i].Lineup = &a
			}
		}
	}
	return p, nil
}

func deref[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// outMix fills unset weights from the defaults.
func outMix(m *OutMixConfig) []chance.Weighted[outcome.OutKind] {
	mix := outcome.DefaultOutMix()
	if m == nil {
		return mix
	}
	set := map[outcome.OutKind]*float64{
		outcome.Groundout: m.Groundout,
		outcome.Flyout:    m.Flyout,
		outcome.Lineout:   m.Lineout,
		outcome.Popout:    m.Popout,
	}
	for i := range mix {
		mix[i].Weight = deref(set[mix[i].Item], mix[i].Weight)
	}
	return mix
}

func strikeoutMix(m *StrikeoutMixConfig) []chance.Weighted[outcome.StrikeoutStyle] {
	mix := outcome.DefaultStrikeoutMix()
	if m == nil {
		return mix
	}
	set := map[outcome.StrikeoutStyle]*float64{
		outcome.Swinging: m.Swinging,
		outcome.Looking:  m.Looking,
		outcome.FoulTip:  m.FoulTip,
	}
	for i := range mix {
		mix[i].Weight = deref(set[mix[i].Item], mix[i].Weight)
	}
	return mix
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
