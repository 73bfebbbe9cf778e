package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/series"
	"github.com/xtding233/mlbsim/internal/teams"
)

// ErrInvalid is returned for run parameters that fail validation.
var ErrInvalid = errors.New("config validation failed")

// ValidateRaw checks semantic constraints of a merged RawConfig. Every
// problem is reported in one error.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// rules
	if cfg.Rules.Innings != nil && *cfg.Rules.Innings < 1 {
		errs = append(errs, "rules.innings must be >= 1")
	}
	if m := cfg.Rules.OutMix; m != nil {
		errs = append(errs, checkMix("rules.out_mix", map[string]*float64{
			"groundout": m.Groundout, "flyout": m.Flyout, "lineout": m.Lineout, "popout": m.Popout,
		}, mixTotal(outMix(m)))...)
	}
	if m := cfg.Rules.StrikeoutMix; m != nil {
		errs = append(errs, checkMix("rules.strikeout_mix", map[string]*float64{
			"swinging": m.Swinging, "looking": m.Looking, "foul_tip": m.FoulTip,
		}, mixTotal(strikeoutMix(m)))...)
	}

	// run
	if r := cfg.Run.Repetitions; r != nil && (*r < 1 || *r > series.MaxRepetitions) {
		errs = append(errs, fmt.Sprintf("run.repetitions must be in [1,%d]", series.MaxRepetitions))
	}
	if w := cfg.Run.Workers; w != nil && *w < 1 {
		errs = append(errs, "run.workers must be >= 1")
	}
	if s := cfg.Run.Series; s != nil {
		switch *s {
		case 0, 3, 5, 7:
		default:
			errs = append(errs, "run.series must be one of: 0, 3, 5, 7")
		}
	}

	// teams
	away, awayErr := lookupTeam("teams.away", cfg.Teams.Away)
	home, homeErr := lookupTeam("teams.home", cfg.Teams.Home)
	if awayErr != "" {
		errs = append(errs, awayErr)
	}
	if homeErr != "" {
		errs = append(errs, homeErr)
	}
	if awayErr == "" && homeErr == "" && away == home {
		errs = append(errs, "teams.away and teams.home must differ")
	}

	// lineups
	if cfg.Lineups != nil {
		errs = append(errs, checkSide("lineups.away", cfg.Lineups.Away)...)
		errs = append(errs, checkSide("lineups.home", cfg.Lineups.Home)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// checkMix validates the weights a file sets; total is the sum after unset
// weights fall back to their defaults.
func checkMix(field string, weights map[string]*float64, total float64) []string {
	var errs []string
	for _, k := range sortedKeys(weights) {
		v := weights[k]
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			errs = append(errs, fmt.Sprintf("%s.%s must be a finite value >= 0", field, k))
		}
	}
	if len(errs) == 0 && total <= 0 {
		errs = append(errs, field+" must have a positive total weight")
	}
	return errs
}

func mixTotal[T any](mix []chance.Weighted[T]) float64 {
	var total float64
	for _, w := range mix {
		total += w.Weight
	}
	return total
}

func lookupTeam(field, name string) (string, string) {
	if name == "" {
		return "", field + " is required"
	}
	t, err := teams.Lookup(name)
	if err != nil {
		return "", fmt.Sprintf("%s: %v", field, err)
	}
	return t.Name, ""
}

func checkSide(field string, side *SideConfig) []string {
	if side == nil || len(side.Order) == 0 {
		return nil
	}
	if len(side.Order) != lineup.Size {
		return []string{fmt.Sprintf("%s.order must list exactly %d batters, got %d", field, lineup.Size, len(side.Order))}
	}
	a, _ := lineup.FromSlots(side.Order)
	if err := a.Validate(); err != nil {
		msg := strings.TrimPrefix(err.Error(), lineup.ErrConfiguration.Error()+": ")
		return []string{fmt.Sprintf("%s.order: %s", field, msg)}
	}
	return nil
}
