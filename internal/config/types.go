package config

import (
	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/outcome"
	"github.com/xtding233/mlbsim/internal/teams"
)

// RawConfig is one YAML file. Pointer fields distinguish "unset" from zero
// so a matchup file only overrides what it names.
type RawConfig struct {
	Version string         `yaml:"version"`
	Rules   RulesConfig    `yaml:"rules"`
	Run     RunConfig      `yaml:"run"`
	Teams   TeamsConfig    `yaml:"teams"`
	Lineups *LineupsConfig `yaml:"lineups,omitempty"`
	Stats   StatsConfig    `yaml:"stats"`
	Notes   string         `yaml:"notes,omitempty"`
}

type RulesConfig struct {
	Innings      *int                `yaml:"innings"`
	PlacedRunner *bool               `yaml:"placed_runner"`
	OutMix       *OutMixConfig       `yaml:"out_mix,omitempty"`
	StrikeoutMix *StrikeoutMixConfig `yaml:"strikeout_mix,omitempty"`
}

type OutMixConfig struct {
	Groundout *float64 `yaml:"groundout"`
	Flyout    *float64 `yaml:"flyout"`
	Lineout   *float64 `yaml:"lineout"`
	Popout    *float64 `yaml:"popout"`
}

type StrikeoutMixConfig struct {
	Swinging *float64 `yaml:"swinging"`
	Looking  *float64 `yaml:"looking"`
	FoulTip  *float64 `yaml:"foul_tip"`
}

type RunConfig struct {
	Repetitions *int    `yaml:"repetitions"`
	Seed        *uint64 `yaml:"seed"`
	Workers     *int    `yaml:"workers"`
	Series      *int    `yaml:"series"` // best-of 3, 5 or 7; 0 plays single games
}

type TeamsConfig struct {
	Away string `yaml:"away"`
	Home string `yaml:"home"`
}

type LineupsConfig struct {
	Away *SideConfig `yaml:"away,omitempty"`
	Home *SideConfig `yaml:"home,omitempty"`
}

// SideConfig fixes a batting order and starter. An empty order or pitcher
// is drawn at random from the depth chart.
type SideConfig struct {
	Pitcher string        `yaml:"pitcher"`
	Order   []lineup.Slot `yaml:"order"`
}

type StatsConfig struct {
	Dir string `yaml:"dir"`
}

// Params are normalized run parameters.
type Params struct {
	Version      string
	Innings      int
	PlacedRunner bool
	OutMix       []chance.Weighted[outcome.OutKind]
	StrikeoutMix []chance.Weighted[outcome.StrikeoutStyle]
	Repetitions  int
	Seed         *uint64
	Workers      int
	Series       int
	Away, Home   teams.Team
	Sides        [2]Side
	StatsDir     string
}

// Side is a configured lineup. Either part may be left for the randomizer.
type Side struct {
	Pitcher string
	Lineup  *lineup.Assignment
}

// GameOptions turns the rules into options for game.New.
func (p Params) GameOptions() game.Options {
	opts := game.DefaultOptions()
	opts.Innings = p.Innings
	opts.PlacedRunner = p.PlacedRunner
	opts.OutMix = p.OutMix
	opts.StrikeoutMix = p.StrikeoutMix
	return opts
}
