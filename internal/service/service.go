// Package service wires stats tables, lineups and the series runner into
// one simulate call shared by the CLI and both servers.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/report"
	"github.com/xtding233/mlbsim/internal/series"
	"github.com/xtding233/mlbsim/internal/stats"
	"github.com/xtding233/mlbsim/internal/teams"
)

// ErrNoStats means no stats directory was configured.
var ErrNoStats = errors.New("no stats directory configured")

type Service struct {
	resolver config.Resolver
	statsDir string // fallback when the config names none
	log      *log.Logger
	publish  game.Reporter // receives every game's records, e.g. a Redis stream

	mu     sync.RWMutex
	tables map[string]map[stats.Position][]stats.PlayerStats // by directory
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option { return func(s *Service) { s.log = l } }

// WithPublisher sends the records of every simulated game to r as well as
// to any per-request reporter.
func WithPublisher(r game.Reporter) Option { return func(s *Service) { s.publish = r } }

// WithStatsDir sets the directory used when the config has no stats.dir.
func WithStatsDir(dir string) Option { return func(s *Service) { s.statsDir = dir } }

func New(resolver config.Resolver, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		log:      log.New(io.Discard),
		tables:   make(map[string]map[stats.Position][]stats.PlayerStats),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Invalidate drops cached stats tables so the next call rereads them.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]map[stats.Position][]stats.PlayerStats)
}

// Request is one simulate call.
type Request struct {
	Matchup   string
	Overrides config.Overrides
	// Reporter, when set, supplies the reporter for game g of repetition rep.
	Reporter func(rep, g int) game.Reporter
}

// Lineup is a side as it was sent out.
type Lineup struct {
	Team    string            `json:"team"`
	Pitcher string            `json:"pitcher"`
	Order   lineup.Assignment `json:"order"`
}

type Response struct {
	Params  config.Params  `json:"-"`
	Lineups [2]Lineup      `json:"lineups"`
	Summary series.Summary `json:"summary"`
}

// Simulate resolves the run parameters, builds both sides and plays the
// batch.
func (s *Service) Simulate(ctx context.Context, req Request) (Response, error) {
	_, p, err := s.resolver.Resolve(req.Matchup, req.Overrides)
	if err != nil {
		return Response{}, err
	}
	sides, err := s.Prepare(p)
	if err != nil {
		return Response{}, err
	}
	s.log.Info("simulating",
		"away", sides[game.Away].Name, "home", sides[game.Home].Name,
		"repetitions", p.Repetitions, "series", p.Series, "workers", p.Workers,
	)
	sum, err := series.Run(ctx, series.Params{
		Away:        sides[game.Away],
		Home:        sides[game.Home],
		Repetitions: p.Repetitions,
		Seed:        p.Seed,
		Workers:     p.Workers,
		BestOf:      p.Series,
		Options:     p.GameOptions(),
		Reporter:    s.reporter(req.Reporter),
		Logger:      s.log,
	})
	if err != nil {
		return Response{}, err
	}
	resp := Response{Params: p, Summary: sum}
	for i, t := range sides {
		resp.Lineups[i] = Lineup{Team: t.Name, Pitcher: t.Pitcher, Order: t.Lineup}
	}
	return resp, nil
}

func (s *Service) reporter(per func(rep, g int) game.Reporter) func(rep, g int) game.Reporter {
	switch {
	case s.publish == nil:
		return per
	case per == nil:
		return func(int, int) game.Reporter { return s.publish }
	}
	return func(rep, g int) game.Reporter {
		return report.Multi{s.publish, per(rep, g)}
	}
}

// Prepare builds both teams from the stats tables, drawing any lineup or
// starter the parameters leave open.
func (s *Service) Prepare(p config.Params) ([2]game.Team, error) {
	var out [2]game.Team
	tables, err := s.load(p.StatsDir)
	if err != nil {
		return out, err
	}
	for i, t := range [2]teams.Team{p.Away, p.Home} {
		side, err := s.side(tables, t.Name, p.Sides[i], p.Seed, i)
		if err != nil {
			return out, fmt.Errorf("%s: %w", t.Name, err)
		}
		out[i] = side
	}
	return out, nil
}

func (s *Service) side(tables map[stats.Position][]stats.PlayerStats, name string, cfg config.Side, seed *uint64, idx int) (game.Team, error) {
	roster, chart := stats.Build(name, tables)
	if roster.Len() == 0 {
		return game.Team{}, fmt.Errorf("%w: no players for %s in the stats tables", lineup.ErrConfiguration, name)
	}
	z := lineup.NewRandomizer(lineupRNG(seed, idx))
	team := game.Team{Name: name, Roster: roster, Pitcher: cfg.Pitcher}

	if cfg.Lineup != nil {
		team.Lineup = *cfg.Lineup
	} else {
		a, err := z.Lineup(chart)
		if err != nil {
			return game.Team{}, err
		}
		team.Lineup = a
	}
	if err := team.Lineup.CheckRoster(roster); err != nil {
		return game.Team{}, err
	}

	if team.Pitcher == "" {
		sp, err := z.StartingPitcher(chart)
		if err != nil {
			return game.Team{}, err
		}
		team.Pitcher = sp.Name
	}
	if err := lineup.CheckPitcher(roster, team.Pitcher); err != nil {
		return game.Team{}, err
	}
	return team, nil
}

// RandomLineup draws a lineup and starter for one club.
func (s *Service) RandomLineup(statsDir, club string, seed *uint64) (Lineup, error) {
	t, err := teams.Lookup(club)
	if err != nil {
		return Lineup{}, err
	}
	tables, err := s.load(statsDir)
	if err != nil {
		return Lineup{}, err
	}
	side, err := s.side(tables, t.Name, config.Side{}, seed, 0)
	if err != nil {
		return Lineup{}, err
	}
	return Lineup{Team: side.Name, Pitcher: side.Pitcher, Order: side.Lineup}, nil
}

// lineupRNG keeps lineup draws off the streams used by games, which count up
// from zero.
func lineupRNG(seed *uint64, side int) chance.RandomSource {
	if seed == nil {
		return chance.DefaultRNG()
	}
	return chance.NewStreamRNG(*seed, math.MaxUint64-uint64(side))
}

func (s *Service) load(dir string) (map[stats.Position][]stats.PlayerStats, error) {
	if dir == "" {
		dir = s.statsDir
	}
	if dir == "" {
		return nil, ErrNoStats
	}
	s.mu.RLock()
	t, ok := s.tables[dir]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := stats.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.tables[dir] = t
	s.mu.Unlock()
	s.log.Debug("stats tables loaded", "dir", dir)
	return t, nil
}
