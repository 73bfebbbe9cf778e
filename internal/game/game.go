// Package game drives a simulated game one half-inning at a time.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/xtding233/mlbsim/internal/bases"
	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/outcome"
	"github.com/xtding233/mlbsim/internal/stats"
)

// RegulationInnings is the default game length.
const RegulationInnings = 9

// ErrState means a play left the game in an impossible state.
var ErrState = errors.New("inconsistent game state")

// Team is one side as it takes the field.
type Team struct {
	Name    string
	Roster  *stats.Roster
	Lineup  lineup.Assignment
	Pitcher string
}

// Options tune the rules and wiring of a game. Start from DefaultOptions;
// the zero value disables the placed runner.
type Options struct {
	ID           string // generated when empty
	Innings      int    // regulation length
	PlacedRunner bool   // extra-inning runner on second
	OutMix       []chance.Weighted[outcome.OutKind]
	StrikeoutMix []chance.Weighted[outcome.StrikeoutStyle]
	Reporter     Reporter
	Logger       *log.Logger
}

func DefaultOptions() Options {
	return Options{Innings: RegulationInnings, PlacedRunner: true}
}

// Game owns the state of a single simulated game.
type Game struct {
	ID string

	teams [2]Team
	model *outcome.Model
	opts  Options
	rep   Reporter
	log   *log.Logger

	state State
	seq   int
	err   error
}

// New validates both sides and returns a game in PreGame. rng drives every
// draw of this game and must not be shared with a concurrently running one.
func New(away, home Team, rng chance.RandomSource, opts Options) (*Game, error) {
	if opts.Innings == 0 {
		opts.Innings = RegulationInnings
	}
	if opts.Innings < 0 {
		return nil, fmt.Errorf("%w: regulation length %d", lineup.ErrConfiguration, opts.Innings)
	}
	for i, t := range [2]Team{away, home} {
		if err := checkTeam(t); err != nil {
			return nil, fmt.Errorf("%s team: %w", Side(i), err)
		}
	}
	if away.Name == home.Name {
		return nil, fmt.Errorf("%w: %s cannot play itself", lineup.ErrConfiguration, away.Name)
	}

	model := outcome.NewModel(rng)
	if opts.OutMix != nil {
		model.OutMix = opts.OutMix
	}
	if opts.StrikeoutMix != nil {
		model.StrikeoutMix = opts.StrikeoutMix
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	g := &Game{
		ID:    opts.ID,
		teams: [2]Team{away, home},
		model: model,
		opts:  opts,
		rep:   rep,
		log:   logger.With("game", opts.ID),
	}
	g.state.Phase = Phase{Kind: PreGame}
	g.state.Pointer = [2]int{lineup.Size, lineup.Size}
	g.state.Pitcher = [2]string{away.Pitcher, home.Pitcher}
	return g, nil
}

func checkTeam(t Team) error {
	if t.Name == "" {
		return fmt.Errorf("%w: team has no name", lineup.ErrConfiguration)
	}
	if t.Roster == nil || t.Roster.Len() == 0 {
		return fmt.Errorf("%w: %s has an empty roster", lineup.ErrConfiguration, t.Name)
	}
	if err := t.Lineup.CheckRoster(t.Roster); err != nil {
		return err
	}
	return lineup.CheckPitcher(t.Roster, t.Pitcher)
}

// State returns a copy of the current state.
func (g *Game) State() State {
	s := g.state
	for i := range s.LineScore {
		s.LineScore[i] = append([]Cell(nil), s.LineScore[i]...)
	}
	s.Bases.Scored = append([]string(nil), s.Bases.Scored...)
	return s
}

// Phase returns where the game stands.
func (g *Game) Phase() Phase { return g.state.Phase }

// Err returns the error that aborted the game, if any.
func (g *Game) Err() error { return g.err }

func (g *Game) next() Phase {
	p := g.state.Phase
	switch p.Kind {
	case PreGame:
		return Phase{Kind: TopHalf, Inning: 1}
	case TopHalf:
		return Phase{Kind: BottomHalf, Inning: p.Inning}
	default:
		return Phase{Kind: TopHalf, Inning: p.Inning + 1}
	}
}

// Step advances exactly one phase: it plays (or skips) the next half-inning
// and ends the game when a terminal condition holds. Stepping a finished
// game is a no-op; stepping an aborted one returns its error again.
func (g *Game) Step(ctx context.Context) (Phase, error) {
	switch g.state.Phase.Kind {
	case GameOver:
		return g.state.Phase, nil
	case Aborted:
		return g.state.Phase, g.err
	}

	next := g.next()
	g.state.Phase = next
	g.state.Inning = next.Inning
	g.state.Half = Top
	if next.Kind == BottomHalf {
		g.state.Half = Bottom
	}
	late := next.Inning >= g.opts.Innings

	if next.Kind == BottomHalf && late && g.state.Score[Home] > g.state.Score[Away] {
		if err := g.skipBottom(ctx); err != nil {
			return g.abort(err)
		}
		g.finish()
		return g.state.Phase, nil
	}

	if err := g.playHalf(ctx); err != nil {
		return g.abort(err)
	}
	if next.Kind == BottomHalf && late && g.state.Score[Home] != g.state.Score[Away] {
		g.finish()
	}
	return g.state.Phase, nil
}

// Run steps until the game ends.
func (g *Game) Run(ctx context.Context) (Result, error) {
	for {
		p, err := g.Step(ctx)
		if err != nil {
			return g.Result(), err
		}
		if p.Done() {
			return g.Result(), nil
		}
	}
}

func (g *Game) abort(err error) (Phase, error) {
	g.err = fmt.Errorf("game %s aborted in %s: %w", g.ID, g.state.Phase, err)
	g.state.Phase = Phase{Kind: Aborted, Inning: g.state.Inning}
	g.log.Error("game aborted", "err", err)
	return g.state.Phase, g.err
}

func (g *Game) finish() {
	g.state.Phase = Phase{Kind: GameOver, Inning: g.state.Inning}
	g.log.Info("final",
		"away", g.teams[Away].Name, "home", g.teams[Home].Name,
		"score", fmt.Sprintf("%d-%d", g.state.Score[Away], g.state.Score[Home]),
		"innings", g.state.Inning,
	)
}

func (g *Game) skipBottom(ctx context.Context) error {
	g.state.LineScore[Home] = append(g.state.LineScore[Home], Cell{Played: false})
	g.state.Outs = 0
	g.state.Bases = bases.State{}
	g.log.Debug("bottom half not needed", "inning", g.state.Inning)
	return g.rep.ReportHalfInning(ctx, g.halfRecord(Home, "", false))
}

func (g *Game) playHalf(ctx context.Context) error {
	side := g.state.Half.Batting()
	fld := side.Other()
	team := g.teams[side]

	g.state.Outs = 0
	g.state.Bases = bases.State{}
	g.state.LineScore[side] = append(g.state.LineScore[side], Cell{Played: true})

	// pitcher stats come from the fielding side's roster
	pitcher, ok := g.teams[fld].Roster.Get(g.state.Pitcher[fld])
	if !ok {
		return fmt.Errorf("%w: pitcher %q missing from %s roster", ErrState, g.state.Pitcher[fld], g.teams[fld].Name)
	}

	var placed string
	if g.opts.PlacedRunner && g.state.Inning > g.opts.Innings {
		placed = team.Lineup.At(g.state.Pointer[side]).Player
		g.state.Bases.Second = placed
		g.log.Debug("runner placed on second", "team", team.Name, "runner", placed, "inning", g.state.Inning)
	}

	announce := placed
	for g.state.Outs < 3 {
		g.state.Pointer[side] = g.state.Pointer[side]%lineup.Size + 1
		slot := team.Lineup.At(g.state.Pointer[side])
		batter, ok := team.Roster.Get(slot.Player)
		if !ok {
			return fmt.Errorf("%w: batter %q missing from %s roster", ErrState, slot.Player, team.Name)
		}
		if err := g.plateAppearance(ctx, side, batter, pitcher, announce); err != nil {
			return err
		}
		announce = ""
	}

	g.log.Debug("half inning over",
		"inning", g.state.Inning, "half", g.state.Half,
		"runs", g.state.cell(side).Runs,
		"score", fmt.Sprintf("%d-%d", g.state.Score[Away], g.state.Score[Home]),
	)
	return g.rep.ReportHalfInning(ctx, g.halfRecord(side, placed, true))
}

// plateAppearance resolves one PA. placed is set only on the first PA of a
// half that began with a runner on second.
func (g *Game) plateAppearance(ctx context.Context, side Side, batter, pitcher stats.PlayerStats, placed string) error {
	st := &g.state
	before := st.Bases.Snapshot()
	outsBefore := st.Outs

	o, err := g.model.Resolve(batter, pitcher, outcome.Situation{
		FirstOccupied: st.Bases.First != "",
		Outs:          outsBefore,
	})
	if err != nil {
		return fmt.Errorf("%s vs %s: %w", batter.Name, pitcher.Name, err)
	}
	res, err := st.Bases.Apply(o, batter.Name, outsBefore)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrState, err)
	}
	st.Outs += res.Outs
	if st.Outs > 3 {
		return fmt.Errorf("%w: %d outs after %s", ErrState, st.Outs, o.Code())
	}
	runs := len(res.Scored)
	st.cell(side).Runs += runs
	st.Score[side] += runs
	if o.Category() == outcome.CategoryHit {
		st.Hits[side]++
	}

	g.seq++
	rec := PlayRecord{
		GameID:      g.ID,
		Seq:         g.seq,
		Team:        g.teams[side].Name,
		Inning:      st.Inning,
		Half:        st.Half,
		Batter:      batter.Name,
		Pitcher:     pitcher.Name,
		Placed:      placed,
		Outcome:     o.Code(),
		Detail:      outcome.Detail(o),
		Description: o.Describe(batter.Name),
		BasesBefore: before,
		BasesAfter:  st.Bases.Snapshot(),
		Scored:      res.Scored,
		Runs:        runs,
		OutsAfter:   st.Outs,
		Score:       st.Score,
		Result:      o,
	}
	err = g.rep.ReportPlay(ctx, rec)
	st.Bases.ClearScored()
	return err
}

func (g *Game) halfRecord(side Side, placed string, played bool) HalfInningRecord {
	return HalfInningRecord{
		GameID:       g.ID,
		Team:         g.teams[side].Name,
		Inning:       g.state.Inning,
		Half:         g.state.Half,
		Runs:         g.state.cell(side).Runs,
		Played:       played,
		Score:        g.state.Score,
		Hits:         g.state.Hits,
		Errors:       g.state.Errors,
		PlacedRunner: placed,
	}
}
