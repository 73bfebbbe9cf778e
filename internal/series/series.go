// Package series plays repeated games between two sides and summarizes them.
package series

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/game"
)

// MaxRepetitions bounds a single batch.
const MaxRepetitions = 100

var ErrParams = errors.New("invalid run parameters")

// Params describes one batch. With BestOf set, each repetition is a
// best-of-N series that stops once a side has clinched; otherwise each
// repetition is a single game.
type Params struct {
	Away, Home  game.Team
	Repetitions int
	Seed        *uint64 // nil draws from the crypto source
	Workers     int
	BestOf      int // 0, 3, 5 or 7

	// Options is copied into every game. ID and Reporter are set per game.
	Options game.Options
	// Reporter, when set, returns the reporter for game g of repetition rep.
	Reporter func(rep, g int) game.Reporter
	Logger   *log.Logger
}

func (p Params) validate() error {
	var errs []error
	if p.Repetitions < 1 || p.Repetitions > MaxRepetitions {
		errs = append(errs, fmt.Errorf("%w: repetitions %d outside [1,%d]", ErrParams, p.Repetitions, MaxRepetitions))
	}
	switch p.BestOf {
	case 0, 3, 5, 7:
	default:
		errs = append(errs, fmt.Errorf("%w: best-of %d must be 3, 5 or 7", ErrParams, p.BestOf))
	}
	return errors.Join(errs...)
}

// Set is the outcome of one repetition.
type Set struct {
	Games  []game.Result `json:"games"`
	Wins   [2]int        `json:"wins"`
	Winner string        `json:"winner,omitempty"` // series winner; empty for single games
}

// Summary collects a finished batch.
type Summary struct {
	Sets       []Set     `json:"sets"`
	Games      int       `json:"games"`
	Wins       [2]int    `json:"wins"`
	SeriesWins [2]int    `json:"series_wins"`
	Runs       [2]Stats  `json:"runs"`
	Innings    Stats     `json:"innings"`
	Extra      int       `json:"extra_inning_games"`
	Teams      [2]string `json:"teams"`
}

// Run plays the batch. Repetition i always reads from stream i of the seed,
// so the summary does not depend on Workers. Cancellation is honoured
// between games.
func Run(ctx context.Context, p Params) (Summary, error) {
	if err := p.validate(); err != nil {
		return Summary{}, err
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > p.Repetitions {
		workers = p.Repetitions
	}
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sets := make([]Set, p.Repetitions)
	errs := make([]error, p.Repetitions)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sets[i], errs[i] = p.playSet(ctx, i, logger)
			}
		}()
	}
	for i := 0; i < p.Repetitions; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return Summary{}, fmt.Errorf("repetition %d: %w", i+1, err)
		}
	}
	regulation := p.Options.Innings
	if regulation <= 0 {
		regulation = game.RegulationInnings
	}
	sum := summarize(sets, regulation)
	sum.Teams = [2]string{p.Away.Name, p.Home.Name}
	logger.Info("batch finished",
		"games", sum.Games,
		"away", p.Away.Name, "away_wins", sum.Wins[game.Away],
		"home", p.Home.Name, "home_wins", sum.Wins[game.Home],
	)
	return sum, nil
}

func (p Params) rng(i int) chance.RandomSource {
	if p.Seed == nil {
		return chance.DefaultRNG()
	}
	return chance.NewStreamRNG(*p.Seed, uint64(i))
}

// playSet runs repetition i: one game, or games of a series on one stream
// until a side clinches.
func (p Params) playSet(ctx context.Context, i int, logger *log.Logger) (Set, error) {
	rng := p.rng(i)
	games, need := 1, 1
	if p.BestOf > 0 {
		games, need = p.BestOf, p.BestOf/2+1
	}

	var set Set
	for g := 0; g < games; g++ {
		if err := ctx.Err(); err != nil {
			return Set{}, err
		}
		opts := p.Options
		opts.ID = ""
		opts.Logger = logger
		if p.Reporter != nil {
			opts.Reporter = p.Reporter(i, g)
		}
		gm, err := game.New(p.Away, p.Home, rng, opts)
		if err != nil {
			return Set{}, err
		}
		res, err := gm.Run(ctx)
		if err != nil {
			return Set{}, err
		}
		set.Games = append(set.Games, res)
		if side, ok := res.Winner(); ok {
			set.Wins[side]++
		}
		if p.BestOf > 0 && (set.Wins[game.Away] == need || set.Wins[game.Home] == need) {
			break
		}
	}
	if p.BestOf > 0 {
		if set.Wins[game.Home] > set.Wins[game.Away] {
			set.Winner = p.Home.Name
		} else {
			set.Winner = p.Away.Name
		}
	}
	return set, nil
}

func summarize(sets []Set, regulation int) Summary {
	var sum Summary
	var runs [2][]int
	var innings []int
	for _, s := range sets {
		sum.Sets = append(sum.Sets, s)
		for _, r := range s.Games {
			sum.Games++
			if side, ok := r.Winner(); ok {
				sum.Wins[side]++
			}
			runs[game.Away] = append(runs[game.Away], r.Score[game.Away])
			runs[game.Home] = append(runs[game.Home], r.Score[game.Home])
			innings = append(innings, r.Innings)
			if r.Innings > regulation {
				sum.Extra++
			}
		}
		if s.Winner != "" {
			if s.Wins[game.Home] > s.Wins[game.Away] {
				sum.SeriesWins[game.Home]++
			} else {
				sum.SeriesWins[game.Away]++
			}
		}
	}
	sum.Runs = [2]Stats{calcStats(runs[game.Away]), calcStats(runs[game.Home])}
	sum.Innings = calcStats(innings)
	return sum
}
