// Command mlbsim plays simulated games between two clubs from the command
// line and prints the play-by-play and a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/xtding233/mlbsim/internal/config"
	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/report"
	"github.com/xtding233/mlbsim/internal/series"
	"github.com/xtding233/mlbsim/internal/service"
)

func main() {
	var (
		cfgDir        = flag.String("config", "./configs", "config directory holding default.yaml and matchups/")
		matchup       = flag.String("matchup", "", "matchup file name under matchups/")
		statsDir      = flag.String("stats", "", "directory of per-position stats tables")
		away          = flag.String("away", "", "away club")
		home          = flag.String("home", "", "home club")
		reps          = flag.Int("reps", 1, "repetitions (1-100)")
		seed          = flag.Uint64("seed", 0, "seed for reproducible runs")
		bestOf        = flag.Int("series", 0, "play best-of-N series (3, 5 or 7) instead of single games")
		workers       = flag.Int("workers", 1, "parallel workers")
		randomLineups = flag.Bool("random-lineups", false, "ignore configured lineups and starters")
		quiet         = flag.Bool("quiet", false, "skip play-by-play and line scores")
		verbose       = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "mlbsim"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// only flags given on the command line override the config
	o := config.Overrides{RandomLineups: *randomLineups}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stats":
			o.StatsDir = statsDir
		case "away":
			o.Away = away
		case "home":
			o.Home = home
		case "reps":
			o.Repetitions = reps
		case "seed":
			o.Seed = seed
		case "series":
			o.Series = bestOf
		case "workers":
			o.Workers = workers
		}
	})
	if !*quiet {
		// play-by-play must come out one game at a time
		one := 1
		o.Workers = &one
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.New(config.NewLoader(*cfgDir), service.WithLogger(logger))
	req := service.Request{Matchup: *matchup, Overrides: o}
	if !*quiet {
		req.Reporter = func(rep, g int) game.Reporter {
			if g == 0 {
				fmt.Printf("=== Repetition %d ===\n", rep+1)
			}
			fmt.Printf("--- Game %d ---\n", g+1)
			return report.Text{W: os.Stdout}
		}
	}

	resp, err := svc.Simulate(ctx, req)
	if err != nil {
		logger.Fatal("simulation failed", "err", err)
	}
	if !*quiet {
		printLineScores(os.Stdout, resp.Summary)
	}
	printLineups(os.Stdout, resp.Lineups)
	printSummary(os.Stdout, resp.Summary)
}

func printLineScores(w io.Writer, sum series.Summary) {
	for i, set := range sum.Sets {
		for g, res := range set.Games {
			fmt.Fprintf(w, "\nRepetition %d, game %d (%s)\n", i+1, g+1, res.ID)
			_ = report.LineScore(w, res)
		}
		if set.Winner != "" {
			fmt.Fprintf(w, "%s win the series %d-%d\n", set.Winner, max(set.Wins[0], set.Wins[1]), min(set.Wins[0], set.Wins[1]))
		}
	}
}

func printLineups(w io.Writer, lineups [2]service.Lineup) {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, l := range lineups {
		fmt.Fprintf(tw, "%s\tSP\t%s\n", l.Team, l.Pitcher)
		for i, s := range l.Order {
			fmt.Fprintf(tw, "\t%d. %s\t%s\n", i+1, s.Position, s.Player)
		}
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, sum series.Summary) {
	fmt.Fprintf(w, "\n%d games, %d went to extra innings\n", sum.Games, sum.Extra)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "team\twins\tseries\truns/g\tsd\tmin\tp50\tp90\tmax\t")
	for side := range sum.Teams {
		r := sum.Runs[side]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%d\t%.1f\t%.1f\t%d\t\n",
			sum.Teams[side], sum.Wins[side], sum.SeriesWins[side],
			r.Mean, r.StdDev, r.Min, r.P50, r.P90, r.Max)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "innings/game %.2f\n", sum.Innings.Mean)
}
