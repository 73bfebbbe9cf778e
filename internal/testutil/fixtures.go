// Package testutil builds synthetic rosters for tests.
package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xtding233/mlbsim/internal/game"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/stats"
)

// BattingKeys and PitchingKeys are the columns written by WriteStatsDir.
var (
	BattingKeys  = []string{"PA", "SO", "BB", "IBB", "HBP", "H", "1B", "2B", "3B", "HR", "GDP"}
	PitchingKeys = []string{"TBF", "SO", "BB", "IBB", "HBP", "H"}
)

// Batter returns a league-average hitter. Variant shifts the counts a little
// so players are distinguishable.
func Batter(name, team string, variant int, pos ...stats.Position) stats.PlayerStats {
	v := float64(variant % 5)
	return stats.NewPlayerStats(name, team, map[string]float64{
		"PA": 600 - 20*v, "SO": 130 + 5*v, "BB": 50 + v, "IBB": 3, "HBP": 6,
		"H": 150 - 2*v, "1B": 100 - 2*v, "2B": 30, "3B": 3, "HR": 17, "GDP": 12 + v,
	}, pos...)
}

// Pitcher returns a league-average starter.
func Pitcher(name, team string, variant int, pos ...stats.Position) stats.PlayerStats {
	v := float64(variant % 5)
	return stats.NewPlayerStats(name, team, map[string]float64{
		"TBF": 700 - 40*v, "SO": 170 + 4*v, "BB": 55, "IBB": 2, "HBP": 7, "H": 160 + 3*v,
	}, pos...)
}

// PlayerName is the fixture naming scheme, e.g. "NYY SS 2".
func PlayerName(team string, pos stats.Position, n int) string {
	return fmt.Sprintf("%s %s %d", team, pos, n)
}

// Tables returns per-position tables for team: two hitters per batting
// position, three starters and two relievers. The DH table repeats the
// first baseman so lineups must exclude him once he is placed.
func Tables(team string) map[stats.Position][]stats.PlayerStats {
	tables := make(map[stats.Position][]stats.PlayerStats)
	for i, pos := range stats.BattingPositions {
		for n := 1; n <= 2; n++ {
			tables[pos] = append(tables[pos], Batter(PlayerName(team, pos, n), team, i+n))
		}
	}
	tables[stats.Designated] = append(tables[stats.Designated],
		Batter(PlayerName(team, stats.FirstBase, 1), team, 0))
	for n := 1; n <= 3; n++ {
		tables[stats.StartingPitcher] = append(tables[stats.StartingPitcher],
			Pitcher(PlayerName(team, stats.StartingPitcher, n), team, n))
	}
	for n := 1; n <= 2; n++ {
		tables[stats.ReliefPitcher] = append(tables[stats.ReliefPitcher],
			Pitcher(PlayerName(team, stats.ReliefPitcher, n), team, n+3))
	}
	return tables
}

// Roster builds the fixture roster and depth chart for team.
func Roster(team string) (*stats.Roster, stats.DepthChart) {
	return stats.Build(team, Tables(team))
}

// Lineup takes the first player at each position, in position order.
func Lineup(team string) lineup.Assignment {
	var a lineup.Assignment
	for i, pos := range stats.BattingPositions {
		a[i] = lineup.Slot{Position: pos, Player: PlayerName(team, pos, 1)}
	}
	return a
}

// Team is a ready-to-play side.
func Team(name string) game.Team {
	roster, _ := Roster(name)
	return game.Team{
		Name:    name,
		Roster:  roster,
		Lineup:  Lineup(name),
		Pitcher: PlayerName(name, stats.StartingPitcher, 1),
	}
}

// WriteStatsDir writes one <POS>.csv per position for the given teams and
// returns the directory.
func WriteStatsDir(dir string, teams ...string) (string, error) {
	merged := make(map[stats.Position][]stats.PlayerStats)
	for _, team := range teams {
		for pos, ps := range Tables(team) {
			merged[pos] = append(merged[pos], ps...)
		}
	}
	for _, pos := range stats.AllPositions() {
		keys := BattingKeys
		if pos == stats.StartingPitcher || pos == stats.ReliefPitcher {
			keys = PitchingKeys
		}
		if err := writeTable(stats.Paths{BaseDir: dir}.TablePath(pos), keys, merged[pos]); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writeTable(path string, keys []string, ps []stats.PlayerStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"Name", "Team"}, keys...)); err != nil {
		return err
	}
	for _, p := range ps {
		row := []string{p.Name, p.Team}
		for _, k := range keys {
			v, err := p.Stat(k)
			if err != nil {
				return err
			}
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteConfigDir writes a default.yaml for away at home reading statsDir,
// plus a "fixed" matchup that pins the away lineup and both starters.
func WriteConfigDir(dir, away, home, statsDir string) (string, error) {
	def := fmt.Sprintf("version: \"test\"\nteams:\n  away: %s\n  home: %s\nstats:\n  dir: %s\nrun:\n  seed: 11\n", away, home, statsDir)
	if err := os.WriteFile(filepath.Join(dir, "default.yaml"), []byte(def), 0o644); err != nil {
		return "", err
	}
	var order string
	for _, s := range Lineup(away) {
		order += fmt.Sprintf("      - {position: %q, player: %q}\n", s.Position, s.Player)
	}
	fixed := fmt.Sprintf("lineups:\n  away:\n    pitcher: %q\n    order:\n%s  home:\n    pitcher: %q\n",
		PlayerName(away, stats.StartingPitcher, 2), order, PlayerName(home, stats.StartingPitcher, 3))
	if err := os.MkdirAll(filepath.Join(dir, "matchups"), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "matchups", "fixed.yaml"), []byte(fixed), 0o644); err != nil {
		return "", err
	}
	return dir, nil
}
