// Package teams lists the thirty clubs with their display colors.
package teams

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/xtding233/mlbsim/internal/chance"
)

var ErrUnknownTeam = errors.New("unknown team")

// Team is a club as it appears in leaderboard exports. Name is the value of
// the "Team" column.
type Team struct {
	Name      string `json:"name"`
	Abbr      string `json:"abbr"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

var all = []Team{
	{"Angels", "LAA", "#ba0021", "#ffffff"},
	{"Astros", "HOU", "#eb6e1f", "#002d62"},
	{"Athletics", "OAK", "#efb21e", "#003831"},
	{"Blue Jays", "TOR", "#134a8e", "#1d2d5c"},
	{"Braves", "ATL", "#ce1141", "#13274f"},
	{"Brewers", "MIL", "#12284b", "#ffc52f"},
	{"Cardinals", "STL", "#0c2340", "#c41e3a"},
	{"Cubs", "CHC", "#cc3433", "#0e3386"},
	{"Diamondbacks", "ARI", "#e3d4ad", "#a71930"},
	{"Dodgers", "LAD", "#005a9c", "#ffffff"},
	{"Giants", "SF", "#27251f", "#fd5a1e"},
	{"Indians", "CLE", "#e31937", "#0c2340"},
	{"Mariners", "SEA", "#005c5c", "#0c2c56"},
	{"Marlins", "MIA", "#41748d", "#00a3e0"},
	{"Mets", "NYM", "#ff5910", "#002d72"},
	{"Nationals", "WSH", "#14225a", "#ab0003"},
	{"Orioles", "BAL", "#000000", "#df4601"},
	{"Padres", "SD", "#ffc425", "#2f241d"},
	{"Phillies", "PHI", "#002d72", "#e81828"},
	{"Pirates", "PIT", "#fd8827", "#27251f"},
	{"Rangers", "TEX", "#c0111f", "#003278"},
	{"Rays", "TB", "#8fbce6", "#092c5c"},
	{"Red Sox", "BOS", "#0c2340", "#bd3039"},
	{"Reds", "CIN", "#000000", "#c6011f"},
	{"Rockies", "COL", "#c4c3d4", "#33006f"},
	{"Royals", "KC", "#bd9b60", "#004687"},
	{"Tigers", "DET", "#fa4616", "#0c2340"},
	{"Twins", "MIN", "#d31145", "#002b5c"},
	{"White Sox", "CWS", "#c4c3d4", "#27251f"},
	{"Yankees", "NYY", "#ffffff", "#0c2340"},
}

// All returns every club in alphabetical order.
func All() []Team {
	return append([]Team(nil), all...)
}

// Lookup finds a club by name or abbreviation, ignoring case. On a miss the
// error carries the closest name when one is near enough.
func Lookup(q string) (Team, error) {
	key := strings.TrimSpace(q)
	for _, t := range all {
		if strings.EqualFold(t.Name, key) || strings.EqualFold(t.Abbr, key) {
			return t, nil
		}
	}
	if hint := Suggest(key); hint != "" {
		return Team{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTeam, q, hint)
	}
	return Team{}, fmt.Errorf("%w: %q", ErrUnknownTeam, q)
}

// Suggest returns the club name closest to q, or "".
func Suggest(q string) string {
	target := strings.ToLower(q)
	if target == "" {
		return ""
	}
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = strings.ToLower(t.Name)
	}
	ranked := fuzzy.RankFindFold(target, names)
	if len(ranked) > 0 {
		best := ranked[0]
		for _, r := range ranked[1:] {
			if r.Distance < best.Distance {
				best = r
			}
		}
		return all[best.OriginalIndex].Name
	}
	best, bestDist := -1, 0
	for i, n := range names {
		d := fuzzy.LevenshteinDistance(target, n)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if bestDist > len(target)/2+1 {
		return ""
	}
	return all[best].Name
}

// RandomMatchup draws two different clubs, away first.
func RandomMatchup(rng chance.RandomSource) (away, home Team) {
	pool := All()
	chance.Shuffle(pool, rng)
	return pool[0], pool[1]
}
