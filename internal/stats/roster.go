package stats

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Roster maps player name to stats for one team.
type Roster struct {
	Team    string
	players map[string]PlayerStats
}

// DepthChart lists each position's eligible players in load order.
type DepthChart map[Position][]PlayerStats

// NewRoster returns an empty roster for team.
func NewRoster(team string) *Roster {
	return &Roster{Team: team, players: make(map[string]PlayerStats)}
}

// Get looks a player up by exact name.
func (r *Roster) Get(name string) (PlayerStats, bool) {
	if r == nil {
		return PlayerStats{}, false
	}
	p, ok := r.players[name]
	return p, ok
}

// Len returns the number of players.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.players)
}

// Names returns player names sorted alphabetically.
func (r *Roster) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.players))
	for n := range r.players {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the roster name closest to name, or "" if nothing is
// reasonably close.
func (r *Roster) Suggest(name string) string {
	best, bestDist := "", -1
	target := strings.ToLower(name)
	for _, n := range r.Names() {
		d := fuzzy.LevenshteinDistance(target, strings.ToLower(n))
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist < 0 || bestDist > len(target)/2+1 {
		return ""
	}
	return best
}

// add registers p under pos. The first table that supplies a player keeps
// its numbers; later tables only add eligibility.
func (r *Roster) add(pos Position, p PlayerStats) PlayerStats {
	if cur, ok := r.players[p.Name]; ok {
		cur = cur.withPosition(pos)
		r.players[p.Name] = cur
		return p.withPosition(pos)
	}
	p = p.withPosition(pos)
	r.players[p.Name] = p
	return p
}

// Build assembles a team's roster and depth chart from per-position tables.
// Rows from other teams are ignored. Positions are visited in
// AllPositions order so the result does not depend on map iteration.
func Build(team string, tables map[Position][]PlayerStats) (*Roster, DepthChart) {
	roster := NewRoster(team)
	chart := make(DepthChart)
	for _, pos := range AllPositions() {
		chart[pos] = nil
		for _, p := range tables[pos] {
			if p.Team != team {
				continue
			}
			if containsName(chart[pos], p.Name) {
				continue
			}
			chart[pos] = append(chart[pos], roster.add(pos, p))
		}
	}
	return roster, chart
}

func containsName(ps []PlayerStats, name string) bool {
	for _, p := range ps {
		if p.Name == name {
			return true
		}
	}
	return false
}
