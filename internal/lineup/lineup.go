// Package lineup validates batting orders and draws random ones from a
// depth chart.
package lineup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/mlbsim/internal/stats"
)

// ErrConfiguration marks a lineup or pitcher choice that cannot start a game.
var ErrConfiguration = errors.New("invalid lineup configuration")

// Size is the number of batting slots.
const Size = 9

// Slot is one batting-order entry.
type Slot struct {
	Position stats.Position `json:"position" yaml:"position"`
	Player   string         `json:"player" yaml:"player"`
}

// Assignment is a batting order; index 0 bats first.
type Assignment [Size]Slot

// FromSlots builds an Assignment from exactly nine slots.
func FromSlots(slots []Slot) (Assignment, error) {
	var a Assignment
	if len(slots) != Size {
		return a, fmt.Errorf("%w: lineup has %d slots, need %d", ErrConfiguration, len(slots), Size)
	}
	copy(a[:], slots)
	return a, nil
}

// At returns the slot for 1-based batting position n. Positions wrap modulo
// nine in both directions, so 0 is the ninth slot and 10 is the first.
func (a Assignment) At(n int) Slot {
	return a[((n-1)%Size+Size)%Size]
}

// Players lists player names in batting order.
func (a Assignment) Players() []string {
	out := make([]string, 0, Size)
	for _, s := range a {
		out = append(out, s.Player)
	}
	return out
}

// Validate checks that every batting position appears once and no player
// repeats. All problems are reported together.
func (a Assignment) Validate() error {
	var errs []string
	seenPos := make(map[stats.Position]int, Size)
	seenPlayer := make(map[string]int, Size)
	for i, s := range a {
		n := i + 1
		if s.Player == "" {
			errs = append(errs, fmt.Sprintf("slot %d has no player", n))
		} else if prev, ok := seenPlayer[s.Player]; ok {
			errs = append(errs, fmt.Sprintf("%s bats in slots %d and %d", s.Player, prev, n))
		} else {
			seenPlayer[s.Player] = n
		}
		if !isBattingPosition(s.Position) {
			errs = append(errs, fmt.Sprintf("slot %d has unknown position %q", n, s.Position))
		} else if prev, ok := seenPos[s.Position]; ok {
			errs = append(errs, fmt.Sprintf("position %s filled in slots %d and %d", s.Position, prev, n))
		} else {
			seenPos[s.Position] = n
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(errs, "; "))
	}
	return nil
}

// CheckRoster validates a and confirms every player is on roster.
func (a Assignment) CheckRoster(roster *stats.Roster) error {
	if err := a.Validate(); err != nil {
		return err
	}
	var errs []string
	for _, s := range a {
		if _, ok := roster.Get(s.Player); !ok {
			errs = append(errs, unknown(roster, s.Player))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(errs, "; "))
	}
	return nil
}

// CheckPitcher confirms name is on roster with a batters-faced sample.
func CheckPitcher(roster *stats.Roster, name string) error {
	if name == "" {
		return fmt.Errorf("%w: no starting pitcher", ErrConfiguration)
	}
	p, ok := roster.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrConfiguration, unknown(roster, name))
	}
	if !p.Has(stats.TBF) {
		return fmt.Errorf("%w: %s has no %s and cannot pitch", ErrConfiguration, name, stats.TBF)
	}
	return nil
}

func unknown(roster *stats.Roster, name string) string {
	msg := fmt.Sprintf("%q is not on the %s roster", name, roster.Team)
	if hint := roster.Suggest(name); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	return msg
}

func isBattingPosition(p stats.Position) bool {
	for _, bp := range stats.BattingPositions {
		if p == bp {
			return true
		}
	}
	return false
}
