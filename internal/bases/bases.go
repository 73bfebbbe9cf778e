// Package bases applies plate appearance outcomes to base occupancy.
package bases

import (
	"fmt"

	"github.com/xtding233/mlbsim/internal/outcome"
)

// Thresholds on Hit.Roll: below them runners take the conservative extra
// base, at or above they take the aggressive one.
const (
	SingleAggressiveRoll = 0.5
	DoubleAggressiveRoll = 0.8
)

// State is base occupancy. An empty string means the base is open. Scored
// lists the runners who crossed the plate on the current play and is
// cleared by the caller between plays.
type State struct {
	First  string   `json:"first,omitempty"`
	Second string   `json:"second,omitempty"`
	Third  string   `json:"third,omitempty"`
	Scored []string `json:"scored,omitempty"`
}

// Result is what a single play did to the game.
type Result struct {
	Scored []string
	Outs   int // outs added by the play
}

// Snapshot is an immutable copy of occupancy for reporting.
type Snapshot struct {
	First  string `json:"first,omitempty"`
	Second string `json:"second,omitempty"`
	Third  string `json:"third,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{First: s.First, Second: s.Second, Third: s.Third}
}

// Empty reports whether no base is occupied.
func (s *State) Empty() bool {
	return s.First == "" && s.Second == "" && s.Third == ""
}

// Runners counts occupied bases.
func (s *State) Runners() int {
	n := 0
	for _, b := range []string{s.First, s.Second, s.Third} {
		if b != "" {
			n++
		}
	}
	return n
}

// Clear empties every base. Scored is left alone.
func (s *State) Clear() {
	s.First, s.Second, s.Third = "", "", ""
}

// ClearScored drops the scored list once the play has been reported.
func (s *State) ClearScored() {
	s.Scored = nil
}

// String renders occupancy as a diamond code, e.g. "1-3" or "---".
func (s Snapshot) String() string {
	mark := func(occupied string, c byte) byte {
		if occupied == "" {
			return '-'
		}
		return c
	}
	return string([]byte{mark(s.First, '1'), mark(s.Second, '2'), mark(s.Third, '3')})
}

func (s *State) score(runner string) {
	if runner != "" {
		s.Scored = append(s.Scored, runner)
	}
}

// Apply moves runners for o with batter at the plate and outsBefore outs
// already recorded in the half-inning. When the play brings the total to
// three outs the bases are cleared; runners who scored on the play still
// count.
func (s *State) Apply(o outcome.Outcome, batter string, outsBefore int) (Result, error) {
	if outsBefore < 0 || outsBefore > 2 {
		return Result{}, fmt.Errorf("bases: %d outs before a play", outsBefore)
	}
	start := len(s.Scored)
	outs := 0

	switch v := o.(type) {
	case outcome.Strikeout:
		outs = 1
	case outcome.Walk:
		s.walk(batter)
	case outcome.Hit:
		if err := s.hit(v, batter); err != nil {
			return Result{}, err
		}
	case outcome.Out:
		outs = 1
		if err := s.out(v, outsBefore); err != nil {
			return Result{}, err
		}
	default:
		return Result{}, fmt.Errorf("bases: unknown outcome %T", o)
	}

	if outsBefore+outs >= 3 {
		s.Clear()
	}
	scored := append([]string(nil), s.Scored[start:]...)
	return Result{Scored: scored, Outs: outs}, nil
}

// walk forces runners only through the chain that starts at first.
func (s *State) walk(batter string) {
	if s.First != "" {
		if s.Second != "" {
			if s.Third != "" {
				s.score(s.Third)
			}
			s.Third = s.Second
		}
		s.Second = s.First
	}
	s.First = batter
}

func (s *State) hit(h outcome.Hit, batter string) error {
	switch h.Kind {
	case outcome.Single:
		s.score(s.Third)
		if h.Roll < SingleAggressiveRoll {
			s.Third, s.Second = s.Second, s.First
		} else {
			s.score(s.Second)
			s.Third, s.Second = s.First, ""
		}
		s.First = batter
	case outcome.Double:
		s.score(s.Third)
		s.score(s.Second)
		if h.Roll < DoubleAggressiveRoll {
			s.Third = s.First
		} else {
			s.score(s.First)
			s.Third = ""
		}
		s.First, s.Second = "", batter
	case outcome.Triple:
		s.score(s.Third)
		s.score(s.Second)
		s.score(s.First)
		s.First, s.Second, s.Third = "", "", batter
	case outcome.HomeRun:
		s.score(s.Third)
		s.score(s.Second)
		s.score(s.First)
		s.score(batter)
		s.Clear()
	default:
		return fmt.Errorf("bases: unknown hit kind %q", h.Kind)
	}
	return nil
}

func (s *State) out(o outcome.Out, outsBefore int) error {
	switch o.Kind {
	case outcome.Groundout:
		if o.DoublePlay && s.First != "" && outsBefore == 0 {
			// lead runner on first is erased; only one out is charged
			s.score(s.Third)
			s.Third, s.Second, s.First = s.Second, "", ""
			return nil
		}
		if s.First != "" {
			if s.Second != "" {
				s.score(s.Third)
				s.Third = s.Second
			}
			s.Second, s.First = s.First, ""
		} else {
			s.score(s.Third)
			s.Third, s.Second = s.Second, ""
		}
	case outcome.Flyout:
		if outsBefore < 2 {
			s.score(s.Third)
			s.Third, s.Second = s.Second, ""
		}
	case outcome.Lineout, outcome.Popout:
	default:
		return fmt.Errorf("bases: unknown out kind %q", o.Kind)
	}
	return nil
}
