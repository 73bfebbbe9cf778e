package game

import (
	"fmt"
	"strconv"

	"github.com/xtding233/mlbsim/internal/bases"
)

// Side indexes per-team arrays.
type Side int

const (
	Away Side = iota
	Home
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Other returns the opposing side.
func (s Side) Other() Side { return 1 - s }

type Half int

const (
	Top Half = iota
	Bottom
)

func (h Half) String() string {
	if h == Bottom {
		return "bottom"
	}
	return "top"
}

func (h Half) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Half) UnmarshalText(b []byte) error {
	switch string(b) {
	case "top":
		*h = Top
	case "bottom":
		*h = Bottom
	default:
		return fmt.Errorf("unknown half %q", b)
	}
	return nil
}

// Batting returns the side at the plate in this half.
func (h Half) Batting() Side {
	if h == Bottom {
		return Home
	}
	return Away
}

type PhaseKind int

const (
	PreGame PhaseKind = iota
	TopHalf
	BottomHalf
	GameOver
	Aborted
)

// Phase is the controller's position. Inning is set for half-inning phases
// and keeps the last inning once the game is over.
type Phase struct {
	Kind   PhaseKind
	Inning int
}

func (p Phase) String() string {
	switch p.Kind {
	case PreGame:
		return "PreGame"
	case TopHalf:
		return fmt.Sprintf("Top(%d)", p.Inning)
	case BottomHalf:
		return fmt.Sprintf("Bottom(%d)", p.Inning)
	case GameOver:
		return "GameOver"
	case Aborted:
		return "Aborted"
	}
	return fmt.Sprintf("Phase(%d)", int(p.Kind))
}

// Done reports whether no further step is possible.
func (p Phase) Done() bool { return p.Kind == GameOver || p.Kind == Aborted }

// Cell is one line-score entry. A half that was not played renders as "X".
type Cell struct {
	Runs   int  `json:"runs"`
	Played bool `json:"played"`
}

func (c Cell) String() string {
	if !c.Played {
		return "X"
	}
	return strconv.Itoa(c.Runs)
}

// State is everything that changes during a game. It is owned by one Game.
type State struct {
	Inning    int
	Half      Half
	Outs      int
	Score     [2]int
	Hits      [2]int
	Errors    [2]int
	LineScore [2][]Cell
	Pointer   [2]int // last batting slot used, 1..9
	Pitcher   [2]string
	Bases     bases.State
	Phase     Phase
}

func (s *State) cell(side Side) *Cell {
	cells := s.LineScore[side]
	return &cells[len(cells)-1]
}
