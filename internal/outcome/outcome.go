// Package outcome resolves a plate appearance into a concrete result.
package outcome

import "fmt"

// Category is the first-level result of a plate appearance.
type Category int

const (
	CategoryStrikeout Category = iota
	CategoryWalk
	CategoryHit
	CategoryOut
)

var categoryNames = [...]string{"Strikeout", "Walk", "Hit", "Out"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

type StrikeoutStyle string

const (
	Swinging StrikeoutStyle = "Swinging"
	Looking  StrikeoutStyle = "Looking"
	FoulTip  StrikeoutStyle = "Foul Tip"
)

type WalkKind string

const (
	BaseOnBalls   WalkKind = "BB"
	IntentionalBB WalkKind = "IBB"
	HitByPitch    WalkKind = "HBP"
)

type HitKind string

const (
	Single  HitKind = "1B"
	Double  HitKind = "2B"
	Triple  HitKind = "3B"
	HomeRun HitKind = "HR"
)

type OutKind string

const (
	Groundout OutKind = "Groundout"
	Flyout    OutKind = "Flyout"
	Lineout   OutKind = "Lineout"
	Popout    OutKind = "Popout"
)

// Outcome is one of Strikeout, Walk, Hit or Out. The set is closed.
type Outcome interface {
	Category() Category
	// Code is a short scorebook-style tag, e.g. "K", "BB", "2B", "GO-DP".
	Code() string
	// Describe renders the play for batter, e.g. "Judge doubles."
	Describe(batter string) string
	isOutcome()
}

type Strikeout struct {
	Style StrikeoutStyle
}

type Walk struct {
	Kind WalkKind
}

// Hit carries Roll, the uniform draw that picks conservative or aggressive
// runner advancement on singles and doubles.
type Hit struct {
	Kind HitKind
	Roll float64
}

type Out struct {
	Kind       OutKind
	DoublePlay bool
}

func (Strikeout) Category() Category { return CategoryStrikeout }
func (Walk) Category() Category      { return CategoryWalk }
func (Hit) Category() Category       { return CategoryHit }
func (Out) Category() Category       { return CategoryOut }

func (Strikeout) isOutcome() {}
func (Walk) isOutcome()      {}
func (Hit) isOutcome()       {}
func (Out) isOutcome()       {}

func (s Strikeout) Code() string {
	if s.Style == Looking {
		return "KL"
	}
	return "K"
}

func (w Walk) Code() string { return string(w.Kind) }
func (h Hit) Code() string  { return string(h.Kind) }

func (o Out) Code() string {
	var code string
	switch o.Kind {
	case Groundout:
		code = "GO"
	case Flyout:
		code = "FO"
	case Lineout:
		code = "LO"
	case Popout:
		code = "PO"
	default:
		code = "OUT"
	}
	if o.DoublePlay {
		code += "-DP"
	}
	return code
}

func (s Strikeout) Describe(batter string) string {
	switch s.Style {
	case Looking:
		return batter + " strikes out looking."
	case FoulTip:
		return batter + " strikes out on a foul tip."
	default:
		return batter + " strikes out swinging."
	}
}

func (w Walk) Describe(batter string) string {
	switch w.Kind {
	case IntentionalBB:
		return batter + " intentionally walks."
	case HitByPitch:
		return batter + " hit by pitch."
	default:
		return batter + " walks."
	}
}

func (h Hit) Describe(batter string) string {
	switch h.Kind {
	case Double:
		return batter + " doubles."
	case Triple:
		return batter + " triples."
	case HomeRun:
		return batter + " homers."
	default:
		return batter + " singles."
	}
}

func (o Out) Describe(batter string) string {
	if o.DoublePlay {
		return batter + " grounds into a double play."
	}
	switch o.Kind {
	case Flyout:
		return batter + " flies out."
	case Lineout:
		return batter + " lines out."
	case Popout:
		return batter + " pops out."
	default:
		return batter + " grounds out."
	}
}

// Detail returns the sub-kind of o as a string.
func Detail(o Outcome) string {
	switch v := o.(type) {
	case Strikeout:
		return string(v.Style)
	case Walk:
		return string(v.Kind)
	case Hit:
		return string(v.Kind)
	case Out:
		return string(v.Kind)
	}
	return ""
}
