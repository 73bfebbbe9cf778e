package game

import (
	"context"

	"github.com/xtding233/mlbsim/internal/bases"
	"github.com/xtding233/mlbsim/internal/outcome"
)

// PlayRecord describes one committed plate appearance.
type PlayRecord struct {
	GameID      string          `json:"game_id"`
	Seq         int             `json:"seq"`
	Team        string          `json:"team"`
	Inning      int             `json:"inning"`
	Half        Half            `json:"half"`
	Batter      string          `json:"batter"`
	Pitcher     string          `json:"pitcher"`
	Placed      string          `json:"placed_runner,omitempty"`
	Outcome     string          `json:"outcome"`
	Detail      string          `json:"detail"`
	Description string          `json:"description"`
	BasesBefore bases.Snapshot  `json:"bases_before"`
	BasesAfter  bases.Snapshot  `json:"bases_after"`
	Scored      []string        `json:"scored,omitempty"`
	Runs        int             `json:"runs"`
	OutsAfter   int             `json:"outs_after"`
	Score       [2]int          `json:"score"`
	Result      outcome.Outcome `json:"-"`
}

// HalfInningRecord closes a half-inning. Played is false when the bottom
// half was skipped because the home side already led.
type HalfInningRecord struct {
	GameID       string `json:"game_id"`
	Team         string `json:"team"`
	Inning       int    `json:"inning"`
	Half         Half   `json:"half"`
	Runs         int    `json:"runs"`
	Played       bool   `json:"played"`
	Score        [2]int `json:"score"`
	Hits         [2]int `json:"hits"`
	Errors       [2]int `json:"errors"`
	PlacedRunner string `json:"placed_runner,omitempty"`
}

// Reporter receives records after the state they describe is committed.
// A reporter error aborts the game.
type Reporter interface {
	ReportPlay(ctx context.Context, rec PlayRecord) error
	ReportHalfInning(ctx context.Context, rec HalfInningRecord) error
}

type nopReporter struct{}

func (nopReporter) ReportPlay(context.Context, PlayRecord) error             { return nil }
func (nopReporter) ReportHalfInning(context.Context, HalfInningRecord) error { return nil }
