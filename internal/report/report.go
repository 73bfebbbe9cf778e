// Package report holds game.Reporter implementations.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xtding233/mlbsim/internal/game"
)

// Recorder keeps every record in memory.
type Recorder struct {
	mu     sync.Mutex
	plays  []game.PlayRecord
	halves []game.HalfInningRecord
}

func (r *Recorder) ReportPlay(_ context.Context, rec game.PlayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plays = append(r.plays, rec)
	return nil
}

func (r *Recorder) ReportHalfInning(_ context.Context, rec game.HalfInningRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halves = append(r.halves, rec)
	return nil
}

func (r *Recorder) Plays() []game.PlayRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.PlayRecord(nil), r.plays...)
}

func (r *Recorder) HalfInnings() []game.HalfInningRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.HalfInningRecord(nil), r.halves...)
}

// Log renders one line per play, stable enough to compare two runs.
func (r *Recorder) Log() []string {
	plays := r.Plays()
	out := make([]string, 0, len(plays))
	for _, p := range plays {
		out = append(out, fmt.Sprintf("%s %d %s | %s vs %s | %s | %s -> %s | runs=%d outs=%d | %d-%d",
			p.Half, p.Inning, p.Team, p.Batter, p.Pitcher, p.Outcome,
			p.BasesBefore, p.BasesAfter, p.Runs, p.OutsAfter, p.Score[0], p.Score[1]))
	}
	return out
}

// Multi fans records out to every reporter in order. All reporters see the
// record; their errors are joined.
type Multi []game.Reporter

func (m Multi) ReportPlay(ctx context.Context, rec game.PlayRecord) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		errs = append(errs, r.ReportPlay(ctx, rec))
	}
	return errors.Join(errs...)
}

func (m Multi) ReportHalfInning(ctx context.Context, rec game.HalfInningRecord) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		errs = append(errs, r.ReportHalfInning(ctx, rec))
	}
	return errors.Join(errs...)
}

// Event is a play or half-inning record, exactly one of which is set.
type Event struct {
	Play *game.PlayRecord
	Half *game.HalfInningRecord
}

// Channel pushes records to C so a consumer can render them elsewhere.
// Sends block until received or ctx is done.
type Channel struct {
	C chan Event
}

func NewChannel(buffer int) *Channel {
	return &Channel{C: make(chan Event, buffer)}
}

func (c *Channel) ReportPlay(ctx context.Context, rec game.PlayRecord) error {
	return c.send(ctx, Event{Play: &rec})
}

func (c *Channel) ReportHalfInning(ctx context.Context, rec game.HalfInningRecord) error {
	return c.send(ctx, Event{Half: &rec})
}

func (c *Channel) send(ctx context.Context, ev Event) error {
	select {
	case c.C <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes C. Call once no game reports to it any more.
func (c *Channel) Close() { close(c.C) }
