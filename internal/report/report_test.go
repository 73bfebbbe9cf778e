package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xtding233/mlbsim/internal/bases"
	"github.com/xtding233/mlbsim/internal/game"
)

func samplePlay() game.PlayRecord {
	return game.PlayRecord{
		GameID:      "g1",
		Seq:         4,
		Team:        "Yankees",
		Inning:      3,
		Half:        game.Top,
		Batter:      "Judge",
		Pitcher:     "Sale",
		Outcome:     "1B",
		Description: "Judge singles.",
		BasesBefore: bases.Snapshot{Third: "Rizzo"},
		BasesAfter:  bases.Snapshot{First: "Judge"},
		Scored:      []string{"Rizzo"},
		Runs:        1,
		OutsAfter:   1,
		Score:       [2]int{2, 0},
	}
}

type failing struct{ err error }

func (f failing) ReportPlay(context.Context, game.PlayRecord) error             { return f.err }
func (f failing) ReportHalfInning(context.Context, game.HalfInningRecord) error { return f.err }

func TestMultiReachesEveryone(t *testing.T) {
	boom := errors.New("boom")
	var a, b Recorder
	m := Multi{&a, failing{boom}, nil, &b}
	err := m.ReportPlay(context.Background(), samplePlay())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error; got err=%v", err)
	}
	if len(a.Plays()) != 1 || len(b.Plays()) != 1 {
		t.Fatalf("every reporter should see the play; got=%d,%d", len(a.Plays()), len(b.Plays()))
	}
	if err := (Multi{&a}).ReportHalfInning(context.Background(), game.HalfInningRecord{}); err != nil {
		t.Fatalf("unexpected err=%v", err)
	}
}

func TestChannelRespectsContext(t *testing.T) {
	c := NewChannel(1)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.ReportPlay(ctx, samplePlay()); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := c.ReportHalfInning(ctx, game.HalfInningRecord{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("full channel with cancelled ctx; got err=%v", err)
	}
	ev := <-c.C
	if ev.Play == nil || ev.Play.Batter != "Judge" {
		t.Fatalf("unexpected event %+v", ev)
	}
	c.Close()
}

func TestTextPlay(t *testing.T) {
	var buf bytes.Buffer
	if err := (Text{W: &buf}).ReportPlay(context.Background(), samplePlay()); err != nil {
		t.Fatal(err)
	}
	want := "Judge singles.\nRizzo scored.\n  1B: Judge  2B: -  3B: -  Outs: 1\n"
	if buf.String() != want {
		t.Fatalf("got=%q want=%q", buf.String(), want)
	}
}

func TestTextPlacedRunner(t *testing.T) {
	var buf bytes.Buffer
	rec := samplePlay()
	rec.Placed = "Volpe"
	if err := (Text{W: &buf}).ReportPlay(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Volpe starting at second.\nJudge singles.\n") {
		t.Fatalf("got=%q", buf.String())
	}
}

func TestTextSkippedHalf(t *testing.T) {
	var buf bytes.Buffer
	rec := game.HalfInningRecord{Inning: 9, Half: game.Bottom, Played: false, Score: [2]int{2, 3}}
	if err := (Text{W: &buf}).ReportHalfInning(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Bottom 9 not played. Score 2-3") {
		t.Fatalf("got=%q", buf.String())
	}
}

func TestLineScore(t *testing.T) {
	res := game.Result{
		Teams: [2]string{"Yankees", "Red Sox"},
		Score: [2]int{1, 2},
		Hits:  [2]int{5, 7},
		LineScore: [2][]game.Cell{
			{{Runs: 1, Played: true}, {Played: true}},
			{{Runs: 2, Played: true}, {Played: false}},
		},
	}
	var buf bytes.Buffer
	if err := LineScore(&buf, res); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows; got=%q", buf.String())
	}
	if f := strings.Fields(lines[2]); strings.Join(f, " ") != "Red Sox 2 X 2 7 0" {
		t.Fatalf("home row; got=%q", lines[2])
	}
	if f := strings.Fields(lines[0]); strings.Join(f, " ") != "1 2 R H E" {
		t.Fatalf("header; got=%q", lines[0])
	}
}

func TestRedisArgs(t *testing.T) {
	p := NewRedisStream(nil)
	p.PerGame = true
	args, err := p.args("g1", "play", samplePlay())
	if err != nil {
		t.Fatal(err)
	}
	if args.Stream != "mlbsim.plays.g1" || !args.Approx {
		t.Fatalf("unexpected args %+v", args)
	}
	vals := args.Values.(map[string]interface{})
	var got game.PlayRecord
	if err := json.Unmarshal([]byte(vals["data"].(string)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Batter != "Judge" || vals["type"] != "play" || vals["game_id"] != "g1" {
		t.Fatalf("unexpected values %v", vals)
	}
}

func TestRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	err := NewRedisStream(client).ReportHalfInning(context.Background(), game.HalfInningRecord{GameID: "g1"})
	if err == nil {
		t.Fatalf("expected a connection error")
	}
}
