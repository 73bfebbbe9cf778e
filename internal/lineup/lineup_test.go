package lineup_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/lineup"
	"github.com/xtding233/mlbsim/internal/stats"
	"github.com/xtding233/mlbsim/internal/testutil"
)

func TestValidateAcceptsFixture(t *testing.T) {
	roster, _ := testutil.Roster("NYY")
	a := testutil.Lineup("NYY")
	if err := a.CheckRoster(roster); err != nil {
		t.Fatalf("fixture lineup should be valid; err=%v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	a := testutil.Lineup("NYY")
	a[1].Player = a[0].Player
	a[2].Position = stats.Catcher
	a[3].Player = ""
	err := a.Validate()
	if !errors.Is(err, lineup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration; got err=%v", err)
	}
	for _, want := range []string{"slots 1 and 2", "position C", "slot 4 has no player"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestCheckRosterSuggestsName(t *testing.T) {
	roster, _ := testutil.Roster("NYY")
	a := testutil.Lineup("NYY")
	a[3].Player = "NYY SS 11" // typo of "NYY SS 1"
	err := a.CheckRoster(roster)
	if !errors.Is(err, lineup.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration; got err=%v", err)
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected a suggestion; got err=%v", err)
	}
}

func TestCheckPitcher(t *testing.T) {
	roster, _ := testutil.Roster("NYY")
	if err := lineup.CheckPitcher(roster, "NYY SP 2"); err != nil {
		t.Fatalf("starter should be accepted; err=%v", err)
	}
	if err := lineup.CheckPitcher(roster, "NYY C 1"); !errors.Is(err, lineup.ErrConfiguration) {
		t.Fatalf("catcher has no TBF; got err=%v", err)
	}
	if err := lineup.CheckPitcher(roster, ""); !errors.Is(err, lineup.ErrConfiguration) {
		t.Fatalf("empty pitcher; got err=%v", err)
	}
}

func TestFromSlotsNeedsNine(t *testing.T) {
	a := testutil.Lineup("NYY")
	if _, err := lineup.FromSlots(a[:8]); !errors.Is(err, lineup.ErrConfiguration) {
		t.Fatalf("eight slots must fail; got err=%v", err)
	}
	got, err := lineup.FromSlots(a[:])
	if err != nil || got != a {
		t.Fatalf("nine slots; got=%v err=%v", got, err)
	}
	if got.At(10) != a[0] {
		t.Fatalf("At wraps after nine")
	}
}

func TestAtWrapsAnyPosition(t *testing.T) {
	a := testutil.Lineup("NYY")
	cases := []struct {
		n    int
		want lineup.Slot
	}{
		{1, a[0]},
		{9, a[8]},
		{10, a[0]},
		{0, a[8]},
		{-8, a[0]},
		{-9, a[8]},
	}
	for _, c := range cases {
		if got := a.At(c.n); got != c.want {
			t.Fatalf("At(%d); got=%v want=%v", c.n, got, c.want)
		}
	}
}

func TestRandomLineupNeverRepeats(t *testing.T) {
	roster, chart := testutil.Roster("BOS")
	z := lineup.NewRandomizer(chance.NewSeededRNG(5))
	for i := 0; i < 500; i++ {
		a, err := z.Lineup(chart)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.CheckRoster(roster); err != nil {
			t.Fatalf("draw %d produced an invalid lineup %v; err=%v", i, a.Players(), err)
		}
	}
}

func TestRandomLineupSharedPlayerExcluded(t *testing.T) {
	// 1B has one candidate who is also the only DH candidate
	chart := stats.DepthChart{}
	_, full := testutil.Roster("BOS")
	for _, pos := range stats.BattingPositions {
		chart[pos] = full[pos][:1]
	}
	chart[stats.Designated] = full[stats.FirstBase][:1]
	z := lineup.NewRandomizer(chance.NewSeededRNG(1))
	if _, err := z.Lineup(chart); !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("exhausted DH pool should fail; got err=%v", err)
	}
}

func TestRandomLineupEmptyChart(t *testing.T) {
	z := lineup.NewRandomizer(chance.NewSeededRNG(1))
	if _, err := z.Lineup(stats.DepthChart{}); !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("empty chart should fail; got err=%v", err)
	}
}

func TestStartingPitcherNeedsTBF(t *testing.T) {
	_, chart := testutil.Roster("BOS")
	z := lineup.NewRandomizer(chance.NewSeededRNG(2))
	p, err := z.StartingPitcher(chart)
	if err != nil || !p.EligibleAt(stats.StartingPitcher) {
		t.Fatalf("expected a starter; got=%v err=%v", p.Name, err)
	}

	chart[stats.StartingPitcher] = []stats.PlayerStats{testutil.Batter("Two-Way", "BOS", 0)}
	if _, err := z.StartingPitcher(chart); !errors.Is(err, chance.ErrAllocation) {
		t.Fatalf("no TBF sample should fail; got err=%v", err)
	}
}
