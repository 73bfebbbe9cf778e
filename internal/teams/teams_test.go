package teams_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/teams"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		q    string
		want string
	}{
		{"Yankees", "Yankees"},
		{"red sox", "Red Sox"},
		{"NYM", "Mets"},
		{" cws ", "White Sox"},
	}
	for _, c := range cases {
		got, err := teams.Lookup(c.q)
		if err != nil || got.Name != c.want {
			t.Fatalf("Lookup(%q); got=%v err=%v", c.q, got.Name, err)
		}
	}
}

func TestLookupSuggests(t *testing.T) {
	_, err := teams.Lookup("Yankes")
	if !errors.Is(err, teams.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam; got err=%v", err)
	}
	if !strings.Contains(err.Error(), `"Yankees"`) {
		t.Fatalf("expected suggestion; got err=%v", err)
	}
	if _, err := teams.Lookup("Zzzzzzzzzzzzzz"); !errors.Is(err, teams.ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam; got err=%v", err)
	}
}

func TestAllHasThirtyClubs(t *testing.T) {
	all := teams.All()
	if len(all) != 30 {
		t.Fatalf("got=%d clubs", len(all))
	}
	seen := map[string]bool{}
	for _, c := range all {
		if seen[c.Abbr] || c.Primary == "" || c.Secondary == "" {
			t.Fatalf("bad club %+v", c)
		}
		seen[c.Abbr] = true
	}
}

func TestRandomMatchupDistinct(t *testing.T) {
	rng := chance.NewSeededRNG(4)
	for i := 0; i < 200; i++ {
		away, home := teams.RandomMatchup(rng)
		if away.Name == home.Name {
			t.Fatalf("draw %d paired %s with itself", i, away.Name)
		}
	}
}
