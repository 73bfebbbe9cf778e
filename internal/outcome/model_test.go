package outcome_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/mlbsim/internal/chance"
	"github.com/xtding233/mlbsim/internal/outcome"
	"github.com/xtding233/mlbsim/internal/stats"
)

func batter(values map[string]float64) stats.PlayerStats {
	return stats.NewPlayerStats("Batter", "NYY", values, stats.CenterField)
}

func pitcher(values map[string]float64) stats.PlayerStats {
	return stats.NewPlayerStats("Pitcher", "BOS", values, stats.StartingPitcher)
}

func typicalBatter() stats.PlayerStats {
	return batter(map[string]float64{
		"PA": 600, "SO": 130, "BB": 50, "IBB": 3, "HBP": 6, "H": 150,
		"1B": 100, "2B": 30, "3B": 3, "HR": 17, "GDP": 12,
	})
}

func typicalPitcher() stats.PlayerStats {
	return pitcher(map[string]float64{
		"TBF": 700, "SO": 170, "BB": 55, "IBB": 2, "HBP": 7, "H": 160,
	})
}

// zeroed returns a full stat line with every count zero except the overrides.
func zeroed(sample string, n float64, overrides map[string]float64) map[string]float64 {
	v := map[string]float64{
		sample: n, "SO": 0, "BB": 0, "IBB": 0, "HBP": 0, "H": 0,
		"1B": 0, "2B": 0, "3B": 0, "HR": 0, "GDP": 0,
	}
	for k, x := range overrides {
		v[k] = x
	}
	return v
}

func TestProbabilitiesSumToOne(t *testing.T) {
	m := outcome.NewModel(chance.NewSeededRNG(1))
	p, err := m.Probabilities(typicalBatter(), typicalPitcher())
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{p.Strikeout, p.Walk, p.Hit, p.Out} {
		if v < 0 || v > 1 {
			t.Fatalf("probability out of range; got=%+v", p)
		}
	}
	if math.Abs(p.Sum()-1) > 1e-12 {
		t.Fatalf("probabilities must sum to 1; got=%v", p.Sum())
	}
	if want := 300.0 / 1300.0; math.Abs(p.Strikeout-want) > 1e-12 {
		t.Fatalf("strikeout rate; got=%v want=%v", p.Strikeout, want)
	}
	if want := 123.0 / 1300.0; math.Abs(p.Walk-want) > 1e-12 {
		t.Fatalf("walk rate; got=%v want=%v", p.Walk, want)
	}
}

func TestBlendedRateNeedsPositiveSample(t *testing.T) {
	b := batter(zeroed("PA", 0, nil))
	p := pitcher(zeroed("TBF", 0, nil))
	_, err := outcome.BlendedRate(b, p, []string{"SO"}, []string{"SO"})
	if !errors.Is(err, stats.ErrData) {
		t.Fatalf("expected ErrData for zero sample; got err=%v", err)
	}
}

func TestResolveMissingStat(t *testing.T) {
	b := batter(map[string]float64{"PA": 100, "SO": 10})
	m := outcome.NewModel(chance.NewSeededRNG(1))
	_, err := m.Resolve(b, typicalPitcher(), outcome.Situation{})
	if !errors.Is(err, stats.ErrData) {
		t.Fatalf("expected ErrData for missing stats; got err=%v", err)
	}
}

func TestRatesAboveOneRejected(t *testing.T) {
	b := batter(zeroed("PA", 10, map[string]float64{"H": 30, "1B": 30}))
	p := pitcher(zeroed("TBF", 10, map[string]float64{"H": 10}))
	m := outcome.NewModel(chance.NewSeededRNG(1))
	if _, err := m.Probabilities(b, p); !errors.Is(err, stats.ErrData) {
		t.Fatalf("expected ErrData when rates exceed 1; got err=%v", err)
	}
}

func TestHomeRunAlwaysSelected(t *testing.T) {
	b := batter(zeroed("PA", 100, map[string]float64{"H": 100, "HR": 100}))
	// The pitcher's own hit mix is ignored for the kind draw.
	p := pitcher(zeroed("TBF", 100, map[string]float64{"H": 100, "1B": 100}))
	m := outcome.NewModel(chance.NewSeededRNG(9))
	for i := 0; i < 1000; i++ {
		o, err := m.Resolve(b, p, outcome.Situation{})
		if err != nil {
			t.Fatal(err)
		}
		h, ok := o.(outcome.Hit)
		if !ok || h.Kind != outcome.HomeRun {
			t.Fatalf("draw %d: expected HR; got=%#v", i, o)
		}
	}
}

func TestOnlyWalkKindWithCountsIsDrawn(t *testing.T) {
	b := batter(zeroed("PA", 100, map[string]float64{"HBP": 100}))
	p := pitcher(zeroed("TBF", 100, nil))
	m := outcome.NewModel(chance.NewSeededRNG(21))
	walks := 0
	for i := 0; i < 1000; i++ {
		o, err := m.Resolve(b, p, outcome.Situation{})
		if err != nil {
			t.Fatal(err)
		}
		w, ok := o.(outcome.Walk)
		if !ok {
			continue
		}
		walks++
		if w.Kind != outcome.HitByPitch {
			t.Fatalf("draw %d: expected HBP; got=%#v", i, o)
		}
	}
	if walks == 0 {
		t.Fatalf("walk rate is 0.5 but no walks were drawn")
	}
}

func TestWalkKindBoundaries(t *testing.T) {
	// Walk is certain; kind weights are 0.5/0.2/0.3 so the cumulative edges
	// sit at 0.5 and 0.7.
	b := batter(zeroed("PA", 100, map[string]float64{"BB": 50, "IBB": 20, "HBP": 30}))
	p := pitcher(zeroed("TBF", 100, map[string]float64{"BB": 50, "IBB": 20, "HBP": 30}))
	cases := []struct {
		roll float64
		want outcome.WalkKind
	}{
		{0, outcome.BaseOnBalls},
		{0.49, outcome.BaseOnBalls},
		{0.5, outcome.IntentionalBB},
		{0.69, outcome.IntentionalBB},
		{0.7, outcome.HitByPitch},
		{0.99, outcome.HitByPitch},
	}
	for _, c := range cases {
		m := outcome.NewModel(&chance.Sequence{Values: []float64{0.5, c.roll}})
		o, err := m.Resolve(b, p, outcome.Situation{})
		if err != nil {
			t.Fatal(err)
		}
		w, ok := o.(outcome.Walk)
		if !ok || w.Kind != c.want {
			t.Fatalf("roll %v: expected %v; got=%#v", c.roll, c.want, o)
		}
	}
}

func TestHitRollFollowsKindDraw(t *testing.T) {
	b := batter(zeroed("PA", 100, map[string]float64{"H": 100, "HR": 100}))
	p := pitcher(zeroed("TBF", 100, map[string]float64{"H": 100}))
	m := outcome.NewModel(&chance.Sequence{Values: []float64{0, 0, 0.42}})
	o, err := m.Resolve(b, p, outcome.Situation{})
	if err != nil {
		t.Fatal(err)
	}
	if h := o.(outcome.Hit); h.Roll != 0.42 {
		t.Fatalf("roll should be the third draw; got=%v", h.Roll)
	}
}

func TestEmptyHitMixIsDataError(t *testing.T) {
	b := batter(zeroed("PA", 100, map[string]float64{"H": 100}))
	p := pitcher(zeroed("TBF", 100, map[string]float64{"H": 100}))
	m := outcome.NewModel(chance.NewSeededRNG(3))
	if _, err := m.Resolve(b, p, outcome.Situation{}); !errors.Is(err, stats.ErrData) {
		t.Fatalf("expected ErrData for empty hit mix; got err=%v", err)
	}
}

func TestStrikeoutStyles(t *testing.T) {
	b := batter(zeroed("PA", 100, map[string]float64{"SO": 100}))
	p := pitcher(zeroed("TBF", 100, map[string]float64{"SO": 100}))
	cases := []struct {
		roll float64
		want outcome.StrikeoutStyle
	}{
		{0.10, outcome.Swinging},
		{0.80, outcome.Looking},
		{0.99, outcome.FoulTip},
	}
	for _, c := range cases {
		m := outcome.NewModel(&chance.Sequence{Values: []float64{0.5, c.roll}})
		o, err := m.Resolve(b, p, outcome.Situation{})
		if err != nil {
			t.Fatal(err)
		}
		if k := o.(outcome.Strikeout); k.Style != c.want {
			t.Fatalf("roll %v; got=%v want=%v", c.roll, k.Style, c.want)
		}
	}
}

func TestDoublePlayGating(t *testing.T) {
	// every PA is an out and the GDP rate saturates the clamp
	b := batter(zeroed("PA", 100, map[string]float64{"GDP": 100}))
	p := pitcher(zeroed("TBF", 100, nil))
	cases := []struct {
		sit  outcome.Situation
		want bool
	}{
		{outcome.Situation{FirstOccupied: true, Outs: 0}, true},
		{outcome.Situation{FirstOccupied: true, Outs: 1}, false},
		{outcome.Situation{FirstOccupied: false, Outs: 0}, false},
	}
	for _, c := range cases {
		m := outcome.NewModel(&chance.Sequence{Values: []float64{0}})
		o, err := m.Resolve(b, p, c.sit)
		if err != nil {
			t.Fatal(err)
		}
		out, ok := o.(outcome.Out)
		if !ok || out.Kind != outcome.Groundout {
			t.Fatalf("expected groundout; got=%#v", o)
		}
		if out.DoublePlay != c.want {
			t.Fatalf("situation %+v; got DP=%v want=%v", c.sit, out.DoublePlay, c.want)
		}
	}
}

func TestOutMixFrequencies(t *testing.T) {
	b := batter(zeroed("PA", 100, nil))
	p := pitcher(zeroed("TBF", 100, nil))
	m := outcome.NewModel(chance.NewSeededRNG(11))
	const n = 40000
	counts := map[outcome.OutKind]int{}
	for i := 0; i < n; i++ {
		o, err := m.Resolve(b, p, outcome.Situation{})
		if err != nil {
			t.Fatal(err)
		}
		counts[o.(outcome.Out).Kind]++
	}
	for _, w := range outcome.DefaultOutMix() {
		freq := float64(counts[w.Item]) / n
		if math.Abs(freq-w.Weight) > 0.015 {
			t.Fatalf("%s frequency %v too far from %v", w.Item, freq, w.Weight)
		}
	}
}

func TestCodes(t *testing.T) {
	cases := []struct {
		o    outcome.Outcome
		code string
	}{
		{outcome.Strikeout{Style: outcome.Swinging}, "K"},
		{outcome.Strikeout{Style: outcome.Looking}, "KL"},
		{outcome.Walk{Kind: outcome.HitByPitch}, "HBP"},
		{outcome.Hit{Kind: outcome.Double}, "2B"},
		{outcome.Out{Kind: outcome.Groundout, DoublePlay: true}, "GO-DP"},
		{outcome.Out{Kind: outcome.Popout}, "PO"},
	}
	for _, c := range cases {
		if got := c.o.Code(); got != c.code {
			t.Fatalf("%#v; got=%q want=%q", c.o, got, c.code)
		}
	}
	if got := (outcome.Hit{Kind: outcome.Triple}).Describe("Judge"); got != "Judge triples." {
		t.Fatalf("describe; got=%q", got)
	}
}
