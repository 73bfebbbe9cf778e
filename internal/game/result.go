package game

// Result summarizes a finished (or aborted) game.
type Result struct {
	ID        string    `json:"id"`
	Teams     [2]string `json:"teams"`
	Score     [2]int    `json:"score"`
	Hits      [2]int    `json:"hits"`
	Errors    [2]int    `json:"errors"`
	LineScore [2][]Cell `json:"line_score"`
	Innings   int       `json:"innings"`
	Plays     int       `json:"plays"`
	Final     bool      `json:"final"`
}

// Result reports the game as it currently stands.
func (g *Game) Result() Result {
	s := g.State()
	return Result{
		ID:        g.ID,
		Teams:     [2]string{g.teams[Away].Name, g.teams[Home].Name},
		Score:     s.Score,
		Hits:      s.Hits,
		Errors:    s.Errors,
		LineScore: s.LineScore,
		Innings:   s.Inning,
		Plays:     g.seq,
		Final:     s.Phase.Kind == GameOver,
	}
}

// Winner returns the winning side; ok is false for unfinished or tied games.
func (r Result) Winner() (side Side, ok bool) {
	if !r.Final || r.Score[Away] == r.Score[Home] {
		return Away, false
	}
	if r.Score[Home] > r.Score[Away] {
		return Home, true
	}
	return Away, true
}

// WinnerName is the winning team's name, or "" when there is none.
func (r Result) WinnerName() string {
	side, ok := r.Winner()
	if !ok {
		return ""
	}
	return r.Teams[side]
}
