package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/xtding233/mlbsim/internal/game"
)

// Text writes a human-readable play-by-play.
type Text struct {
	W io.Writer
}

func (t Text) ReportPlay(_ context.Context, rec game.PlayRecord) error {
	var b strings.Builder
	if rec.Placed != "" {
		fmt.Fprintf(&b, "%s starting at second.\n", rec.Placed)
	}
	fmt.Fprintf(&b, "%s\n", rec.Description)
	for _, r := range rec.Scored {
		fmt.Fprintf(&b, "%s scored.\n", r)
	}
	fmt.Fprintf(&b, "  1B: %s  2B: %s  3B: %s  Outs: %d\n",
		orDash(rec.BasesAfter.First), orDash(rec.BasesAfter.Second), orDash(rec.BasesAfter.Third), rec.OutsAfter)
	_, err := io.WriteString(t.W, b.String())
	return err
}

func (t Text) ReportHalfInning(_ context.Context, rec game.HalfInningRecord) error {
	var line string
	if !rec.Played {
		line = fmt.Sprintf("Bottom %d not played.", rec.Inning)
	} else {
		line = fmt.Sprintf("End of %s %d: %s scored %d.", rec.Half, rec.Inning, rec.Team, rec.Runs)
	}
	_, err := fmt.Fprintf(t.W, "%s Score %d-%d\n\n", line, rec.Score[game.Away], rec.Score[game.Home])
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// LineScore prints the inning-by-inning table with R/H/E totals.
func LineScore(w io.Writer, res game.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	n := max(len(res.LineScore[game.Away]), len(res.LineScore[game.Home]))

	header := []string{""}
	for i := 1; i <= n; i++ {
		header = append(header, strconv.Itoa(i))
	}
	header = append(header, "R", "H", "E")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, side := range []game.Side{game.Away, game.Home} {
		row := []string{res.Teams[side]}
		for i := 0; i < n; i++ {
			cell := ""
			if i < len(res.LineScore[side]) {
				cell = res.LineScore[side][i].String()
			}
			row = append(row, cell)
		}
		row = append(row,
			strconv.Itoa(res.Score[side]),
			strconv.Itoa(res.Hits[side]),
			strconv.Itoa(res.Errors[side]))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
