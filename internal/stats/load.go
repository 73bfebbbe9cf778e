package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseValue turns a leaderboard cell into a number. Percent strings become
// fractions rounded to three places ("25.0%" => 0.25). ok is false for
// non-numeric cells such as names.
func ParseValue(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, false
		}
		return math.Round(v/100*1000) / 1000, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LoadCSV reads a leaderboard export for one position. The first row is the
// header; "Name" and "Team" columns are required (falling back to the first
// two columns when the header does not name them). When teams is non-empty
// only rows for those teams are kept.
func LoadCSV(r io.Reader, pos Position, teams ...string) ([]PlayerStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s table: %w", pos, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s table is empty", ErrData, pos)
	}
	// exports often start with a UTF-8 BOM
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return fromRows(rows[0], rows[1:], pos, teams)
}

// LoadHTMLTable reads the first <table> of a leaderboard page. Header cells
// come from the first row (th or td).
func LoadHTMLTable(r io.Reader, pos Position, teams ...string) ([]PlayerStats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", pos, err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: %s page has no table", ErrData, pos)
	}

	var header []string
	var rows [][]string
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		if header == nil {
			header = cells
			return
		}
		rows = append(rows, cells)
	})
	if header == nil {
		return nil, fmt.Errorf("%w: %s table has no header", ErrData, pos)
	}
	return fromRows(header, rows, pos, teams)
}

func fromRows(header []string, rows [][]string, pos Position, teams []string) ([]PlayerStats, error) {
	nameCol, teamCol := indexOf(header, "Name"), indexOf(header, "Team")
	if nameCol < 0 || teamCol < 0 {
		if len(header) < 2 {
			return nil, fmt.Errorf("%w: %s header too short", ErrData, pos)
		}
		nameCol, teamCol = 0, 1
	}
	keep := make(map[string]bool, len(teams))
	for _, t := range teams {
		keep[t] = true
	}

	var out []PlayerStats
	for _, row := range rows {
		if len(row) <= nameCol || len(row) <= teamCol {
			continue
		}
		name, team := strings.TrimSpace(row[nameCol]), strings.TrimSpace(row[teamCol])
		if name == "" || (len(keep) > 0 && !keep[team]) {
			continue
		}
		values := make(map[string]float64, len(header))
		for i, col := range header {
			if i >= len(row) || i == nameCol || i == teamCol {
				continue
			}
			if v, ok := ParseValue(row[i]); ok {
				values[strings.TrimSpace(col)] = v
			}
		}
		out = append(out, NewPlayerStats(name, team, values, pos))
	}
	return out, nil
}

func indexOf(header []string, col string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return i
		}
	}
	return -1
}

// Paths helper for per-position export files.
type Paths struct {
	BaseDir string // e.g. ./data
}

// TablePath is <BaseDir>/<POS>.csv, the name leaderboard exports are saved as.
func (p Paths) TablePath(pos Position) string {
	return filepath.Join(p.BaseDir, string(pos)+".csv")
}

// LoadDir reads every position table under dir, keeping rows for teams.
// Missing files are reported together.
func LoadDir(dir string, teams ...string) (map[Position][]PlayerStats, error) {
	paths := Paths{BaseDir: dir}
	tables := make(map[Position][]PlayerStats)
	var missing []string
	for _, pos := range AllPositions() {
		f, err := os.Open(paths.TablePath(pos))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, string(pos)+".csv")
				continue
			}
			return nil, err
		}
		rows, err := LoadCSV(f, pos, teams...)
		f.Close()
		if err != nil {
			return nil, err
		}
		tables[pos] = rows
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing stat files in %s: %s", dir, strings.Join(missing, ", "))
	}
	return tables, nil
}
