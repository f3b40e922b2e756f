// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdflayout

import (
	"math"
	"sort"
	"strings"
)

const (
	defaultLineTolerance   = 2.0
	defaultColumnTolerance = 8.0
)

// Options tunes line grouping and column clustering. Zero values select
// the defaults.
type Options struct {
	// LineTolerance is the maximum vertical distance, in points, between
	// fragments on the same line.
	LineTolerance float64

	// ColumnTolerance is the maximum horizontal distance, in points,
	// between neighbouring fragment origins in the same column.
	ColumnTolerance float64
}

func (o Options) withDefaults() Options {
	if o.LineTolerance <= 0 {
		o.LineTolerance = defaultLineTolerance
	}
	if o.ColumnTolerance <= 0 {
		o.ColumnTolerance = defaultColumnTolerance
	}
	return o
}

// Line is a set of fragments sharing a baseline, ordered left to right.
type Line struct {
	Y         float64
	Fragments []Fragment
}

// Text joins the line's fragments with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Fragments))
	for i, f := range l.Fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// Table is a grid of cell text detected on one page. Every row has the
// same number of cells.
type Table struct {
	Rows [][]string
}

// GroupLines orders fragments top to bottom and merges those whose
// baselines are within the line tolerance.
func GroupLines(frags []Fragment, opts Options) []Line {
	opts = opts.withDefaults()
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	for _, f := range sorted {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].Y-f.Y) <= opts.LineTolerance {
			lines[n-1].Fragments = append(lines[n-1].Fragments, f)
			continue
		}
		lines = append(lines, Line{Y: f.Y, Fragments: []Fragment{f}})
	}
	for i := range lines {
		frs := lines[i].Fragments
		sort.SliceStable(frs, func(a, b int) bool { return frs[a].X < frs[b].X })
	}
	return lines
}

// Block is one element of a page in reading order: either a line of text
// or a table. Exactly one field is set.
type Block struct {
	Line  *Line
	Table *Table
}

// Blocks lays a page out as text lines and tables, top to bottom. A table
// is a run of at least two consecutive lines that each hold two or more
// fragments, laid out on a column grid built by clustering fragment
// origins. A run ends at a single-fragment line or at a vertical gap more
// than twice the run's first row pitch. Runs that collapse to a single
// column stay text lines, as do runs where some column is filled in half
// of the rows or fewer: words of prose placed one by one line up by
// chance, not on a grid.
func Blocks(lines []Line, opts Options) []Block {
	opts = opts.withDefaults()
	var blocks []Block
	var run []Line

	flush := func() {
		if len(run) >= 2 {
			if t, ok := buildTable(run, opts.ColumnTolerance); ok {
				blocks = append(blocks, Block{Table: &t})
				run = nil
				return
			}
		}
		for i := range run {
			blocks = append(blocks, Block{Line: &run[i]})
		}
		run = nil
	}

	for i := range lines {
		l := lines[i]
		if len(l.Fragments) < 2 {
			flush()
			blocks = append(blocks, Block{Line: &lines[i]})
			continue
		}
		if n := len(run); n >= 2 {
			pitch := run[0].Y - run[1].Y
			if run[n-1].Y-l.Y > 2*pitch+opts.LineTolerance {
				flush()
			}
		}
		run = append(run, l)
	}
	flush()
	return blocks
}

// DetectTables returns only the tables of Blocks.
func DetectTables(lines []Line, opts Options) []Table {
	var tables []Table
	for _, b := range Blocks(lines, opts) {
		if b.Table != nil {
			tables = append(tables, *b.Table)
		}
	}
	return tables
}

type column struct {
	min, max float64
}

func buildTable(run []Line, tol float64) (Table, bool) {
	var xs []float64
	for _, l := range run {
		for _, f := range l.Fragments {
			xs = append(xs, f.X)
		}
	}
	sort.Float64s(xs)

	var cols []column
	for _, x := range xs {
		if n := len(cols); n > 0 && x-cols[n-1].max <= tol {
			cols[n-1].max = x
			continue
		}
		cols = append(cols, column{min: x, max: x})
	}
	if len(cols) < 2 {
		return Table{}, false
	}

	rows := make([][]string, 0, len(run))
	filled := make([]int, len(cols))
	for _, l := range run {
		row := make([]string, len(cols))
		for _, f := range l.Fragments {
			i := columnOf(cols, f.X)
			if row[i] != "" {
				row[i] += " " + f.Text
				continue
			}
			row[i] = f.Text
			filled[i]++
		}
		rows = append(rows, row)
	}
	for _, n := range filled {
		if 2*n <= len(rows) {
			return Table{}, false
		}
	}
	return Table{Rows: rows}, true
}

func columnOf(cols []column, x float64) int {
	i := sort.Search(len(cols), func(i int) bool { return cols[i].max >= x })
	if i == len(cols) {
		return len(cols) - 1
	}
	return i
}
