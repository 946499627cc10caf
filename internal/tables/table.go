// Package tables holds the in-memory pricing tables of every insurer and
// the loader that reads them from workbooks and CSV exports.
package tables

import (
	"fmt"
	"strings"

	"github.com/soat-quoter/internal/normalizer"
)

// Kind tells what a sheet contains.
type Kind int

const (
	KindUnknown Kind = iota
	KindTariff
	KindGroups
	KindZones
)

func (k Kind) String() string {
	switch k {
	case KindTariff:
		return "tariff"
	case KindGroups:
		return "groups"
	case KindZones:
		return "zones"
	default:
		return "unknown"
	}
}

// Table is a sheet with normalized headers and raw string cells, in source
// order. A Table is never modified once built.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New builds a Table from a header row and data rows. Headers are
// normalized, blank headers become UNNAMED: <n>, rows are padded or cut to
// the header width and fully blank rows are skipped.
func New(name string, header []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		col := normalizer.Normalize(h)
		if col == "" {
			col = fmt.Sprintf("UNNAMED: %d", i)
		}
		t.Columns[i] = col
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	for _, r := range rows {
		if blank(r) {
			continue
		}
		row := make([]string, len(header))
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows; a nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether col is one of the table's headers.
func (t *Table) Has(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[col]
	return ok
}

// Cell returns the raw value at row i under col, or "" when the column is
// missing.
func (t *Table) Cell(i int, col string) string {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][j]
}

// Value is Cell passed through the normalizer.
func (t *Table) Value(i int, col string) string {
	return normalizer.Normalize(t.Cell(i, col))
}

// FindColumn resolves a logical column from a keyword list. The first
// keyword that equals a header wins; failing that, keyword by keyword, the
// first header containing it wins.
func (t *Table) FindColumn(keywords ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, k := range keywords {
		if _, ok := t.index[k]; ok {
			return k, true
		}
	}
	for _, k := range keywords {
		for _, c := range t.Columns {
			if strings.Contains(c, k) {
				return c, true
			}
		}
	}
	return "", false
}

// Concat appends other below t. Columns are the union of both header sets
// in first-seen order; cells missing on either side are blank.
func Concat(t, other *Table) *Table {
	if t == nil {
		return other
	}
	if other == nil {
		return t
	}
	header := append([]string{}, t.Columns...)
	for _, c := range other.Columns {
		if !t.Has(c) {
			header = append(header, c)
		}
	}
	rows := make([][]string, 0, len(t.Rows)+len(other.Rows))
	for _, src := range []*Table{t, other} {
		for i := range src.Rows {
			row := make([]string, len(header))
			for j, c := range header {
				row[j] = src.Cell(i, c)
			}
			rows = append(rows, row)
		}
	}
	return New(t.Name, header, rows)
}
