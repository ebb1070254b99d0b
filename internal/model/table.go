package model

import (
	"slices"

	"github.com/im-n1/kosatka/internal/dao"
)

// Table owns the rows on screen and the selected row.
type Table struct {
	rows     []dao.Resource
	selected int
	sort     SortState
}

// NewTable returns an empty table with no selection.
func NewTable() *Table {
	return &Table{selected: -1}
}

// Load replaces all rows and repairs the selection around preferred.
// A negative preferred means no preference.
func (t *Table) Load(rows []dao.Resource, preferred int) {
	t.rows = slices.Clone(rows)
	t.sortRows()
	t.selected = repair(preferred, len(t.rows))
}

// repair keeps preferred when it still exists, moves to the new last row
// when preferred was the row just past it, and falls back to the top.
func repair(preferred, n int) int {
	switch {
	case n == 0:
		return -1
	case preferred >= 0 && preferred < n:
		return preferred
	case preferred == n:
		return n - 1
	default:
		return 0
	}
}

// Select moves the selection to row i.
func (t *Table) Select(i int) error {
	if i < 0 || i >= len(t.rows) {
		return ErrOutOfRange
	}
	t.selected = i

	return nil
}

// SortBy orders rows by col. Sorting the active column again flips the
// direction. The selected resource stays selected.
func (t *Table) SortBy(col Column) {
	if t.sort.Active && t.sort.Column == col {
		t.sort.Ascending = !t.sort.Ascending
	} else {
		t.sort = SortState{Column: col, Ascending: true, Active: true}
	}

	var id string
	if r, ok := t.CurrentRow(); ok {
		id = r.ID
	}
	t.sortRows()
	if i := t.IndexOf(id); i >= 0 {
		t.selected = i
	}
}

func (t *Table) sortRows() {
	if !t.sort.Active {
		return
	}
	col, asc := t.sort.Column, t.sort.Ascending
	slices.SortStableFunc(t.rows, func(a, b dao.Resource) int {
		if asc {
			return col.Compare(a, b)
		}
		return col.Compare(b, a)
	})
}

// CurrentRow returns the selected resource.
func (t *Table) CurrentRow() (dao.Resource, bool) {
	return t.RowAt(t.selected)
}

// RowAt returns the resource at row i.
func (t *Table) RowAt(i int) (dao.Resource, bool) {
	if i < 0 || i >= len(t.rows) {
		return dao.Resource{}, false
	}
	return t.rows[i], true
}

// IndexOf returns the row holding resource id, or -1.
func (t *Table) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(t.rows, func(r dao.Resource) bool {
		return r.ID == id
	})
}

// Rows returns a copy of the current rows.
func (t *Table) Rows() []dao.Resource {
	return slices.Clone(t.rows)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Selected returns the selected row index or -1.
func (t *Table) Selected() int {
	return t.selected
}

// Columns returns the table columns.
func (t *Table) Columns() []Column {
	return Columns()
}

// SortColumn returns the active ordering.
func (t *Table) SortColumn() SortState {
	return t.sort
}
