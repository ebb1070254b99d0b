package model

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/fvbommel/sortorder"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/render"
)

// Column is one of the fixed table columns.
type Column int

const (
	ColumnID Column = iota
	ColumnName
	ColumnSize
)

// Columns returns the table columns in display order.
func Columns() []Column {
	return []Column{ColumnID, ColumnName, ColumnSize}
}

// ParseColumn resolves a column by its title, case-insensitively.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns() {
		if strings.EqualFold(c.Title(), s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", s)
}

// Title returns the column header.
func (c Column) Title() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnName:
		return "Name"
	case ColumnSize:
		return "Size"
	default:
		return fmt.Sprintf("Column(%d)", int(c))
	}
}

// Width returns the column's share of the table width, in percent.
func (c Column) Width() int {
	if c == ColumnSize {
		return 20
	}
	return 40
}

// Project returns the display text of r under this column.
func (c Column) Project(r dao.Resource) string {
	switch c {
	case ColumnID:
		return r.ID
	case ColumnName:
		return r.Name
	case ColumnSize:
		return render.HumanizeSize(r.Size, render.AutoPlaces)
	default:
		return ""
	}
}

// Compare orders a and b under this column. Ties break on ID so the order is total.
func (c Column) Compare(a, b dao.Resource) int {
	var n int
	switch c {
	case ColumnName:
		n = compareNatural(a.Name, b.Name)
	case ColumnSize:
		n = cmp.Compare(a.Size, b.Size)
	}
	if n != 0 {
		return n
	}
	return strings.Compare(a.ID, b.ID)
}

func compareNatural(a, b string) int {
	switch {
	case a == b:
		return 0
	case sortorder.NaturalLess(a, b):
		return -1
	case sortorder.NaturalLess(b, a):
		return 1
	default:
		return strings.Compare(a, b)
	}
}
