// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"fmt"
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuFmt = " [yellow::b]<%s>[white::-] %s "
	// MenuRows is the hint bar height.
	MenuRows = 2
)

// Menu is the key hint bar for the top component.
type Menu struct {
	*tview.Table
}

// NewMenu returns a new hint bar.
func NewMenu() *Menu {
	m := Menu{Table: tview.NewTable()}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return &m
}

// HydrateMenu lays the visible hints out column by column.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	for i, s := range layoutHints(hh, MenuRows) {
		c := tview.NewTableCell(s)
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(i%MenuRows, i/MenuRows, c)
	}
}

func layoutHints(hh MenuHints, rows int) []string {
	vv := make(MenuHints, 0, len(hh))
	for _, h := range hh {
		if h.Visible && !h.IsBlank() {
			vv = append(vv, h)
		}
	}
	sort.Sort(vv)

	out := make([]string, 0, len(vv)+rows)
	for _, h := range vv {
		out = append(out, fmt.Sprintf(menuFmt, h.Mnemonic, h.Description))
	}

	return out
}

// StackPushed notifies a component was added.
func (m *Menu) StackPushed(c Component) {
	m.HydrateMenu(c.Hints())
}

// StackPopped notifies a component was removed.
func (m *Menu) StackPopped(_, top Component) {
	if top == nil {
		m.Clear()
		return
	}
	m.HydrateMenu(top.Hints())
}

// StackTop notifies the top component.
func (m *Menu) StackTop(t Component) {
	m.HydrateMenu(t.Hints())
}
