// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package view

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

// HelpSection is a titled column of bindings.
type HelpSection struct {
	Title string
	Binds []HelpBind
}

// Help lists commands and key bindings.
type Help struct {
	*tview.Table

	app     *App
	actions *ui.KeyActions
}

// NewHelp creates a new help view.
func NewHelp(app *App) *Help {
	return &Help{
		Table:   tview.NewTable(),
		app:     app,
		actions: ui.NewKeyActions(),
	}
}

// Init builds the help table.
func (h *Help) Init(context.Context) error {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorAqua)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)
	h.actions.Add(tcell.KeyEsc, ui.NewKeyAction("Back", nil, true))
	h.build(h.sections())

	return nil
}

// Start is a no-op.
func (*Help) Start() {}

// Stop is a no-op.
func (*Help) Stop() {}

// Name returns the view name.
func (*Help) Name() string {
	return "help"
}

// Hints returns the menu hints for this view.
func (h *Help) Hints() ui.MenuHints {
	return h.actions.Hints()
}

func (h *Help) sections() []HelpSection {
	var aliases []HelpBind
	if h.app != nil && h.app.command != nil {
		for _, a := range h.app.command.aliases.Keys() {
			rid, _ := h.app.command.aliases.Get(a)
			aliases = append(aliases, HelpBind{":" + a, rid})
		}
	}
	aliases = append(aliases,
		HelpBind{":ns <name>", "Namespace"},
		HelpBind{":region <r>", "Region"},
		HelpBind{":q", "Quit"},
	)

	return []HelpSection{
		{Title: "COMMANDS", Binds: aliases},
		{Title: "GENERAL", Binds: []HelpBind{
			{"<:>", "Command"},
			{"<?>", "Help"},
			{"<esc>", "Back"},
			{"<q>", "Quit"},
			{"<ctrl-r>", "Refresh"},
		}},
		{Title: "NAVIGATION", Binds: []HelpBind{
			{"<j>", "Down"},
			{"<k>", "Up"},
			{"<g>", "Top"},
			{"<G>", "Bottom"},
		}},
		{Title: "RESOURCE", Binds: []HelpBind{
			{"<m>", "Actions"},
			{"<enter>", "Actions"},
			{"<d>", "Describe"},
			{"<c>", "Copy ID"},
			{"<I>", "Sort ID"},
			{"<N>", "Sort Name"},
			{"<S>", "Sort Size"},
		}},
	}
}

// build lays sections out side by side as key, description and spacer columns.
func (h *Help) build(ss []HelpSection) {
	h.Clear()
	const colWidth = 3

	rows := 0
	for _, s := range ss {
		rows = max(rows, len(s.Binds))
	}
	for i, s := range ss {
		base := i * colWidth
		h.SetCell(0, base, tview.NewTableCell(s.Title).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for r, b := range s.Binds {
			h.SetCell(r+1, base, tview.NewTableCell(tview.Escape(b.Key)).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(r+1, base+1, tview.NewTableCell(b.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}
		if i < len(ss)-1 {
			for r := 0; r <= rows; r++ {
				h.SetCell(r, base+2, tview.NewTableCell("").SetSelectable(false).SetExpansion(1))
			}
		}
	}
}
