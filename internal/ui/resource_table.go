// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
)

const (
	// TitleFmt formats the table title with resource, scope and row count.
	TitleFmt = " [aqua::b]%s[white::-]([fuchsia::b]%s[white::-])[[aqua::b]%d[white::-]] "

	ascIndicator  = "↑"
	descIndicator = "↓"
	noData        = "No resources found"
)

// ResourceTable draws resource rows below a fixed header. Data row i sits
// on table row i+1.
type ResourceTable struct {
	*tview.Table

	actions   *KeyActions
	style     config.TableStyle
	selectFn  func(int)
	rendering bool
	resource  string
	scope     string
	count     int
	mx        sync.RWMutex
}

// NewResourceTable creates a table styled by s.
func NewResourceTable(s config.TableStyle) *ResourceTable {
	r := ResourceTable{
		Table:   tview.NewTable(),
		actions: NewKeyActions(),
		style:   s,
	}
	r.SetBorder(true)
	r.SetBorderAttributes(tcell.AttrBold)
	r.SetBorderPadding(0, 0, 1, 1)
	r.SetBorderColor(s.BorderColor.Color())
	r.SetBackgroundColor(s.BgColor.Color())
	r.SetFixed(1, 0)
	r.SetSelectable(true, false)
	r.SetSelectedStyle(tcell.StyleDefault.
		Foreground(s.CursorFgColor.Color()).
		Background(s.CursorBgColor.Color()).
		Attributes(tcell.AttrBold))
	r.SetSelectionChangedFunc(r.selectionChanged)
	r.SetInputCapture(r.keyboard)

	return &r
}

// SetSelectFn registers the callback for user driven selection changes.
// It receives the data row index.
func (r *ResourceTable) SetSelectFn(f func(int)) {
	r.selectFn = f
}

// Actions returns the key actions.
func (r *ResourceTable) Actions() *KeyActions {
	return r.actions
}

// Hints returns menu hints for key bindings.
func (r *ResourceTable) Hints() MenuHints {
	return r.actions.Hints()
}

// SetContext sets the resource name and scope shown in the title.
func (r *ResourceTable) SetContext(resource, scope string) {
	r.mx.Lock()
	r.resource, r.scope = resource, scope
	r.mx.Unlock()
	r.updateTitle()
}

// Render redraws rows under cols with data row selected, or no selection on -1.
func (r *ResourceTable) Render(cols []model.Column, rows []dao.Resource, selected int, sort model.SortState) {
	r.rendering = true
	defer func() { r.rendering = false }()

	r.Clear()
	r.buildHeader(cols, sort)
	for i, res := range rows {
		r.buildRow(i+1, cols, res)
	}

	r.mx.Lock()
	r.count = len(rows)
	r.mx.Unlock()
	r.updateTitle()

	if len(rows) == 0 {
		r.showMessage(noData, tcell.ColorGray)
		r.Select(0, 0)
		return
	}
	if selected >= 0 && selected < len(rows) {
		r.Select(selected+1, 0)
	}
}

// SelectedRow returns the highlighted data row or -1.
func (r *ResourceTable) SelectedRow() int {
	row, _ := r.GetSelection()
	if row < 1 || row >= r.GetRowCount() {
		return -1
	}
	if r.GetCell(row, 0).GetReference() == nil {
		return -1
	}
	return row - 1
}

func (r *ResourceTable) selectionChanged(row, _ int) {
	if r.rendering || r.selectFn == nil || row < 1 {
		return
	}
	r.selectFn(row - 1)
}

func (r *ResourceTable) buildHeader(cols []model.Column, sort model.SortState) {
	for c, col := range cols {
		title := col.Title()
		if sort.Active && sort.Column == col {
			if sort.Ascending {
				title += ascIndicator
			} else {
				title += descIndicator
			}
		}
		cell := tview.NewTableCell(title)
		cell.SetTextColor(r.style.HeaderFgColor.Color())
		cell.SetBackgroundColor(r.style.BgColor.Color())
		cell.SetAttributes(tcell.AttrBold)
		cell.SetExpansion(col.Width())
		cell.SetAlign(columnAlign(col))
		cell.SetSelectable(false)
		r.SetCell(0, c, cell)
	}
}

func (r *ResourceTable) buildRow(row int, cols []model.Column, res dao.Resource) {
	for c, col := range cols {
		cell := tview.NewTableCell(tview.Escape(col.Project(res)))
		cell.SetTextColor(r.style.FgColor.Color())
		cell.SetBackgroundColor(r.style.BgColor.Color())
		cell.SetExpansion(col.Width())
		cell.SetAlign(columnAlign(col))
		if c == 0 {
			cell.SetReference(res.ID)
		}
		r.SetCell(row, c, cell)
	}
}

func (r *ResourceTable) showMessage(msg string, color tcell.Color) {
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	cell.SetExpansion(1)
	r.SetCell(1, 0, cell)
}

// Title returns the current frame title.
func (r *ResourceTable) Title() string {
	r.mx.RLock()
	defer r.mx.RUnlock()
	if r.resource == "" {
		return ""
	}
	return fmt.Sprintf(TitleFmt, r.resource, r.scope, r.count)
}

func (r *ResourceTable) updateTitle() {
	if t := r.Title(); t != "" {
		r.SetTitle(t)
	}
}

func (r *ResourceTable) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := r.GetSelection()
	rowCount := r.GetRowCount()
	if rowCount <= 1 {
		return r.actions.Dispatch(evt)
	}

	if evt.Key() == tcell.KeyRune {
		switch evt.Rune() {
		case 'j':
			if row < rowCount-1 {
				r.Select(row+1, col)
			}
			return nil
		case 'k':
			if row > 1 {
				r.Select(row-1, col)
			}
			return nil
		case 'g':
			r.Select(1, col)
			return nil
		case 'G':
			r.Select(rowCount-1, col)
			return nil
		}
	}

	switch evt.Key() {
	case tcell.KeyDown:
		if row < rowCount-1 {
			r.Select(row+1, col)
		}
		return nil
	case tcell.KeyUp:
		if row > 1 {
			r.Select(row-1, col)
		}
		return nil
	case tcell.KeyHome:
		r.Select(1, col)
		return nil
	case tcell.KeyEnd:
		r.Select(rowCount-1, col)
		return nil
	}

	return r.actions.Dispatch(evt)
}

func columnAlign(c model.Column) int {
	if c == model.ColumnSize {
		return tview.AlignRight
	}
	return tview.AlignLeft
}
