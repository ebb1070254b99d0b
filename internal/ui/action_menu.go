// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/model"
)

const (
	// ActionMenuKey names the action menu overlay page.
	ActionMenuKey = "action-menu"

	actionMenuWidth = 52
)

// ActionMenu is the modal list of actions offered for one row.
type ActionMenu struct {
	*tview.List

	choices  []model.ActionKind
	submitFn func(model.ActionKind)
	cancelFn func()
}

// NewActionMenu returns an empty menu styled by s.
func NewActionMenu(s config.MenuStyle) *ActionMenu {
	m := ActionMenu{List: tview.NewList()}
	m.ShowSecondaryText(false)
	m.SetBorder(true)
	m.SetBorderPadding(0, 0, 1, 1)
	m.SetBorderColor(s.BorderColor.Color())
	m.SetBackgroundColor(s.BgColor.Color())
	m.SetMainTextColor(s.FgColor.Color())
	m.SetShortcutColor(tcell.ColorYellow)
	m.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if i >= 0 && i < len(m.choices) && m.submitFn != nil {
			m.submitFn(m.choices[i])
		}
	})
	m.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		if evt.Key() == tcell.KeyEsc || (evt.Key() == tcell.KeyRune && evt.Rune() == 'q') {
			if m.cancelFn != nil {
				m.cancelFn()
			}
			return nil
		}
		return evt
	})

	return &m
}

// SetSubmitFn sets the callback for a chosen action.
func (m *ActionMenu) SetSubmitFn(f func(model.ActionKind)) {
	m.submitFn = f
}

// SetCancelFn sets the callback for a dismissed menu.
func (m *ActionMenu) SetCancelFn(f func()) {
	m.cancelFn = f
}

// Choices returns the listed actions.
func (m *ActionMenu) Choices() []model.ActionKind {
	return m.choices
}

// Reset fills the menu with choices for the target named title.
func (m *ActionMenu) Reset(title string, choices []model.ActionKind) {
	m.Clear()
	m.choices = append([]model.ActionKind(nil), choices...)
	m.SetTitle(fmt.Sprintf(" [::b]%s ", tview.Escape(title)))
	for _, k := range m.choices {
		m.AddItem(k.String(), "", shortcut(k.String()), nil)
	}
	m.SetCurrentItem(0)
}

// Modal centers the menu sized to its content.
func (m *ActionMenu) Modal() tview.Primitive {
	return Centered(m, actionMenuWidth, len(m.choices)+2)
}

func shortcut(label string) rune {
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

// Centered wraps p in a layout that centers it at the given size.
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
