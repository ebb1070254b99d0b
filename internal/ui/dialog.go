// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	// ErrorDialogKey names the error overlay page.
	ErrorDialogKey = "error-dialog"
	// InfoDialogKey names the info overlay page.
	InfoDialogKey = "info-dialog"

	dialogOK = "OK"
)

// Dialog is a modal with a single dismiss button.
type Dialog struct {
	*tview.Modal

	pages  *Pages
	pageID string
	onDone func()
}

// NewDialog creates a dialog shown on pages under pageID.
func NewDialog(pages *Pages, pageID string) *Dialog {
	d := Dialog{
		Modal:  tview.NewModal(),
		pages:  pages,
		pageID: pageID,
	}
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.AddButtons([]string{dialogOK})
	d.SetDoneFunc(func(int, string) { d.Dismiss() })

	return &d
}

// SetHeader sets the modal frame title.
func (d *Dialog) SetHeader(title string) *Dialog {
	d.Modal.SetTitle(" " + title + " ")
	return d
}

// SetMessage sets the dialog body.
func (d *Dialog) SetMessage(msg string) *Dialog {
	d.Modal.SetText(msg)
	return d
}

// SetDoneCallback sets the callback run once the dialog is dismissed.
func (d *Dialog) SetDoneCallback(fn func()) *Dialog {
	d.onDone = fn
	return d
}

// SetColors configures dialog colors.
func (d *Dialog) SetColors(text, btnBg, btnText tcell.Color) *Dialog {
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(btnBg)
	d.SetButtonTextColor(btnText)
	d.SetBorderColor(btnBg)
	return d
}

// Show displays the dialog in front of every other page.
func (d *Dialog) Show() {
	if d.pages != nil {
		d.pages.Show(d.pageID, d)
	}
}

// Dismiss removes the dialog from display.
func (d *Dialog) Dismiss() {
	if d.pages != nil {
		d.pages.Dismiss(d.pageID)
	}
	if d.onDone != nil {
		d.onDone()
	}
}

// PageID returns the dialog's page identifier.
func (d *Dialog) PageID() string {
	return d.pageID
}

// InfoDialog creates a plain dialog.
func InfoDialog(pages *Pages, title, message string) *Dialog {
	return NewDialog(pages, InfoDialogKey).
		SetHeader(title).
		SetMessage(message)
}

// ErrorDialog creates an error dialog in color c.
func ErrorDialog(pages *Pages, title, message string, c tcell.Color) *Dialog {
	return NewDialog(pages, ErrorDialogKey).
		SetHeader(title).
		SetMessage(message).
		SetColors(c, c, tcell.ColorWhite)
}
