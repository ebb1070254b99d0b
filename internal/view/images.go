// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package view

import (
	"context"
	"errors"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/derailed/tcell/v2"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
	"github.com/im-n1/kosatka/internal/ui"
)

// Images is the main resource table. It implements model.Surface over tview
// widgets and feeds user input to a model.Controller.
type Images struct {
	*ui.ResourceTable

	app    *App
	ctrl   *model.Controller
	menu   *ui.ActionMenu
	rid    *dao.ResourceID
	copyFn func(string) error
}

var _ model.Surface = (*Images)(nil)

// NewImages returns the table view for app.
func NewImages(app *App) *Images {
	v := Images{
		ResourceTable: ui.NewResourceTable(app.Styles().Table),
		app:           app,
		menu:          ui.NewActionMenu(app.Styles().Menu),
		copyFn:        clipboard.WriteAll,
	}
	v.ctrl = model.NewController(nil, app.bridge, &v)
	if cfg := app.Config(); cfg != nil && cfg.Kosatka != nil {
		v.ctrl.SetReadOnly(cfg.Kosatka.IsReadOnly())
	}

	return &v
}

// Init binds keys and controller callbacks.
func (v *Images) Init(context.Context) error {
	v.SetSelectFn(func(i int) { v.handle(v.ctrl.SelectRow(i)) })
	v.menu.SetSubmitFn(func(k model.ActionKind) { v.handle(v.ctrl.SubmitMenu(k)) })
	v.menu.SetCancelFn(func() { v.handle(v.ctrl.CancelMenu()) })
	v.bindKeys()

	return nil
}

// Start reloads the table.
func (v *Images) Start() {
	if v.rid == nil {
		return
	}
	v.handle(v.ctrl.Refresh())
}

// Stop is a no-op; the table has no background work.
func (*Images) Stop() {}

// Name returns the view name.
func (v *Images) Name() string {
	if v.rid == nil {
		return "images"
	}
	return v.rid.Resource
}

// Controller returns the table controller.
func (v *Images) Controller() *model.Controller {
	return v.ctrl
}

// ResourceID returns the resource type on display.
func (v *Images) ResourceID() *dao.ResourceID {
	return v.rid
}

// SetResource switches the backend to client and reloads.
func (v *Images) SetResource(rid *dao.ResourceID, client dao.Client) error {
	if err := v.ctrl.SetClient(client); err != nil {
		return err
	}
	v.rid = rid
	v.UpdateContext()
	v.Start()

	return nil
}

// UpdateContext refreshes the title scope from the factory.
func (v *Images) UpdateContext() {
	if v.rid == nil {
		return
	}
	scope := ""
	if f := v.app.Factory(); f != nil {
		switch *v.rid {
		case dao.AMIRID:
			scope = f.Region()
		case dao.DockerImageRID:
			scope = dao.DockerHost()
		case dao.ImageRID:
			scope = f.Namespace()
		}
	}
	v.SetContext(v.rid.String(), scope)
}

func (v *Images) bindKeys() {
	v.Actions().Bulk(ui.KeyMap{
		ui.KeyM:        ui.NewKeyAction("Actions", v.menuCmd, true),
		tcell.KeyEnter: ui.NewKeyAction("Actions", v.menuCmd, false),
		ui.KeyShiftI:   ui.NewKeyAction("Sort ID", v.sortCmd(model.ColumnID), true),
		ui.KeyShiftN:   ui.NewKeyAction("Sort Name", v.sortCmd(model.ColumnName), true),
		ui.KeyShiftS:   ui.NewKeyAction("Sort Size", v.sortCmd(model.ColumnSize), true),
		tcell.KeyCtrlR: ui.NewKeyAction("Refresh", v.refreshCmd, true),
		ui.KeyD:        ui.NewKeyAction("Describe", v.describeCmd, true),
		ui.KeyC:        ui.NewKeyAction("Copy ID", v.copyCmd, true),
		ui.KeyHelp:     ui.NewSharedKeyAction("Help", nil, true),
		ui.KeyColon:    ui.NewSharedKeyAction("Command", nil, true),
		ui.KeyQ:        ui.NewSharedKeyAction("Quit", nil, true),
	})
}

func (v *Images) menuCmd(*tcell.EventKey) *tcell.EventKey {
	v.handle(v.ctrl.OpenMenu())
	return nil
}

func (v *Images) sortCmd(c model.Column) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		v.handle(v.ctrl.SortBy(c))
		return nil
	}
}

func (v *Images) refreshCmd(*tcell.EventKey) *tcell.EventKey {
	if v.rid == nil {
		return nil
	}
	v.handle(v.ctrl.Refresh())
	return nil
}

func (v *Images) describeCmd(*tcell.EventKey) *tcell.EventKey {
	r, ok := v.ctrl.Current()
	if !ok {
		return nil
	}
	if err := v.app.PushView(NewDescribe(v.rid, r)); err != nil {
		v.app.Flash().Err(err)
	}
	return nil
}

func (v *Images) copyCmd(*tcell.EventKey) *tcell.EventKey {
	r, ok := v.ctrl.Current()
	if !ok {
		return nil
	}
	if err := v.copyFn(r.ID); err != nil {
		slog.Warn("Clipboard copy failed", "id", r.ID, "err", err)
		v.app.Flash().Errf("Copy failed: %v", err)
		return nil
	}
	v.app.Flash().Infof("Copied %s to clipboard", r.ID)
	return nil
}

// handle drops errors the controller has already reported or logged.
func (v *Images) handle(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrBusy) {
		v.app.Flash().Warn("Busy, try again")
	}
}

// RenderTable redraws the table.
func (v *Images) RenderTable(cols []model.Column, rows []dao.Resource, selected int, sort model.SortState) {
	v.Render(cols, rows, selected, sort)
}

// ShowMenu overlays the action menu.
func (v *Images) ShowMenu(title string, choices []model.ActionKind) {
	v.menu.Reset(title, choices)
	v.app.Content.Show(ui.ActionMenuKey, v.menu.Modal())
	v.app.SetFocus(v.menu)
}

// HideMenu removes the action menu.
func (v *Images) HideMenu() {
	v.app.Content.Dismiss(ui.ActionMenuKey)
	v.app.SetFocus(v)
}

// ShowError shows a blocking error dialog.
func (v *Images) ShowError(title string, err error) {
	d := ui.ErrorDialog(v.app.Content, title, err.Error(), v.app.Styles().Flash.ErrColor.Color())
	d.SetDoneCallback(func() { v.app.SetFocus(v) })
	d.Show()
	v.app.SetFocus(d)
}

// ShowInfo flashes a message.
func (v *Images) ShowInfo(msg string) {
	v.app.Flash().Info(msg)
}
