package model

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/render"
)

const menuTitleMax = 48

// Controller drives the table, the action menu and the dispatcher from
// surface input, and renders every state change back to the surface.
type Controller struct {
	table      *Table
	menu       *Menu
	dispatcher *Dispatcher
	bridge     *Bridge
	surface    Surface
}

// NewController returns a controller over client. The surface may be set later.
func NewController(client dao.Client, bridge *Bridge, s Surface) *Controller {
	t := NewTable()
	return &Controller{
		table:      t,
		menu:       NewMenu(),
		dispatcher: NewDispatcher(client, bridge, t),
		bridge:     bridge,
		surface:    s,
	}
}

// SetSurface binds the render surface.
func (c *Controller) SetSurface(s Surface) {
	c.surface = s
}

// SetClient swaps the backend and clears the table.
func (c *Controller) SetClient(client dao.Client) error {
	if err := c.guard(); err != nil {
		return err
	}
	c.closeMenu()
	c.dispatcher.SetClient(client)
	c.table.Load(nil, -1)
	c.render()

	return nil
}

// SetReadOnly blocks or allows mutations.
func (c *Controller) SetReadOnly(b bool) {
	c.dispatcher.SetReadOnly(b)
}

// ReadOnly reports whether mutations are blocked.
func (c *Controller) ReadOnly() bool {
	return c.dispatcher.ReadOnly()
}

// Table returns the table state.
func (c *Controller) Table() *Table {
	return c.table
}

// Menu returns the menu state.
func (c *Controller) Menu() *Menu {
	return c.menu
}

// Busy reports whether a backend call is in flight.
func (c *Controller) Busy() bool {
	return c.bridge.Busy()
}

func (c *Controller) guard() error {
	if c.bridge.Busy() {
		slog.Debug("Input ignored while backend call in flight")
		return ErrBusy
	}
	return nil
}

// Refresh reloads rows from the backend, keeping the selected index.
func (c *Controller) Refresh() error {
	if err := c.tableGuard(); err != nil {
		return err
	}
	if err := c.dispatcher.Fetch(c.table.Selected()); err != nil {
		c.fail("Fetch failed", err)
		return err
	}
	c.render()

	return nil
}

// SelectRow moves the selection to row i.
func (c *Controller) SelectRow(i int) error {
	if err := c.tableGuard(); err != nil {
		return err
	}
	if err := c.table.Select(i); err != nil {
		slog.Error("Selection rejected", "row", i, "rows", c.table.RowCount(), "err", err)
		return err
	}
	c.render()

	return nil
}

// OpenMenu opens the action menu over the selected row. It is a no-op on
// an empty table.
func (c *Controller) OpenMenu() error {
	if err := c.guard(); err != nil {
		return err
	}
	if !c.menu.Open(c.table.Selected()) {
		slog.Debug("Menu request ignored, no selection")
		return nil
	}
	r, _ := c.table.CurrentRow()
	title := r.Name
	if title == "" {
		title = r.ID
	}
	if c.surface != nil {
		c.surface.ShowMenu(render.Truncate(title, menuTitleMax), c.menu.Choices())
	}

	return nil
}

// SubmitMenu closes the menu and dispatches kind against its target row.
func (c *Controller) SubmitMenu(kind ActionKind) error {
	if err := c.guard(); err != nil {
		return err
	}
	req, err := c.menu.Submit(kind, c.table)
	if c.surface != nil {
		c.surface.HideMenu()
	}
	if err != nil {
		if errors.Is(err, ErrOutOfRange) {
			slog.Error("Menu target vanished", "err", err)
		}
		c.render()
		return err
	}

	if err := c.dispatcher.Dispatch(req); err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			// The mutation went through, only the reload failed.
			c.info(fmt.Sprintf("%s %s succeeded", req.Kind, req.ResourceID))
			c.fail("Fetch failed", err)
		} else {
			c.fail(fmt.Sprintf("%s failed", req.Kind), err)
		}
		c.render()
		return err
	}
	c.render()
	c.info(fmt.Sprintf("%s %s succeeded", req.Kind, req.ResourceID))

	return nil
}

// CancelMenu closes the menu without side effects.
func (c *Controller) CancelMenu() error {
	if err := c.guard(); err != nil {
		return err
	}
	c.closeMenu()

	return nil
}

// SortBy orders the table by col, flipping direction on repeat.
func (c *Controller) SortBy(col Column) error {
	if err := c.tableGuard(); err != nil {
		return err
	}
	c.table.SortBy(col)
	c.render()

	return nil
}

// Current returns the selected resource.
func (c *Controller) Current() (dao.Resource, bool) {
	return c.table.CurrentRow()
}

// tableGuard rejects table input while busy or while the menu owns input.
// A rejected row change re-renders so the surface drops its own selection.
func (c *Controller) tableGuard() error {
	if err := c.guard(); err != nil {
		return err
	}
	if c.menu.IsOpen() {
		slog.Debug("Table input ignored while menu is open")
		c.render()
		return ErrMenuOpen
	}
	return nil
}

func (c *Controller) closeMenu() {
	if c.menu.Cancel() && c.surface != nil {
		c.surface.HideMenu()
	}
}

func (c *Controller) render() {
	if c.surface == nil {
		return
	}
	c.surface.RenderTable(c.table.Columns(), c.table.Rows(), c.table.Selected(), c.table.SortColumn())
}

func (c *Controller) info(msg string) {
	if c.surface != nil {
		c.surface.ShowInfo(msg)
	}
}

func (c *Controller) fail(title string, err error) {
	slog.Error(title, "err", err)
	if c.surface != nil {
		c.surface.ShowError(title, err)
	}
}
