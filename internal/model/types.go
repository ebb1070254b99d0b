package model

import (
	"fmt"

	"github.com/im-n1/kosatka/internal/dao"
)

// Error is an internal controller fault.
type Error string

const (
	// ErrOutOfRange flags a row index outside the table.
	ErrOutOfRange = Error("row index out of range")
	// ErrBridgeBusy flags a backend call issued while another is in flight.
	ErrBridgeBusy = Error("backend call already in flight")
	// ErrBusy flags input received while a backend call is running.
	ErrBusy = Error("controller busy")
	// ErrMenuClosed flags a menu transition that requires an open menu.
	ErrMenuClosed = Error("menu is not open")
	// ErrMenuOpen flags table input received while the action menu is open.
	ErrMenuOpen = Error("action menu is open")
	// ErrUnknownAction flags an action kind the menu did not offer.
	ErrUnknownAction = Error("unknown action")
	// ErrNoClient flags a backend call made before a backend was selected.
	ErrNoClient = Error("no backend selected")
	// ErrReadOnly flags a mutation attempted in read-only mode.
	ErrReadOnly = Error("read-only mode, mutations are disabled")
)

func (e Error) Error() string {
	return string(e)
}

// FetchError reports a failed List. The table keeps its previous rows.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError reports a failed action. The table is left unchanged.
type MutationError struct {
	Kind ActionKind
	ID   string
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Kind, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// SortState describes the active table ordering.
type SortState struct {
	Column    Column
	Ascending bool
	Active    bool
}

// Surface renders controller state and shows modals.
type Surface interface {
	// RenderTable draws the rows under the given columns with a selected row, or -1.
	RenderTable(cols []Column, rows []dao.Resource, selected int, sort SortState)

	// ShowMenu displays the action menu overlay.
	ShowMenu(title string, choices []ActionKind)

	// HideMenu removes the action menu overlay.
	HideMenu()

	// ShowError displays a blocking error modal.
	ShowError(title string, err error)

	// ShowInfo flashes an informational message.
	ShowInfo(msg string)
}
