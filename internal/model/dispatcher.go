package model

import (
	"context"
	"log/slog"

	"github.com/im-n1/kosatka/internal/dao"
)

// Dispatcher turns action requests into backend calls and reloads the table.
type Dispatcher struct {
	client   dao.Client
	bridge   *Bridge
	table    *Table
	readOnly bool
	lastRow  int
}

// NewDispatcher returns a dispatcher bound to a client, bridge and table.
func NewDispatcher(c dao.Client, b *Bridge, t *Table) *Dispatcher {
	return &Dispatcher{client: c, bridge: b, table: t, lastRow: -1}
}

// SetClient swaps the backend client.
func (d *Dispatcher) SetClient(c dao.Client) {
	d.client = c
}

// SetReadOnly toggles mutation blocking.
func (d *Dispatcher) SetReadOnly(b bool) {
	d.readOnly = b
}

// ReadOnly reports whether mutations are blocked.
func (d *Dispatcher) ReadOnly() bool {
	return d.readOnly
}

// LastRow returns the row of the last dispatched request, or -1.
func (d *Dispatcher) LastRow() int {
	return d.lastRow
}

// Dispatch executes req then refreshes the table, keeping the cursor near
// req.Row. On failure the table is left untouched.
func (d *Dispatcher) Dispatch(req ActionRequest) error {
	d.lastRow = req.Row
	if d.client == nil {
		return &MutationError{Kind: req.Kind, ID: req.ResourceID, Err: ErrNoClient}
	}
	if d.readOnly {
		return &MutationError{Kind: req.Kind, ID: req.ResourceID, Err: ErrReadOnly}
	}

	switch req.Kind {
	case ActionDelete:
		slog.Info("Deleting resource", "id", req.ResourceID, "row", req.Row)
		if err := Do(d.bridge, func(ctx context.Context) error {
			return d.client.Remove(ctx, req.ResourceID)
		}); err != nil {
			return &MutationError{Kind: req.Kind, ID: req.ResourceID, Err: err}
		}
	default:
		return &MutationError{Kind: req.Kind, ID: req.ResourceID, Err: ErrUnknownAction}
	}

	return d.Fetch(req.Row)
}

// Fetch lists the backend and loads the result, repairing selection around preferred.
func (d *Dispatcher) Fetch(preferred int) error {
	if d.client == nil {
		return &FetchError{Err: ErrNoClient}
	}
	rows, err := Run(d.bridge, d.client.List)
	if err != nil {
		return &FetchError{Err: err}
	}
	d.table.Load(rows, preferred)
	slog.Debug("Table reloaded", "rows", len(rows), "selected", d.table.Selected())

	return nil
}
