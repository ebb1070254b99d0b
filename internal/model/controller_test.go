package model

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/im-n1/kosatka/internal/dao"
)

func newTestController(t *testing.T, c *fakeClient) (*Controller, *fakeSurface) {
	t.Helper()
	s := fakeSurface{}
	ctrl := NewController(c, NewBridge(0), &s)
	if err := ctrl.Refresh(); err != nil && c.listErr == nil {
		t.Fatalf("refresh: %v", err)
	}
	return ctrl, &s
}

func TestControllerRefresh(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}}
	ctrl, s := newTestController(t, &c)

	if !slices.Equal(ids(s.rows), []string{"A", "B"}) || s.selected != 0 {
		t.Fatalf("rendered %v sel %d", ids(s.rows), s.selected)
	}
	_ = ctrl.SelectRow(1)
	c.rows = c.rows[:1]
	if err := ctrl.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if s.selected != 0 {
		t.Fatalf("expected repair to 0, got %d", s.selected)
	}
}

func TestControllerRefreshFails(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}}
	ctrl, s := newTestController(t, &c)
	_ = ctrl.SelectRow(1)

	c.listErr = dao.ErrProtocol
	err := ctrl.Refresh()
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if s.count("error:Fetch failed") != 1 {
		t.Fatalf("error modal not shown: %v", s.events)
	}
	if ctrl.Table().RowCount() != 2 || ctrl.Table().Selected() != 1 {
		t.Fatalf("previous rows not kept")
	}
}

func TestControllerDeleteFlow(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2), res("C", 3)}}
	ctrl, s := newTestController(t, &c)
	if err := ctrl.SelectRow(1); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := ctrl.OpenMenu(); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !ctrl.Menu().IsOpen() || ctrl.Menu().Target() != 1 {
		t.Fatalf("menu state %+v", ctrl.Menu().State())
	}
	if s.count("menu:name-B:[Delete]") != 1 {
		t.Fatalf("menu not shown: %v", s.events)
	}

	c.onRemove = func() {
		if ctrl.Menu().IsOpen() {
			t.Errorf("menu still open when remove started")
		}
		if s.count("hide") != 1 {
			t.Errorf("overlay not hidden before remove: %v", s.events)
		}
	}
	if err := ctrl.SubmitMenu(ActionDelete); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !slices.Equal(c.removed, []string{"B"}) {
		t.Fatalf("expected exactly one remove of B, got %v", c.removed)
	}
	if !slices.Equal(ids(s.rows), []string{"A", "C"}) || s.selected != 1 {
		t.Fatalf("rendered %v sel %d", ids(s.rows), s.selected)
	}
	if len(s.infos) != 1 || !strings.Contains(s.infos[0], "B") {
		t.Fatalf("infos = %v", s.infos)
	}
}

func TestControllerDeleteFails(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}, removeErr: dao.ErrNotFound}
	ctrl, s := newTestController(t, &c)
	_ = ctrl.SelectRow(1)
	before := ids(ctrl.Table().Rows())

	_ = ctrl.OpenMenu()
	err := ctrl.SubmitMenu(ActionDelete)
	var me *MutationError
	if !errors.As(err, &me) {
		t.Fatalf("expected mutation error, got %v", err)
	}
	if !slices.Equal(ids(ctrl.Table().Rows()), before) || ctrl.Table().Selected() != 1 {
		t.Fatalf("table changed after failed remove")
	}
	if ctrl.Menu().IsOpen() {
		t.Fatalf("menu open after failure")
	}
	if s.count("error:Delete failed") != 1 {
		t.Fatalf("error not shown: %v", s.events)
	}
	if c.lists != 1 {
		t.Fatalf("refresh attempted after failed remove")
	}
}

func TestControllerEmptyTable(t *testing.T) {
	c := fakeClient{}
	ctrl, s := newTestController(t, &c)

	if s.selected != -1 {
		t.Fatalf("expected -1, got %d", s.selected)
	}
	if err := ctrl.OpenMenu(); err != nil {
		t.Fatalf("open on empty table: %v", err)
	}
	if ctrl.Menu().IsOpen() {
		t.Fatalf("menu opened on empty table")
	}
	for _, e := range s.events {
		if strings.HasPrefix(e, "menu:") || strings.HasPrefix(e, "error:") {
			t.Fatalf("unexpected surface event %q", e)
		}
	}
	if _, ok := ctrl.Current(); ok {
		t.Fatalf("expected no current row")
	}
	if err := ctrl.SelectRow(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestControllerIgnoresInputWhileBusy(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}}
	ctrl, s := newTestController(t, &c)

	var errs []error
	c.onList = func() {
		errs = append(errs,
			ctrl.SelectRow(1),
			ctrl.OpenMenu(),
			ctrl.CancelMenu(),
			ctrl.SubmitMenu(ActionDelete),
			ctrl.SortBy(ColumnSize),
			ctrl.Refresh(),
		)
	}
	if err := ctrl.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	for i, err := range errs {
		if !errors.Is(err, ErrBusy) {
			t.Fatalf("input %d: expected busy, got %v", i, err)
		}
	}
	if c.lists != 2 || len(c.removed) != 0 {
		t.Fatalf("busy input reached backend: lists %d removed %v", c.lists, c.removed)
	}
	if ctrl.Menu().IsOpen() || s.selected != 0 {
		t.Fatalf("busy input changed state")
	}
}

func TestControllerCancelMenu(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1)}}
	ctrl, s := newTestController(t, &c)

	_ = ctrl.OpenMenu()
	if err := ctrl.CancelMenu(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ctrl.Menu().IsOpen() || s.count("hide") != 1 {
		t.Fatalf("menu not closed: %v", s.events)
	}
	_ = ctrl.CancelMenu()
	if s.count("hide") != 1 {
		t.Fatalf("closed menu hidden twice")
	}
	if len(c.removed) != 0 {
		t.Fatalf("cancel removed %v", c.removed)
	}
}

func TestControllerReadOnly(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1)}}
	ctrl, s := newTestController(t, &c)
	ctrl.SetReadOnly(true)

	_ = ctrl.OpenMenu()
	if err := ctrl.SubmitMenu(ActionDelete); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected read-only, got %v", err)
	}
	if len(c.removed) != 0 || len(s.errs) != 1 {
		t.Fatalf("removed %v errs %v", c.removed, s.errs)
	}
}

func TestControllerSortBy(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("B", 2), res("A", 1)}}
	ctrl, s := newTestController(t, &c)

	if err := ctrl.SortBy(ColumnID); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if !slices.Equal(ids(s.rows), []string{"A", "B"}) || s.selected != 1 {
		t.Fatalf("rendered %v sel %d", ids(s.rows), s.selected)
	}
	if !s.sort.Active || s.sort.Column != ColumnID {
		t.Fatalf("sort state %+v", s.sort)
	}
}

func TestControllerSetClient(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1)}}
	ctrl, s := newTestController(t, &c)
	_ = ctrl.OpenMenu()

	other := fakeClient{rows: []dao.Resource{res("X", 9), res("Y", 8)}}
	if err := ctrl.SetClient(&other); err != nil {
		t.Fatalf("set client: %v", err)
	}
	if ctrl.Menu().IsOpen() || s.selected != -1 {
		t.Fatalf("switch left stale state")
	}
	if err := ctrl.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !slices.Equal(ids(s.rows), []string{"X", "Y"}) {
		t.Fatalf("rendered %v", ids(s.rows))
	}
}

func TestControllerDeleteThenListFails(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}}
	ctrl, s := newTestController(t, &c)
	_ = ctrl.SelectRow(1)
	_ = ctrl.OpenMenu()

	c.listErr = dao.ErrConnection
	err := ctrl.SubmitMenu(ActionDelete)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if !slices.Equal(c.removed, []string{"B"}) {
		t.Fatalf("expected B removed, got %v", c.removed)
	}
	if s.count("error:Delete failed") != 0 || s.count("error:Fetch failed") != 1 {
		t.Fatalf("wrong error title: %v", s.events)
	}
	if len(s.infos) != 1 || !strings.Contains(s.infos[0], "Delete B succeeded") {
		t.Fatalf("delete success not reported: %v", s.infos)
	}
	if ctrl.Menu().IsOpen() {
		t.Fatalf("menu open after submit")
	}
}

func TestControllerTableInputWhileMenuOpen(t *testing.T) {
	c := fakeClient{rows: []dao.Resource{res("A", 1), res("B", 2)}}
	ctrl, s := newTestController(t, &c)
	_ = ctrl.OpenMenu()
	lists := c.lists

	for i, err := range []error{ctrl.SelectRow(1), ctrl.SortBy(ColumnSize), ctrl.Refresh()} {
		if !errors.Is(err, ErrMenuOpen) {
			t.Fatalf("input %d: expected menu open, got %v", i, err)
		}
	}
	if ctrl.Table().Selected() != 0 || s.selected != 0 || s.sort.Active {
		t.Fatalf("table changed under menu: sel %d sort %+v", s.selected, s.sort)
	}
	if c.lists != lists || !ctrl.Menu().IsOpen() || ctrl.Menu().Target() != 0 {
		t.Fatalf("menu state lost or backend called")
	}

	if err := ctrl.SubmitMenu(ActionDelete); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(c.removed, []string{"A"}) {
		t.Fatalf("expected menu target A removed, got %v", c.removed)
	}
}
