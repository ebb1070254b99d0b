package model

import (
	"errors"
	"testing"

	"github.com/im-n1/kosatka/internal/dao"
)

func TestMenuLifecycle(t *testing.T) {
	tb := NewTable()
	tb.Load([]dao.Resource{res("A", 1), res("B", 2)}, 1)
	m := NewMenu()

	if m.IsOpen() || m.Target() != -1 {
		t.Fatalf("new menu should be closed")
	}
	if !m.Open(tb.Selected()) {
		t.Fatalf("open failed")
	}
	if s := m.State(); !s.Open || s.Target != 1 || len(s.Choices) != 1 || s.Choices[0] != ActionDelete {
		t.Fatalf("unexpected state %+v", s)
	}

	req, err := m.Submit(ActionDelete, tb)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req != (ActionRequest{ResourceID: "B", Kind: ActionDelete, Row: 1}) {
		t.Fatalf("unexpected request %+v", req)
	}
	if m.IsOpen() {
		t.Fatalf("menu still open after submit")
	}
	if _, err := m.Submit(ActionDelete, tb); !errors.Is(err, ErrMenuClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}
}

func TestMenuOpenEmpty(t *testing.T) {
	m := NewMenu()
	if m.Open(-1) {
		t.Fatalf("open on empty table should be a no-op")
	}
	if m.IsOpen() {
		t.Fatalf("menu opened")
	}
}

func TestMenuCancel(t *testing.T) {
	m := NewMenu()
	if m.Cancel() {
		t.Fatalf("cancel on closed menu should report false")
	}
	m.Open(0)
	if !m.Cancel() || m.IsOpen() {
		t.Fatalf("cancel did not close the menu")
	}
}

func TestMenuSubmitUnknownAction(t *testing.T) {
	tb := NewTable()
	tb.Load([]dao.Resource{res("A", 1)}, 0)
	m := NewMenu()
	m.Open(0)

	if _, err := m.Submit(ActionKind(42), tb); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
	if !m.IsOpen() {
		t.Fatalf("rejected choice should keep the menu open")
	}
}

func TestMenuSubmitStaleTarget(t *testing.T) {
	tb := NewTable()
	tb.Load([]dao.Resource{res("A", 1), res("B", 2)}, 1)
	m := NewMenu()
	m.Open(1)
	tb.Load([]dao.Resource{res("A", 1)}, -1)

	if _, err := m.Submit(ActionDelete, tb); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if m.IsOpen() {
		t.Fatalf("menu left open on stale target")
	}
}

func TestParseActionKind(t *testing.T) {
	k, err := ParseActionKind("delete")
	if err != nil || k != ActionDelete {
		t.Fatalf("parse: %v %v", k, err)
	}
	if _, err := ParseActionKind("explode"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
	if ActionDelete.String() != "Delete" {
		t.Fatalf("label = %q", ActionDelete)
	}
}
