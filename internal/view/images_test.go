package view

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
	"github.com/im-n1/kosatka/internal/ui"
)

func TestImagesLoad(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()

	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatalf("set resource: %v", err)
	}
	if n := v.GetRowCount(); n != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", n)
	}
	if v.SelectedRow() != 0 {
		t.Fatalf("expected first row selected, got %d", v.SelectedRow())
	}
	if title := v.Title(); !strings.Contains(title, "containerd/image") || !strings.Contains(title, "default") {
		t.Fatalf("unexpected title %q", title)
	}
	if v.Name() != "image" {
		t.Fatalf("unexpected name %q", v.Name())
	}
}

func TestImagesDeleteFlow(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}
	v.GetInputCapture()(runeKey('j'))
	if v.SelectedRow() != 1 {
		t.Fatalf("expected row 1 selected, got %d", v.SelectedRow())
	}

	v.Actions().Dispatch(runeKey('m'))
	if frontPage(a) != ui.ActionMenuKey {
		t.Fatalf("expected action menu, got %q", frontPage(a))
	}
	if !slices.Equal(v.menu.Choices(), []model.ActionKind{model.ActionDelete}) {
		t.Fatalf("unexpected choices %v", v.menu.Choices())
	}

	pressEnter(v.menu)
	if !slices.Equal(c.removed, []string{"sha256:bbb"}) {
		t.Fatalf("expected one remove of bbb, got %v", c.removed)
	}
	if frontPage(a) == ui.ActionMenuKey || v.ctrl.Menu().IsOpen() {
		t.Fatalf("menu still open")
	}
	if n := v.GetRowCount(); n != 3 {
		t.Fatalf("expected 2 rows left, got %d", n-1)
	}
	if v.SelectedRow() != 1 {
		t.Fatalf("expected selection repaired to 1, got %d", v.SelectedRow())
	}
	if txt := a.Flash().GetText(true); !strings.Contains(txt, "Delete sha256:bbb succeeded") {
		t.Fatalf("unexpected flash %q", txt)
	}
}

func TestImagesDeleteFails(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows(), removeErr: dao.ErrInUse}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(key(tcell.KeyEnter))
	pressEnter(v.menu)

	if frontPage(a) != ui.ErrorDialogKey {
		t.Fatalf("expected error dialog, got %q", frontPage(a))
	}
	if n := v.GetRowCount(); n != 4 || v.SelectedRow() != 0 {
		t.Fatalf("table changed: rows %d sel %d", n-1, v.SelectedRow())
	}
	if c.lists != 1 {
		t.Fatalf("expected no reload after failed delete, got %d lists", c.lists)
	}
}

func TestImagesReadOnly(t *testing.T) {
	a, _ := newTestApp(t, true)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(runeKey('m'))
	pressEnter(v.menu)

	if len(c.removed) != 0 {
		t.Fatalf("read-only mode removed %v", c.removed)
	}
	if frontPage(a) != ui.ErrorDialogKey {
		t.Fatalf("expected error dialog, got %q", frontPage(a))
	}
}

func TestImagesFetchFails(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	c.listErr = dao.ErrConnection
	v.Actions().Dispatch(key(tcell.KeyCtrlR))
	if frontPage(a) != ui.ErrorDialogKey {
		t.Fatalf("expected error dialog, got %q", frontPage(a))
	}
	if v.GetRowCount() != 4 {
		t.Fatalf("expected previous rows kept")
	}
}

func TestImagesSort(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(runeKey('S'))
	if h := v.GetCell(0, 2).Text; h != "Size↑" {
		t.Fatalf("expected ascending size, got %q", h)
	}
	if id := v.GetCell(1, 0).Text; id != "sha256:bbb" {
		t.Fatalf("expected smallest first, got %q", id)
	}
	if v.SelectedRow() != 1 {
		t.Fatalf("expected aaa to stay selected at row 1, got %d", v.SelectedRow())
	}

	v.Actions().Dispatch(runeKey('S'))
	if h := v.GetCell(0, 2).Text; h != "Size↓" {
		t.Fatalf("expected descending size, got %q", h)
	}
}

func TestImagesCopy(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	var copied []string
	v.copyFn = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(runeKey('c'))
	if !slices.Equal(copied, []string{"sha256:aaa"}) {
		t.Fatalf("unexpected copies %v", copied)
	}

	v.copyFn = func(string) error { return errors.New("no clipboard") }
	v.Actions().Dispatch(runeKey('c'))
	if txt := a.Flash().GetText(true); !strings.Contains(txt, "no clipboard") {
		t.Fatalf("expected copy error flashed, got %q", txt)
	}
}

func TestImagesDescribe(t *testing.T) {
	a, _ := newTestApp(t, false)
	c := fakeClient{rows: testRows()}
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &c); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(runeKey('d'))
	d, ok := a.Content.Current().(*Describe)
	if !ok {
		t.Fatalf("expected describe view on top")
	}
	if !strings.Contains(d.GetText(true), "sha256:aaa") {
		t.Fatalf("describe missing id")
	}

	a.keyboard(key(tcell.KeyEsc))
	if a.Content.Current() != v {
		t.Fatalf("expected esc to return to the table")
	}
}

func TestImagesEmptyMenu(t *testing.T) {
	a, _ := newTestApp(t, false)
	v := a.Images()
	if err := v.SetResource(&dao.ImageRID, &fakeClient{}); err != nil {
		t.Fatal(err)
	}

	v.Actions().Dispatch(runeKey('m'))
	if frontPage(a) == ui.ActionMenuKey {
		t.Fatalf("menu opened on empty table")
	}
	if v.SelectedRow() != -1 {
		t.Fatalf("expected no selection, got %d", v.SelectedRow())
	}
}
