package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/im-n1/kosatka/internal/dao"
)

func res(id string, size uint64) dao.Resource {
	return dao.Resource{ID: id, Name: "name-" + id, Size: size}
}

func ids(rr []dao.Resource) []string {
	out := make([]string, 0, len(rr))
	for _, r := range rr {
		out = append(out, r.ID)
	}
	return out
}

type fakeClient struct {
	rows      []dao.Resource
	listErr   error
	removeErr error
	removed   []string
	lists     int
	onRemove  func()
	onList    func()
}

func (f *fakeClient) List(context.Context) ([]dao.Resource, error) {
	f.lists++
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dao.Resource(nil), f.rows...), nil
}

func (f *fakeClient) Remove(_ context.Context, id string) error {
	if f.onRemove != nil {
		f.onRemove()
	}
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	kept := f.rows[:0:0]
	for _, r := range f.rows {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeSurface struct {
	events   []string
	rows     []dao.Resource
	selected int
	sort     SortState
	errs     []error
	infos    []string
}

func (s *fakeSurface) RenderTable(_ []Column, rows []dao.Resource, selected int, sort SortState) {
	s.events = append(s.events, "render")
	s.rows, s.selected, s.sort = rows, selected, sort
}

func (s *fakeSurface) ShowMenu(title string, choices []ActionKind) {
	s.events = append(s.events, fmt.Sprintf("menu:%s:%v", title, choices))
}

func (s *fakeSurface) HideMenu() {
	s.events = append(s.events, "hide")
}

func (s *fakeSurface) ShowError(title string, err error) {
	s.events = append(s.events, "error:"+title)
	s.errs = append(s.errs, err)
}

func (s *fakeSurface) ShowInfo(msg string) {
	s.events = append(s.events, "info")
	s.infos = append(s.infos, msg)
}

func (s *fakeSurface) count(e string) int {
	var n int
	for _, ev := range s.events {
		if ev == e {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")
