package view

import (
	"context"
	"errors"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/aws"
	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
)

type fakeClient struct {
	rows      []dao.Resource
	listErr   error
	removeErr error
	removed   []string
	lists     int
}

func (f *fakeClient) List(context.Context) ([]dao.Resource, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dao.Resource(nil), f.rows...), nil
}

func (f *fakeClient) Remove(_ context.Context, id string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, id)
	kept := make([]dao.Resource, 0, len(f.rows))
	for _, r := range f.rows {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}

type fakeFactory struct {
	ns     string
	region string
}

func (*fakeFactory) AWS() aws.Connection { return nil }
func (*fakeFactory) Containerd() (dao.ContainerdConn, error) {
	return nil, errors.New("no containerd in tests")
}
func (*fakeFactory) Docker() (dao.DockerAPI, error) {
	return nil, errors.New("no docker in tests")
}
func (f *fakeFactory) Namespace() string      { return f.ns }
func (f *fakeFactory) SetNamespace(ns string) { f.ns = ns }
func (f *fakeFactory) Region() string         { return f.region }
func (f *fakeFactory) SetRegion(r string) error {
	if !aws.IsKnownRegion(r) {
		return aws.ErrInvalidRegion
	}
	f.region = r
	return nil
}

func testRows() []dao.Resource {
	return []dao.Resource{
		{ID: "sha256:aaa", Name: "docker.io/library/alpine:3.20", Size: 3_600_000},
		{ID: "sha256:bbb", Name: "docker.io/library/busybox:1.36", Size: 2_100_000},
		{ID: "sha256:ccc", Name: "ghcr.io/acme/api:v2", Size: 72_460_000},
	}
}

func newTestApp(t *testing.T, readOnly bool) (*App, *fakeFactory) {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Kosatka.ReadOnly = readOnly
	f := fakeFactory{ns: "default", region: aws.DefaultRegion}
	a := NewApp(cfg, nil, &f, model.NewBridge(0), "test")
	if err := a.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	return a, &f
}

func frontPage(a *App) string {
	name, _ := a.Content.GetFrontPage()
	return name
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func pressEnter(p tview.Primitive) {
	p.InputHandler()(key(tcell.KeyEnter), func(tview.Primitive) {})
}
