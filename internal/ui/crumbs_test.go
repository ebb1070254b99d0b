package ui

import (
	"strings"
	"testing"
)

func TestCrumbify(t *testing.T) {
	s := Crumbify([]string{"Images", "Describe"})
	if !strings.Contains(s, "[gray::-] <images>") {
		t.Fatalf("expected inactive crumb, got %q", s)
	}
	if !strings.Contains(s, "[black:aqua:b] <describe>") {
		t.Fatalf("expected active crumb, got %q", s)
	}
	if Crumbify(nil) != "" {
		t.Fatalf("expected empty crumbs")
	}
}

func TestDialogDismiss(t *testing.T) {
	p := NewPages()
	p.Push(newFakeComponent("images"))

	var done int
	d := ErrorDialog(p, "Delete failed", "image in use", 0).SetDoneCallback(func() { done++ })
	d.Show()
	if name, _ := p.GetFrontPage(); name != ErrorDialogKey {
		t.Fatalf("expected dialog in front, got %q", name)
	}
	d.Dismiss()
	if done != 1 || p.HasOverlay() {
		t.Fatalf("expected dialog dismissed once")
	}
}
