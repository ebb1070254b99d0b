package dao

import "testing"

func TestRegistered(t *testing.T) {
	rids := Registered()
	if len(rids) != 2 {
		t.Fatalf("expected 2 accessors, got %d", len(rids))
	}
	if rids[0].String() != "containerd/image" || rids[1].String() != "ec2/ami" {
		t.Fatalf("unexpected order %v, %v", rids[0], rids[1])
	}
}

func TestAccessorForFreshInstances(t *testing.T) {
	f := NewFactory(nil, "", "")
	a1, err := AccessorFor(f, &AMIRID)
	if err != nil {
		t.Fatal(err)
	}
	a2, _ := AccessorFor(f, &AMIRID)
	if a1 == a2 {
		t.Fatalf("expected distinct instances")
	}
	if a1.ResourceID().String() != "ec2/ami" {
		t.Fatalf("rid = %s", a1.ResourceID())
	}
	if _, err := AccessorFor(f, &ResourceID{Service: "s3", Resource: "bucket"}); err == nil {
		t.Fatalf("expected error for unknown accessor")
	}
}

func TestResourceIDParse(t *testing.T) {
	var rid ResourceID
	if err := rid.Parse("containerd/image"); err != nil || rid != ImageRID {
		t.Fatalf("parse: %v %v", rid, err)
	}
	for _, s := range []string{"", "image", "/image", "ec2/"} {
		if err := rid.Parse(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
