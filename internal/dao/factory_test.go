package dao

import (
	"testing"

	"github.com/im-n1/kosatka/internal/aws"
)

func TestFactoryDialsOnce(t *testing.T) {
	var dials int
	conn := fakeConn{store: &fakeImageStore{}}
	f := NewFactory(nil, "", "").WithDialer(func(addr string) (ContainerdConn, error) {
		dials++
		if addr != DefaultContainerdAddress {
			t.Fatalf("address = %q", addr)
		}
		return &conn, nil
	})

	for range 3 {
		if _, err := f.Containerd(); err != nil {
			t.Fatalf("containerd: %v", err)
		}
	}
	if dials != 1 {
		t.Fatalf("dialed %d times", dials)
	}
	if err := f.Close(); err != nil || !conn.closed {
		t.Fatalf("close: %v, closed=%t", err, conn.closed)
	}
}

func TestFactoryNamespaceAndRegion(t *testing.T) {
	f := NewFactory(nil, "", "")
	if f.Namespace() != DefaultNamespace {
		t.Fatalf("namespace = %q", f.Namespace())
	}
	f.SetNamespace("k8s.io")
	if f.Namespace() != "k8s.io" {
		t.Fatalf("namespace = %q", f.Namespace())
	}
	if f.Region() != aws.DefaultRegion {
		t.Fatalf("region = %q", f.Region())
	}
	if err := f.SetRegion("eu-west-1"); err != aws.ErrNoConnection {
		t.Fatalf("expected no connection, got %v", err)
	}
}
