package dao

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/containerd/containerd/content"
	"github.com/containerd/containerd/errdefs"
	"github.com/containerd/containerd/images"
	"github.com/containerd/containerd/namespaces"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeImageStore struct {
	imgs      []images.Image
	listErr   error
	deleteErr error
	deleted   []string
	ns        []string
}

func (s *fakeImageStore) Get(_ context.Context, name string) (images.Image, error) {
	for _, img := range s.imgs {
		if img.Name == name {
			return img, nil
		}
	}
	return images.Image{}, errdefs.ErrNotFound
}

func (s *fakeImageStore) List(ctx context.Context, _ ...string) ([]images.Image, error) {
	ns, _ := namespaces.Namespace(ctx)
	s.ns = append(s.ns, ns)
	return s.imgs, s.listErr
}

func (s *fakeImageStore) Create(_ context.Context, img images.Image) (images.Image, error) {
	return img, nil
}

func (s *fakeImageStore) Update(_ context.Context, img images.Image, _ ...string) (images.Image, error) {
	return img, nil
}

func (s *fakeImageStore) Delete(_ context.Context, name string, _ ...images.DeleteOpt) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, name)
	return nil
}

type fakeConn struct {
	store  *fakeImageStore
	closed bool
}

func (c *fakeConn) ImageService() images.Store         { return c.store }
func (c *fakeConn) ContentStore() content.Store        { return nil }
func (c *fakeConn) NamespaceService() namespaces.Store { return nil }
func (c *fakeConn) Close() error                       { c.closed = true; return nil }

func newImage(name string, d digest.Digest, size int64, created time.Time) images.Image {
	return images.Image{
		Name:      name,
		Target:    ocispec.Descriptor{Digest: d, Size: size},
		CreatedAt: created,
	}
}

func imageFixture() []images.Image {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []images.Image{
		newImage("docker.io/library/alpine:3.19", digest.FromString("alpine"), 1000, t0.Add(time.Hour)),
		newImage("docker.io/library/nginx:latest", digest.FromString("nginx"), 2000, t0),
		newImage("docker.io/library/alpine:latest", digest.FromString("alpine"), 1000, t0),
	}
}

func newImageAccessor(t *testing.T, store *fakeImageStore) (*Image, *BackendFactory) {
	t.Helper()
	f := NewFactory(nil, "", "buildkit").WithDialer(func(string) (ContainerdConn, error) {
		return &fakeConn{store: store}, nil
	})
	acc, err := AccessorFor(f, &ImageRID)
	if err != nil {
		t.Fatalf("accessor: %v", err)
	}
	img, ok := acc.(*Image)
	if !ok {
		t.Fatalf("unexpected accessor %T", acc)
	}
	return img, f
}

func TestGroupImages(t *testing.T) {
	rr := groupImages(imageFixture(), func(img images.Image) uint64 {
		return uint64(img.Target.Size)
	})

	if len(rr) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rr))
	}
	if rr[0].ID != digest.FromString("alpine").String() {
		t.Fatalf("first appearance order broken: %s", rr[0].ID)
	}
	if rr[0].Name != "docker.io/library/alpine:3.19,docker.io/library/alpine:latest" {
		t.Fatalf("name = %q", rr[0].Name)
	}
	if rr[0].Size != 1000 || rr[1].Size != 2000 {
		t.Fatalf("sizes = %d, %d", rr[0].Size, rr[1].Size)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !rr[0].CreatedAt.Equal(want) {
		t.Fatalf("created = %v", rr[0].CreatedAt)
	}
	if raw, ok := rr[0].Raw.([]images.Image); !ok || len(raw) != 2 {
		t.Fatalf("raw = %#v", rr[0].Raw)
	}
}

func TestImageList(t *testing.T) {
	store := fakeImageStore{imgs: imageFixture()}
	img, _ := newImageAccessor(t, &store)

	rr, err := img.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rr) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rr))
	}
	if !slices.Equal(store.ns, []string{"buildkit"}) {
		t.Fatalf("namespace not propagated: %v", store.ns)
	}
}

func TestImageListError(t *testing.T) {
	uu := map[string]struct {
		err  error
		kind Error
	}{
		"unavailable": {err: errdefs.ErrUnavailable, kind: ErrConnection},
		"deadline":    {err: context.DeadlineExceeded, kind: ErrConnection},
		"garbled":     {err: errors.New("unexpected payload"), kind: ErrProtocol},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			img, _ := newImageAccessor(t, &fakeImageStore{listErr: u.err})
			_, err := img.List(context.Background())
			if KindOf(err) != u.kind {
				t.Fatalf("kind = %q, want %q (%v)", KindOf(err), u.kind, err)
			}
		})
	}
}

func TestImageRemove(t *testing.T) {
	store := fakeImageStore{imgs: imageFixture()}
	img, _ := newImageAccessor(t, &store)

	if err := img.Remove(context.Background(), digest.FromString("alpine").String()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []string{"docker.io/library/alpine:3.19", "docker.io/library/alpine:latest"}
	if !slices.Equal(store.deleted, want) {
		t.Fatalf("deleted = %v", store.deleted)
	}
}

func TestImageRemoveErrors(t *testing.T) {
	uu := map[string]struct {
		id        string
		deleteErr error
		kind      Error
	}{
		"malformed": {id: "nope", kind: ErrNotFound},
		"unknown":   {id: digest.FromString("ghost").String(), kind: ErrNotFound},
		"in-use": {
			id:        digest.FromString("nginx").String(),
			deleteErr: errdefs.ErrFailedPrecondition,
			kind:      ErrInUse,
		},
		"gone": {
			id:        digest.FromString("nginx").String(),
			deleteErr: errdefs.ErrNotFound,
			kind:      ErrNotFound,
		},
		"down": {
			id:        digest.FromString("nginx").String(),
			deleteErr: errdefs.ErrUnavailable,
			kind:      ErrConnection,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			store := fakeImageStore{imgs: imageFixture(), deleteErr: u.deleteErr}
			img, _ := newImageAccessor(t, &store)
			err := img.Remove(context.Background(), u.id)
			if KindOf(err) != u.kind {
				t.Fatalf("kind = %q, want %q (%v)", KindOf(err), u.kind, err)
			}
		})
	}
}

func TestImageDialFailure(t *testing.T) {
	f := NewFactory(nil, "/nowhere.sock", "").WithDialer(func(string) (ContainerdConn, error) {
		return nil, errors.New("connection refused")
	})
	acc, err := AccessorFor(f, &ImageRID)
	if err != nil {
		t.Fatal(err)
	}
	_, err = acc.List(context.Background())
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
}
