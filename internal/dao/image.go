package dao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/containerd/containerd/content"
	"github.com/containerd/containerd/errdefs"
	"github.com/containerd/containerd/images"
	"github.com/containerd/containerd/namespaces"
	"github.com/opencontainers/go-digest"
)

func init() {
	RegisterAccessor(ImageRID, func() Accessor { return new(Image) })
}

// Image is the DAO for containerd images. One Resource is produced per
// target digest, so tags sharing content collapse into a single row.
type Image struct {
	binding
}

func (i *Image) connect(ctx context.Context) (context.Context, ContainerdConn, error) {
	f := i.backend()
	if f == nil {
		return ctx, nil, fmt.Errorf("factory not initialized")
	}
	conn, err := f.Containerd()
	if err != nil {
		return ctx, nil, err
	}

	return namespaces.WithNamespace(ctx, f.Namespace()), conn, nil
}

// List returns all images in the active namespace grouped by digest.
func (i *Image) List(ctx context.Context) ([]Resource, error) {
	ctx, conn, err := i.connect(ctx)
	if err != nil {
		return nil, err
	}

	imgs, err := conn.ImageService().List(ctx)
	if err != nil {
		return nil, classifyContainerd(err, "list images", "")
	}
	cs := conn.ContentStore()

	return groupImages(imgs, func(img images.Image) uint64 {
		return imageSize(ctx, cs, img)
	}), nil
}

// Remove deletes every image name whose target digest is id.
func (i *Image) Remove(ctx context.Context, id string) error {
	dgst, err := digest.Parse(id)
	if err != nil {
		return newBackendError(ErrNotFound, "remove image", id, err)
	}

	ctx, conn, err := i.connect(ctx)
	if err != nil {
		return err
	}
	store := conn.ImageService()
	imgs, err := store.List(ctx)
	if err != nil {
		return classifyContainerd(err, "remove image", id)
	}

	names := namesForDigest(imgs, dgst)
	if len(names) == 0 {
		return newBackendError(ErrNotFound, "remove image", id, errdefs.ErrNotFound)
	}
	for _, name := range names {
		slog.Debug("Deleting image", "id", id, "name", name)
		if err := store.Delete(ctx, name, images.SynchronousDelete()); err != nil {
			return classifyContainerd(err, "remove image", id)
		}
	}

	return nil
}

// groupImages folds image records sharing a target digest into one Resource,
// keeping the order in which digests first appear.
func groupImages(imgs []images.Image, size func(images.Image) uint64) []Resource {
	index := make(map[digest.Digest]int, len(imgs))
	rr := make([]Resource, 0, len(imgs))
	raws := make([][]images.Image, 0, len(imgs))
	for _, img := range imgs {
		d := img.Target.Digest
		at, ok := index[d]
		if !ok {
			index[d] = len(rr)
			rr = append(rr, Resource{
				ID:        d.String(),
				Size:      size(img),
				CreatedAt: img.CreatedAt,
			})
			raws = append(raws, nil)
			at = len(rr) - 1
		}
		r := &rr[at]
		r.Refs = append(r.Refs, img.Name)
		if !img.CreatedAt.IsZero() && (r.CreatedAt.IsZero() || img.CreatedAt.Before(r.CreatedAt)) {
			r.CreatedAt = img.CreatedAt
		}
		raws[at] = append(raws[at], img)
	}
	for i := range rr {
		rr[i].Name = strings.Join(rr[i].Refs, ",")
		rr[i].Raw = raws[i]
	}

	return rr
}

func namesForDigest(imgs []images.Image, d digest.Digest) []string {
	var names []string
	for _, img := range imgs {
		if img.Target.Digest == d {
			names = append(names, img.Name)
		}
	}
	return names
}

// imageSize sums config and layer sizes from the manifest, falling back to
// the target descriptor size when content is missing.
func imageSize(ctx context.Context, cs content.Provider, img images.Image) uint64 {
	if cs == nil {
		return uint64(max(img.Target.Size, 0))
	}
	manifest, err := images.Manifest(ctx, cs, img.Target, nil)
	if err != nil {
		return uint64(max(img.Target.Size, 0))
	}
	size := manifest.Config.Size
	for _, layer := range manifest.Layers {
		size += layer.Size
	}

	return uint64(max(size, 0))
}

func classifyContainerd(err error, op, id string) error {
	switch {
	case errdefs.IsNotFound(err):
		return newBackendError(ErrNotFound, op, id, err)
	case errdefs.IsFailedPrecondition(err):
		return newBackendError(ErrInUse, op, id, err)
	case errdefs.IsUnavailable(err), errors.Is(err, context.DeadlineExceeded), errdefs.IsDeadlineExceeded(err):
		return newBackendError(ErrConnection, op, id, err)
	case strings.HasPrefix(op, "list"):
		return newBackendError(ErrProtocol, op, id, err)
	default:
		return newBackendError(ErrConnection, op, id, err)
	}
}
