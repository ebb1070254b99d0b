package dao

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/moby/moby/client"
)

func init() {
	RegisterAccessor(DockerImageRID, func() Accessor { return new(DockerImage) })
}

// DockerAPI is the subset of *client.Client the docker accessor uses.
type DockerAPI interface {
	ImageList(ctx context.Context, opts client.ImageListOptions) (client.ImageListResult, error)
	ImageRemove(ctx context.Context, id string, opts client.ImageRemoveOptions) (client.ImageRemoveResult, error)
	Close() error
}

// DockerDialer opens a Docker engine client.
type DockerDialer func() (DockerAPI, error)

func dialDocker() (DockerAPI, error) {
	c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DockerHost returns the engine address the client dials.
func DockerHost() string {
	if h := os.Getenv(client.EnvOverrideHost); h != "" {
		return h
	}
	return client.DefaultDockerHost
}

// DockerImage is the DAO for Docker engine images.
type DockerImage struct {
	binding
}

func (d *DockerImage) api() (DockerAPI, error) {
	f := d.backend()
	if f == nil {
		return nil, fmt.Errorf("factory not initialized")
	}
	return f.Docker()
}

// List returns the top level images known to the engine.
func (d *DockerImage) List(ctx context.Context) ([]Resource, error) {
	api, err := d.api()
	if err != nil {
		return nil, err
	}
	res, err := api.ImageList(ctx, client.ImageListOptions{All: false})
	if err != nil {
		return nil, classifyDocker(err, "list images", "")
	}

	rr := make([]Resource, 0, len(res.Items))
	for _, img := range res.Items {
		r := Resource{
			ID:   img.ID,
			Name: strings.Join(img.RepoTags, ","),
			Size: uint64(max(img.Size, 0)),
			Refs: img.RepoTags,
			Raw:  img,
		}
		if img.Created > 0 {
			r.CreatedAt = time.Unix(img.Created, 0).UTC()
		}
		rr = append(rr, r)
	}

	return rr, nil
}

// Remove force deletes the image without pruning its untagged parents.
func (d *DockerImage) Remove(ctx context.Context, id string) error {
	api, err := d.api()
	if err != nil {
		return err
	}
	slog.Debug("Deleting docker image", "id", id)
	_, err = api.ImageRemove(ctx, id, client.ImageRemoveOptions{Force: true, PruneChildren: false})
	if err != nil {
		return classifyDocker(err, "remove image", id)
	}

	return nil
}

// classifyDocker maps engine errors onto backend kinds. Transport failures
// carry no errdefs class and fall through to ErrConnection.
func classifyDocker(err error, op, id string) error {
	switch {
	case cerrdefs.IsNotFound(err):
		return newBackendError(ErrNotFound, op, id, err)
	case cerrdefs.IsConflict(err):
		return newBackendError(ErrInUse, op, id, err)
	case cerrdefs.IsUnavailable(err), errors.Is(err, context.DeadlineExceeded):
		return newBackendError(ErrConnection, op, id, err)
	case strings.HasPrefix(op, "list") && isDaemonReply(err):
		return newBackendError(ErrProtocol, op, id, err)
	default:
		return newBackendError(ErrConnection, op, id, err)
	}
}

func isDaemonReply(err error) bool {
	return cerrdefs.IsInvalidArgument(err) ||
		cerrdefs.IsInternal(err) ||
		cerrdefs.IsPermissionDenied(err) ||
		cerrdefs.IsNotImplemented(err)
}
