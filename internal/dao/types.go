package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/im-n1/kosatka/internal/aws"
)

// ResourceID identifies a backend resource type.
type ResourceID struct {
	Service  string // e.g., "containerd", "docker", "ec2"
	Resource string // e.g., "image", "ami"
}

// String returns a string representation in the form "service/resource".
func (r ResourceID) String() string {
	return fmt.Sprintf("%s/%s", r.Service, r.Resource)
}

// Parse parses a string in the form "service/resource" into a ResourceID.
func (r *ResourceID) Parse(s string) error {
	service, resource, ok := strings.Cut(s, "/")
	if !ok || service == "" || resource == "" {
		return fmt.Errorf("invalid resource ID format: %s (expected service/resource)", s)
	}
	r.Service = service
	r.Resource = resource
	return nil
}

// Predefined ResourceID variables for the supported backends.
var (
	ImageRID       = ResourceID{Service: "containerd", Resource: "image"}
	DockerImageRID = ResourceID{Service: "docker", Resource: "image"}
	AMIRID         = ResourceID{Service: "ec2", Resource: "ami"}
)

// Resource is a backend entity shown as one table row.
// It is never mutated once returned by a Lister.
type Resource struct {
	ID        string
	Name      string
	Size      uint64 // bytes
	CreatedAt time.Time
	Refs      []string
	Raw       any // Original backend object
}

// Lister retrieves the full current set of resources.
type Lister interface {
	List(ctx context.Context) ([]Resource, error)
}

// Remover deletes a single resource by ID.
type Remover interface {
	Remove(ctx context.Context, id string) error
}

// Client is the capability the table controller needs from a backend.
type Client interface {
	Lister
	Remover
}

// Accessor is a Client bound to a factory and a resource type.
type Accessor interface {
	Client
	Init(Factory, *ResourceID)
	ResourceID() *ResourceID
}

// Factory provides backend connections.
type Factory interface {
	// AWS returns the AWS connection or nil if none is configured.
	AWS() aws.Connection

	// Containerd returns a connected containerd client wrapper.
	Containerd() (ContainerdConn, error)

	// Docker returns the Docker engine client.
	Docker() (DockerAPI, error)

	// Namespace returns the active containerd namespace.
	Namespace() string

	// SetNamespace switches the containerd namespace.
	SetNamespace(ns string)

	// Region returns the active AWS region.
	Region() string

	// SetRegion switches the AWS region.
	SetRegion(region string) error
}
