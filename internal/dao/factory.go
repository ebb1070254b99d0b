// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package dao

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/containerd/containerd"
	"github.com/containerd/containerd/content"
	"github.com/containerd/containerd/images"
	"github.com/containerd/containerd/namespaces"
	"github.com/im-n1/kosatka/internal/aws"
)

const (
	// DefaultContainerdAddress is the containerd socket used when none is configured.
	DefaultContainerdAddress = "/run/containerd/containerd.sock"
	// DefaultNamespace is the containerd namespace used when none is configured.
	DefaultNamespace = "default"
)

// ContainerdConn is the subset of *containerd.Client the image accessor uses.
type ContainerdConn interface {
	ImageService() images.Store
	ContentStore() content.Store
	NamespaceService() namespaces.Store
	Close() error
}

// Dialer opens a containerd connection.
type Dialer func(address string) (ContainerdConn, error)

func dialContainerd(address string) (ContainerdConn, error) {
	c, err := containerd.New(address)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// BackendFactory implements Factory. Backend connections are opened lazily.
type BackendFactory struct {
	aws       aws.Connection
	address   string
	namespace string
	dial      Dialer
	conn      ContainerdConn
	dockDial  DockerDialer
	dock      DockerAPI
	mx        sync.RWMutex
}

// NewFactory creates a factory. conn may be nil when the AMI backend is not in use.
func NewFactory(conn aws.Connection, address, namespace string) *BackendFactory {
	if address == "" {
		address = DefaultContainerdAddress
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &BackendFactory{
		aws:       conn,
		address:   address,
		namespace: namespace,
		dial:      dialContainerd,
		dockDial:  dialDocker,
	}
}

// WithDialer swaps the containerd dialer.
func (f *BackendFactory) WithDialer(d Dialer) *BackendFactory {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.dial = d
	return f
}

// WithDockerDialer swaps the Docker engine dialer.
func (f *BackendFactory) WithDockerDialer(d DockerDialer) *BackendFactory {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.dockDial = d
	return f
}

// AWS returns the AWS connection.
func (f *BackendFactory) AWS() aws.Connection {
	return f.aws
}

// Containerd returns the shared containerd connection, dialing on first use.
func (f *BackendFactory) Containerd() (ContainerdConn, error) {
	f.mx.RLock()
	if f.conn != nil {
		defer f.mx.RUnlock()
		return f.conn, nil
	}
	f.mx.RUnlock()

	f.mx.Lock()
	defer f.mx.Unlock()
	if f.conn != nil {
		return f.conn, nil
	}
	conn, err := f.dial(f.address)
	if err != nil {
		return nil, newBackendError(ErrConnection, "dial", f.address, err)
	}
	f.conn = conn

	return conn, nil
}

// Docker returns the shared Docker engine client, creating it on first use.
func (f *BackendFactory) Docker() (DockerAPI, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.dock != nil {
		return f.dock, nil
	}
	api, err := f.dockDial()
	if err != nil {
		return nil, newBackendError(ErrConnection, "dial", "docker", err)
	}
	f.dock = api

	return api, nil
}

// Namespace returns the active containerd namespace.
func (f *BackendFactory) Namespace() string {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.namespace
}

// SetNamespace switches the containerd namespace.
func (f *BackendFactory) SetNamespace(ns string) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.namespace = ns
}

// Namespaces lists the containerd namespaces.
func (f *BackendFactory) Namespaces(ctx context.Context) ([]string, error) {
	conn, err := f.Containerd()
	if err != nil {
		return nil, err
	}
	nn, err := conn.NamespaceService().List(ctx)
	if err != nil {
		return nil, classifyContainerd(err, "list namespaces", "")
	}

	return nn, nil
}

// Region returns the current AWS region.
func (f *BackendFactory) Region() string {
	if f.aws != nil {
		return f.aws.Region()
	}
	return aws.DefaultRegion
}

// SetRegion switches to a different AWS region.
func (f *BackendFactory) SetRegion(region string) error {
	if f.aws == nil {
		return aws.ErrNoConnection
	}
	return f.aws.SetRegion(region)
}

// Close releases the backend connections that were opened.
func (f *BackendFactory) Close() error {
	f.mx.Lock()
	defer f.mx.Unlock()
	var errs []error
	if f.conn != nil {
		if err := f.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close containerd: %w", err))
		}
		f.conn = nil
	}
	if f.dock != nil {
		if err := f.dock.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close docker: %w", err))
		}
		f.dock = nil
	}

	return errors.Join(errs...)
}
