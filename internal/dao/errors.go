package dao

import (
	"errors"
	"fmt"
)

// Error is a backend failure kind.
type Error string

const (
	ErrNotFound   = Error("resource not found")
	ErrInUse      = Error("resource is in use")
	ErrConnection = Error("backend connection failed")
	ErrProtocol   = Error("backend protocol error")
)

func (e Error) Error() string {
	return string(e)
}

// BackendError ties a failure kind to the operation and resource it came from.
type BackendError struct {
	Kind Error
	Op   string
	ID   string
	Err  error
}

func (e *BackendError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.ID, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *BackendError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newBackendError(kind Error, op, id string, err error) error {
	return &BackendError{Kind: kind, Op: op, ID: id, Err: err}
}

// KindOf returns the failure kind carried by err, or "" if none.
func KindOf(err error) Error {
	for _, k := range []Error{ErrNotFound, ErrInUse, ErrConnection, ErrProtocol} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ""
}
