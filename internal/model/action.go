package model

import (
	"fmt"
	"strings"
)

// ActionKind enumerates the operations the action menu offers.
type ActionKind int

const (
	ActionDelete ActionKind = iota
)

var actionNames = map[ActionKind]string{
	ActionDelete: "Delete",
}

func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// ParseActionKind maps a menu label back to its kind.
func ParseActionKind(s string) (ActionKind, error) {
	for k, n := range actionNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// DefaultActions lists the choices offered for any row.
func DefaultActions() []ActionKind {
	return []ActionKind{ActionDelete}
}

// ActionRequest is a resolved menu choice, consumed once by a Dispatcher.
type ActionRequest struct {
	ResourceID string
	Kind       ActionKind
	Row        int
}
