package model

import (
	"fmt"
	"slices"
)

// MenuState is either closed or open over a target row.
type MenuState struct {
	Open    bool
	Target  int
	Choices []ActionKind
}

// Menu is the action overlay state machine.
type Menu struct {
	state MenuState
}

// NewMenu returns a closed menu.
func NewMenu() *Menu {
	return &Menu{state: MenuState{Target: -1}}
}

// Open opens the menu over row selection. A negative selection is a no-op.
func (m *Menu) Open(selection int) bool {
	if selection < 0 {
		return false
	}
	m.state = MenuState{Open: true, Target: selection, Choices: DefaultActions()}

	return true
}

// Submit closes the menu and resolves kind against the target row.
func (m *Menu) Submit(kind ActionKind, t *Table) (ActionRequest, error) {
	if !m.state.Open {
		return ActionRequest{}, ErrMenuClosed
	}
	if !slices.Contains(m.state.Choices, kind) {
		return ActionRequest{}, fmt.Errorf("%w: %s", ErrUnknownAction, kind)
	}
	target := m.state.Target
	m.close()

	r, ok := t.RowAt(target)
	if !ok {
		return ActionRequest{}, fmt.Errorf("menu target %d: %w", target, ErrOutOfRange)
	}

	return ActionRequest{ResourceID: r.ID, Kind: kind, Row: target}, nil
}

// Cancel closes an open menu. It returns false when the menu was closed.
func (m *Menu) Cancel() bool {
	if !m.state.Open {
		return false
	}
	m.close()

	return true
}

func (m *Menu) close() {
	m.state = MenuState{Target: -1}
}

// State returns a snapshot of the menu state.
func (m *Menu) State() MenuState {
	s := m.state
	s.Choices = slices.Clone(s.Choices)
	return s
}

// IsOpen reports whether the menu is open.
func (m *Menu) IsOpen() bool {
	return m.state.Open
}

// Target returns the row the menu acts on, or -1 when closed.
func (m *Menu) Target() int {
	return m.state.Target
}

// Choices returns the offered actions.
func (m *Menu) Choices() []ActionKind {
	return slices.Clone(m.state.Choices)
}
