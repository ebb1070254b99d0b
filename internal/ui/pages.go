// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"fmt"

	"github.com/derailed/tview"
)

// Pages shows the top of a component stack. Overlays such as dialogs and
// the action menu are added as plain pages above it.
type Pages struct {
	*tview.Pages
	*Stack
}

// NewPages returns a new pages manager listening on its own stack.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the top component or nil.
func (p *Pages) Current() Component {
	return p.Stack.Top()
}

// HasOverlay reports whether a page other than a stacked component is in front.
func (p *Pages) HasOverlay() bool {
	name, _ := p.GetFrontPage()
	top := p.Stack.Top()
	return name != "" && (top == nil || name != componentID(top))
}

// Show adds an overlay page in front of the stack.
func (p *Pages) Show(name string, page tview.Primitive) {
	p.AddPage(name, page, true, true)
}

// Dismiss removes an overlay page. Unknown names are ignored.
func (p *Pages) Dismiss(name string) {
	p.RemovePage(name)
}

// StackPushed notifies a new component was pushed.
func (p *Pages) StackPushed(c Component) {
	p.AddPage(componentID(c), c, true, true)
}

// StackPopped notifies a component was removed.
func (p *Pages) StackPopped(o, top Component) {
	p.RemovePage(componentID(o))
	if top != nil {
		p.SwitchToPage(componentID(top))
	}
}

// StackTop notifies the current top component.
func (*Pages) StackTop(Component) {}

func componentID(c Component) string {
	return fmt.Sprintf("%s-%p", c.Name(), c)
}
