// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Crumbs shows the component stack as breadcrumbs.
type Crumbs struct {
	*tview.TextView

	stack *Stack
}

// NewCrumbs returns a breadcrumb view tracking stack.
func NewCrumbs(stack *Stack) *Crumbs {
	c := Crumbs{
		stack:    stack,
		TextView: tview.NewTextView(),
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextAlign(tview.AlignLeft)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return &c
}

// StackPushed indicates a new item was added.
func (c *Crumbs) StackPushed(Component) {
	c.refresh(c.stack.Flatten())
}

// StackPopped indicates an item was deleted.
func (c *Crumbs) StackPopped(_, _ Component) {
	c.refresh(c.stack.Flatten())
}

// StackTop indicates the top of the stack.
func (c *Crumbs) StackTop(Component) {
	c.refresh(c.stack.Flatten())
}

func (c *Crumbs) refresh(crumbs []string) {
	c.Clear()
	_, _ = fmt.Fprint(c, Crumbify(crumbs))
}

// Crumbify renders names with the last one highlighted.
func Crumbify(crumbs []string) string {
	var b strings.Builder
	last := len(crumbs) - 1
	for i, crumb := range crumbs {
		name := strings.ReplaceAll(strings.ToLower(crumb), " ", "")
		if i == last {
			fmt.Fprintf(&b, "[black:aqua:b] <%s> [-:-:-] ", name)
		} else {
			fmt.Fprintf(&b, "[gray::-] <%s> [-:-:-] ", name)
		}
	}
	return b.String()
}
