// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	promptIdle    = "🐳"
	promptCommand = "🐋"
)

// CmdBar is the bordered command input at the top of the app. The rest of
// a known command is shown as gray ghost text and accepted with Tab.
type CmdBar struct {
	*tview.TextView

	active     bool
	text       []rune
	suggestion string
	commands   []string
	cmdFn      func(string)
	activeFn   func(bool)
	mx         sync.RWMutex
}

// NewCmdBar creates a command bar completing from commands.
func NewCmdBar(commands []string) *CmdBar {
	c := CmdBar{TextView: tview.NewTextView()}
	c.SetCommands(commands)
	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return &c
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.edit(func(rr []rune) []rune {
			if len(rr) == 0 {
				return rr
			}
			return rr[:len(rr)-1]
		})
	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.edit(func(rr []rune) []rune { return rr[:0] })
	case tcell.KeyTab, tcell.KeyRight:
		c.mx.Lock()
		if c.suggestion != "" {
			c.text = []rune(c.suggestion)
		}
		c.mx.Unlock()
		c.edit(func(rr []rune) []rune { return rr })
	case tcell.KeyEnter:
		c.execute()
	case tcell.KeyEsc:
		c.Deactivate()
	case tcell.KeyRune:
		c.edit(func(rr []rune) []rune { return append(rr, evt.Rune()) })
	default:
		return evt
	}

	return nil
}

func (c *CmdBar) edit(f func([]rune) []rune) {
	c.mx.Lock()
	c.text = f(c.text)
	c.suggestion = Suggest(c.commands, string(c.text))
	c.mx.Unlock()
	c.render()
}

func (c *CmdBar) render() {
	c.mx.RLock()
	text, suggestion, active := string(c.text), c.suggestion, c.active
	c.mx.RUnlock()

	c.Clear()
	if !active {
		_, _ = fmt.Fprintf(c, "%s>", promptIdle)
		return
	}
	ghost := strings.TrimPrefix(suggestion, text)
	if suggestion == "" {
		ghost = ""
	}
	_, _ = fmt.Fprintf(c, "%s: [::b]%s[gray::-]%s[-::]", promptCommand, tview.Escape(text), ghost)
}

// Suggest returns the first command prefixed by text, or "".
func Suggest(commands []string, text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, text) && cmd != text {
			return cmd
		}
	}
	return ""
}

// SetCommands replaces the completion list.
func (c *CmdBar) SetCommands(cmds []string) {
	cc := append([]string(nil), cmds...)
	sort.Strings(cc)
	c.mx.Lock()
	c.commands = cc
	c.mx.Unlock()
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return string(c.text)
}

// Activate starts command input.
func (c *CmdBar) Activate() {
	c.setActive(true)
}

// Deactivate leaves command input, dropping the text.
func (c *CmdBar) Deactivate() {
	c.setActive(false)
}

func (c *CmdBar) setActive(b bool) {
	c.mx.Lock()
	c.active = b
	c.text, c.suggestion = c.text[:0], ""
	c.mx.Unlock()
	c.render()

	if c.activeFn != nil {
		c.activeFn(b)
	}
}

func (c *CmdBar) execute() {
	text := strings.TrimSpace(c.GetText())
	c.Deactivate()
	if c.cmdFn != nil && text != "" {
		c.cmdFn(text)
	}
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.active
}

// SetCommandFn sets the callback for command execution.
func (c *CmdBar) SetCommandFn(fn func(string)) {
	c.cmdFn = fn
}

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}
