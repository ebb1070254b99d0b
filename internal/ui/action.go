// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package ui

import (
	"sort"
	"sync"

	"github.com/derailed/tcell/v2"
)

// Rune keys are folded into the tcell.Key space so both live in one KeyMap.
const (
	KeyColon  tcell.Key = ':'
	KeyHelp   tcell.Key = '?'
	KeyQ      tcell.Key = 'q'
	KeyM      tcell.Key = 'm'
	KeyC      tcell.Key = 'c'
	KeyD      tcell.Key = 'd'
	KeyY      tcell.Key = 'y'
	KeyShiftI tcell.Key = 'I'
	KeyShiftN tcell.Key = 'N'
	KeyShiftS tcell.Key = 'S'
)

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter: "enter",
	tcell.KeyEsc:   "esc",
	tcell.KeyCtrlR: "ctrl-r",
	tcell.KeyCtrlC: "ctrl-c",
}

// ActionHandler handles a keyboard event.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction is a bound key with its hint.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
	Shared      bool
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: display}
}

// NewSharedKeyAction returns an action that is also offered by child views.
func NewSharedKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: display, Shared: true}
}

// KeyActions is a guarded collection of key actions.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty collection.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add binds a key.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions[k] = ka
}

// Bulk binds many keys at once.
func (a *KeyActions) Bulk(km KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range km {
		a.actions[k] = v
	}
}

// Get returns the action bound to key.
func (a *KeyActions) Get(key tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	v, ok := a.actions[key]
	return v, ok
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Clear unbinds every key.
func (a *KeyActions) Clear() {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions = make(KeyMap)
}

// Len returns the number of bound keys.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return len(a.actions)
}

// Hints returns the visible bindings as menu hints.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]tcell.Key, 0, len(a.actions))
	for k := range a.actions {
		kk = append(kk, k)
	}
	sort.Slice(kk, func(i, j int) bool { return kk[i] < kk[j] })

	hh := make(MenuHints, 0, len(kk))
	for _, k := range kk {
		v := a.actions[k]
		hh = append(hh, MenuHint{
			Mnemonic:    KeyName(k),
			Description: v.Description,
			Visible:     v.Visible,
		})
	}

	return hh
}

// Dispatch runs the action bound to the event, folding runes into keys.
// Unbound events are returned untouched.
func (a *KeyActions) Dispatch(evt *tcell.EventKey) *tcell.EventKey {
	key := evt.Key()
	if key == tcell.KeyRune {
		key = tcell.Key(evt.Rune())
	}
	if ka, ok := a.Get(key); ok && ka.Action != nil {
		return ka.Action(evt)
	}

	return evt
}

// KeyName returns a display name for a key.
func KeyName(k tcell.Key) string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	if n, ok := tcell.KeyNames[k]; ok {
		return n
	}
	return string(rune(k))
}
