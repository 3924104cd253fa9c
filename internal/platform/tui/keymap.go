package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Terminals report key presses and auto-repeats but never key releases.
// A held key is considered released when no repeat arrives within these
// windows: the first covers the terminal's initial repeat delay, the
// second the repeat interval.
const (
	firstRepeatTimeout = 550 * time.Millisecond
	repeatTimeout      = 120 * time.Millisecond
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct {
	bindings map[string]core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{bindings: map[string]core.Action{
		"left":   core.ActionLeft,
		"a":      core.ActionLeft,
		"h":      core.ActionLeft,
		"right":  core.ActionRight,
		"d":      core.ActionRight,
		"l":      core.ActionRight,
		"down":   core.ActionSoftDrop,
		"s":      core.ActionSoftDrop,
		"j":      core.ActionSoftDrop,
		"up":     core.ActionRotateCW,
		"x":      core.ActionRotateCW,
		"w":      core.ActionRotateCW,
		"z":      core.ActionRotateCCW,
		"c":      core.ActionHold,
		" ":      core.ActionHardDrop,
		"p":      core.ActionPause,
		"esc":    core.ActionPause,
		"r":      core.ActionRestart,
		"enter":  core.ActionConfirm,
		"b":      core.ActionBack,
		"q":      core.ActionQuit,
		"ctrl+c": core.ActionQuit,
	}}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action = km.bindings[msg.String()]
	return action, action == core.ActionQuit
}

// Bind maps an extra key to an action, replacing any existing binding.
func (km *KeyMapper) Bind(key string, a core.Action) {
	km.bindings[key] = a
}

// isLevelAction reports whether the game cares how long the action is held.
func isLevelAction(a core.Action) bool {
	return a == core.ActionLeft || a == core.ActionRight || a == core.ActionSoftDrop
}

func opposite(a core.Action) core.Action {
	switch a {
	case core.ActionLeft:
		return core.ActionRight
	case core.ActionRight:
		return core.ActionLeft
	}
	return core.ActionNone
}

type heldKey struct {
	last     time.Time
	repeated bool
}

// heldKeys tracks level actions and synthesizes their release edges.
type heldKeys struct {
	keys map[core.Action]heldKey
}

func newHeldKeys() *heldKeys {
	return &heldKeys{keys: make(map[core.Action]heldKey)}
}

// press records a key event for a level action. It returns the actions
// that must be released first: pressing one direction lets go of the other.
func (h *heldKeys) press(a core.Action, now time.Time) (released []core.Action) {
	if o := opposite(a); o != core.ActionNone {
		if _, ok := h.keys[o]; ok {
			delete(h.keys, o)
			released = append(released, o)
		}
	}
	k, ok := h.keys[a]
	h.keys[a] = heldKey{last: now, repeated: ok || k.repeated}
	return released
}

// expire returns the actions whose repeat window has lapsed and forgets them.
func (h *heldKeys) expire(now time.Time) []core.Action {
	var out []core.Action
	for _, a := range []core.Action{core.ActionLeft, core.ActionRight, core.ActionSoftDrop} {
		k, ok := h.keys[a]
		if !ok {
			continue
		}
		timeout := firstRepeatTimeout
		if k.repeated {
			timeout = repeatTimeout
		}
		if now.Sub(k.last) > timeout {
			delete(h.keys, a)
			out = append(out, a)
		}
	}
	return out
}

func (h *heldKeys) held(a core.Action) bool {
	_, ok := h.keys[a]
	return ok
}

func (h *heldKeys) reset() {
	clear(h.keys)
}
