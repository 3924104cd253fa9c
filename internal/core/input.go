package core

import "sort"

// Action is a semantic player intent, decoupled from the physical key that
// produced it. The platform maps keys to actions; games only see actions.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // Left, H, A
	ActionRight            // Right, L, D
	ActionSoftDrop         // Down, J, S
	ActionRotateCW         // Up, X, W
	ActionRotateCCW        // Z
	ActionHold             // C
	ActionHardDrop         // Space
	ActionPause            // P, Escape
	ActionRestart          // R after game over
	ActionConfirm          // Enter
	ActionBack             // B
	ActionQuit             // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:      "none",
	ActionLeft:      "left",
	ActionRight:     "right",
	ActionSoftDrop:  "soft_drop",
	ActionRotateCW:  "rotate_cw",
	ActionRotateCCW: "rotate_ccw",
	ActionHold:      "hold",
	ActionHardDrop:  "hard_drop",
	ActionPause:     "pause",
	ActionRestart:   "restart",
	ActionConfirm:   "confirm",
	ActionBack:      "back",
	ActionQuit:      "quit",
}

// String returns the snake_case name used in replays and key bindings.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction is the inverse of Action.String.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}

// InputFrame carries the action edges observed during one simulation tick.
// Pressed holds key-down edges, Released holds key-up edges. Level state
// (what is currently held) is the game's business.
type InputFrame struct {
	Pressed  map[Action]bool
	Released map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Pressed:  make(map[Action]bool),
		Released: make(map[Action]bool),
	}
}

// Set records a key-down edge for the action.
func (f *InputFrame) Set(a Action) {
	if f.Pressed == nil {
		f.Pressed = make(map[Action]bool)
	}
	f.Pressed[a] = true
}

// Release records a key-up edge for the action.
func (f *InputFrame) Release(a Action) {
	if f.Released == nil {
		f.Released = make(map[Action]bool)
	}
	f.Released[a] = true
}

// Has reports whether the action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Pressed[a]
}

// WasReleased reports whether the action was released this frame.
func (f InputFrame) WasReleased(a Action) bool {
	return f.Released[a]
}

// Empty reports whether the frame carries no edges at all.
func (f InputFrame) Empty() bool {
	return len(f.Pressed) == 0 && len(f.Released) == 0
}

// Clear resets all edges for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Pressed)
	clear(f.Released)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Pressed {
		clone.Pressed[k] = v
	}
	for k, v := range f.Released {
		clone.Released[k] = v
	}
	return clone
}

// PressedActions returns the pressed actions in ascending order so that
// consumers iterate deterministically.
func (f InputFrame) PressedActions() []Action {
	return sortedActions(f.Pressed)
}

// ReleasedActions returns the released actions in ascending order.
func (f InputFrame) ReleasedActions() []Action {
	return sortedActions(f.Released)
}

func sortedActions(m map[Action]bool) []Action {
	out := make([]Action, 0, len(m))
	for a, on := range m {
		if on {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
