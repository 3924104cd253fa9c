package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim right", runeKey('l'), core.ActionRight, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop, false},
		{"arrow up rotates", tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotateCW, false},
		{"z rotates back", runeKey('z'), core.ActionRotateCCW, false},
		{"hold", runeKey('c'), core.ActionHold, false},
		{"space hard drops", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionHardDrop, false},
		{"escape pauses", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"q quits", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('y'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
			if quit != tt.isQuit {
				t.Errorf("MapKey(%q) quit = %v, want %v", tt.msg.String(), quit, tt.isQuit)
			}
		})
	}
}

func TestKeyMapperBind(t *testing.T) {
	km := NewKeyMapper()
	km.Bind("y", core.ActionHold)

	if got, _ := km.MapKey(runeKey('y')); got != core.ActionHold {
		t.Errorf("bound key = %v, want hold", got)
	}
}

func TestHeldKeysExpireAfterFirstRepeatWindow(t *testing.T) {
	h := newHeldKeys()
	t0 := time.Unix(0, 0)

	h.press(core.ActionLeft, t0)
	if got := h.expire(t0.Add(firstRepeatTimeout)); len(got) != 0 {
		t.Fatalf("released too early: %v", got)
	}
	got := h.expire(t0.Add(firstRepeatTimeout + time.Millisecond))
	if len(got) != 1 || got[0] != core.ActionLeft {
		t.Fatalf("expire = %v, want [left]", got)
	}
	if h.held(core.ActionLeft) {
		t.Error("left still held after release")
	}
}

func TestHeldKeysRepeatShortensWindow(t *testing.T) {
	h := newHeldKeys()
	t0 := time.Unix(0, 0)

	h.press(core.ActionSoftDrop, t0)
	h.press(core.ActionSoftDrop, t0.Add(500*time.Millisecond))

	if got := h.expire(t0.Add(600 * time.Millisecond)); len(got) != 0 {
		t.Fatalf("released while repeating: %v", got)
	}
	got := h.expire(t0.Add(500*time.Millisecond + repeatTimeout + time.Millisecond))
	if len(got) != 1 || got[0] != core.ActionSoftDrop {
		t.Fatalf("expire = %v, want [soft_drop]", got)
	}
}

func TestHeldKeysOppositeDirectionReleases(t *testing.T) {
	h := newHeldKeys()
	t0 := time.Unix(0, 0)

	if released := h.press(core.ActionLeft, t0); len(released) != 0 {
		t.Fatalf("unexpected release: %v", released)
	}
	released := h.press(core.ActionRight, t0)
	if len(released) != 1 || released[0] != core.ActionLeft {
		t.Fatalf("press(right) released %v, want [left]", released)
	}
	if !h.held(core.ActionRight) || h.held(core.ActionLeft) {
		t.Error("expected only right to be held")
	}

	// Soft drop combines with either direction.
	if released := h.press(core.ActionSoftDrop, t0); len(released) != 0 {
		t.Errorf("soft drop released %v", released)
	}
}
