package core

import (
	"reflect"
	"testing"
)

func TestInputFrameEdges(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionHold)
	f.Set(ActionLeft)
	f.Release(ActionSoftDrop)

	if !f.Has(ActionLeft) || f.Has(ActionRight) {
		t.Error("Has should report pressed actions only")
	}
	if !f.WasReleased(ActionSoftDrop) || f.WasReleased(ActionLeft) {
		t.Error("WasReleased should report released actions only")
	}

	want := []Action{ActionLeft, ActionHold}
	if got := f.PressedActions(); !reflect.DeepEqual(got, want) {
		t.Errorf("PressedActions() = %v, expected %v", got, want)
	}

	clone := f.Clone()
	f.Clear()
	if !f.Empty() {
		t.Error("Clear should drop every edge")
	}
	if !clone.Has(ActionHold) || !clone.WasReleased(ActionSoftDrop) {
		t.Error("Clone should be independent of the original")
	}
}

func TestZeroInputFrameIsUsable(t *testing.T) {
	var f InputFrame
	if f.Has(ActionHardDrop) || !f.Empty() {
		t.Fatal("zero frame should be empty")
	}
	f.Set(ActionHardDrop)
	f.Release(ActionHardDrop)
	if !f.Has(ActionHardDrop) || !f.WasReleased(ActionHardDrop) {
		t.Error("zero frame should allocate on first write")
	}
}

func TestActionNamesRoundTrip(t *testing.T) {
	for a := ActionLeft; a <= ActionQuit; a++ {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseAction("none"); ok {
		t.Error("none should not parse as an action")
	}
}
