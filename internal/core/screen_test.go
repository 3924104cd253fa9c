package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("dimensions = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blankCell {
				t.Errorf("cell (%d, %d) = %+v, expected blank", x, y, c)
			}
		}
	}
}

func TestScreenSetCellKeepsColor(t *testing.T) {
	s := NewScreen(10, 10)
	s.SetCell(3, 4, '█', ColorCyan)

	got := s.GetCell(3, 4)
	if got.Rune != '█' || got.Color != ColorCyan {
		t.Errorf("GetCell(3, 4) = %+v, expected cyan block", got)
	}

	// Out of bounds writes are dropped and reads return a blank cell.
	s.SetCell(-1, 0, 'X', ColorRed)
	s.SetCell(0, 10, 'X', ColorRed)
	if s.GetCell(-1, 0) != blankCell || s.Get(0, 10) != ' ' {
		t.Error("out of bounds access should yield a blank cell")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawTextColored(0, 0, "HOLD", ColorYellow)
	s.Clear()

	if s.Row(0) != "    " {
		t.Errorf("after Clear row 0 = %q", s.Row(0))
	}
	if s.GetCell(0, 0).Color != ColorDefault {
		t.Error("Clear should reset colors")
	}
}

func TestScreenDrawTextClipsAndCountsRunes(t *testing.T) {
	s := NewScreen(6, 2)
	s.DrawText(0, 0, "▓▓ab")
	s.DrawText(4, 1, "NEXT")

	if s.Row(0) != "▓▓ab  " {
		t.Errorf("row 0 = %q", s.Row(0))
	}
	if s.Row(1) != "    NE" {
		t.Errorf("row 1 = %q, expected clipped text", s.Row(1))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawTextCentered(1, "GAME OVER")

	if !strings.HasPrefix(s.Row(1)[5:], "GAME OVER") {
		t.Errorf("row 1 = %q, expected text at x=5", s.Row(1))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4), ColorGray)

	corners := map[[2]int]rune{
		{1, 1}: '┌',
		{5, 1}: '┐',
		{1, 4}: '└',
		{5, 4}: '┘',
	}
	for p, want := range corners {
		c := s.GetCell(p[0], p[1])
		if c.Rune != want || c.Color != ColorGray {
			t.Errorf("corner %v = %+v, expected %q in gray", p, c, want)
		}
	}
	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge missing at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge missing at y=%d", y)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "ABC")
	s.DrawText(0, 1, "DEF")

	if got := s.String(); got != "ABC\nDEF" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenResizePreservesCells(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorGreen)

	s.Resize(3, 2)
	if s.Row(0) != "Hel" {
		t.Errorf("after shrink row 0 = %q", s.Row(0))
	}

	s.Resize(8, 4)
	if s.Row(0) != "Hel     " {
		t.Errorf("after grow row 0 = %q", s.Row(0))
	}
	if s.GetCell(2, 0).Color != ColorGreen {
		t.Error("colors should survive a resize")
	}
}
