package core

// Zone is an inclusive row range.
type Zone struct {
	Y0, Y1 int
}

// Rect is a cell rectangle with its top-left corner at (X, Y).
type Rect struct {
	X, Y int
	W, H int
}

// Mutation names reported in EventBoardMutated.Reason.
const (
	MutationClearCell        = "clear_cell"
	MutationClearZone        = "clear_zone"
	MutationClearRect        = "clear_rect"
	MutationTargeted         = "destroy_targeted"
	MutationRandom           = "destroy_random"
	MutationMassive          = "massive_destruction"
	MutationNearLineComplete = "near_line_completion"
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClearCell empties one committed cell. It reports whether a block was
// removed.
func (k *Kernel) ClearCell(x, y int) bool {
	if k.grid.At(x, y) == PieceNone {
		return false
	}
	k.grid.Set(x, y, PieceNone)
	k.mutated(MutationClearCell, 1)
	return true
}

// ClearZone empties every row in z, clamped to the board, and returns the
// number of blocks removed.
func (k *Kernel) ClearZone(z Zone) int {
	y0 := clamp(min(z.Y0, z.Y1), 0, k.grid.Height()-1)
	y1 := clamp(max(z.Y0, z.Y1), 0, k.grid.Height()-1)
	n := k.clearArea(0, y0, k.grid.Width()-1, y1)
	k.mutated(MutationClearZone, n)
	return n
}

// ClearRect empties the cells of r, clamped to the board, and returns the
// number of blocks removed.
func (k *Kernel) ClearRect(r Rect) int {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	x0 := clamp(r.X, 0, k.grid.Width()-1)
	x1 := clamp(r.X+r.W-1, 0, k.grid.Width()-1)
	y0 := clamp(r.Y, 0, k.grid.Height()-1)
	y1 := clamp(r.Y+r.H-1, 0, k.grid.Height()-1)
	if r.X+r.W <= 0 || r.X >= k.grid.Width() || r.Y+r.H <= 0 || r.Y >= k.grid.Height() {
		return 0
	}
	n := k.clearArea(x0, y0, x1, y1)
	k.mutated(MutationClearRect, n)
	return n
}

func (k *Kernel) clearArea(x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if k.grid.At(x, y) != PieceNone {
				k.grid.Set(x, y, PieceNone)
				n++
			}
		}
	}
	return n
}

// SelectDestructionTargets returns up to n occupied cells, scanning rows
// from the floor upward and each row left to right.
func (k *Kernel) SelectDestructionTargets(n int) []Point {
	var out []Point
	for y := k.grid.Height() - 1; y >= 0 && len(out) < n; y-- {
		for x := 0; x < k.grid.Width() && len(out) < n; x++ {
			if k.grid.At(x, y) != PieceNone {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// SelectRandomTargets returns up to n distinct occupied cells chosen with
// the kernel generator.
func (k *Kernel) SelectRandomTargets(n int) []Point {
	var filled []Point
	for y := 0; y < k.grid.Height(); y++ {
		for x := 0; x < k.grid.Width(); x++ {
			if k.grid.At(x, y) != PieceNone {
				filled = append(filled, Point{X: x, Y: y})
			}
		}
	}
	var out []Point
	for len(out) < n && len(filled) > 0 {
		i := k.rng.Intn(len(filled))
		out = append(out, filled[i])
		filled = append(filled[:i], filled[i+1:]...)
	}
	return out
}

// DestroyTargetedBlocks removes up to n blocks chosen by
// SelectDestructionTargets and returns the number removed.
func (k *Kernel) DestroyTargetedBlocks(n int) int {
	return k.destroy(k.SelectDestructionTargets(n), MutationTargeted)
}

// DestroyRandomBlocks removes up to n blocks chosen by SelectRandomTargets.
func (k *Kernel) DestroyRandomBlocks(n int) int {
	return k.destroy(k.SelectRandomTargets(n), MutationRandom)
}

func (k *Kernel) destroy(targets []Point, reason string) int {
	for _, p := range targets {
		k.grid.Set(p.X, p.Y, PieceNone)
	}
	k.mutated(reason, len(targets))
	return len(targets)
}

// TriggerMassiveDestruction clears the bottom half of the board.
func (k *Kernel) TriggerMassiveDestruction() int {
	h := k.grid.Height()
	n := k.clearArea(0, h/2, k.grid.Width()-1, h-1)
	k.mutated(MutationMassive, n)
	return n
}

// AttemptNearLineCompletion draws from the kernel generator and, if the
// roll is below chance, fills the lowest row missing at most one block
// and clears full rows. Rows whose gaps are covered by the active piece are
// skipped. It reports whether a row was completed.
func (k *Kernel) AttemptNearLineCompletion(chance float64) bool {
	if k.rng.Float64() >= chance {
		return false
	}
	w := k.grid.Width()
	for y := k.grid.Height() - 1; y >= 0; y-- {
		if k.grid.RowCount(y) < w-1 || k.gapCovered(y) {
			continue
		}
		filled := 0
		for x := 0; x < w; x++ {
			if k.grid.At(x, y) == PieceNone {
				k.grid.Set(x, y, PieceGarbage)
				filled++
			}
		}
		rows := k.grid.ClearFullRows()
		k.linesCleared += len(rows)
		k.mutated(MutationNearLineComplete, filled)
		if len(rows) > 0 {
			k.emit(Event{Kind: EventLinesCleared, Lines: len(rows), Rows: rows})
		}
		k.settleActive()
		return true
	}
	return false
}

func (k *Kernel) gapCovered(y int) bool {
	if !k.hasActive {
		return false
	}
	for _, b := range k.active.Blocks() {
		if b.Y == y && k.grid.At(b.X, b.Y) == PieceNone {
			return true
		}
	}
	return false
}

// settleActive lifts the active piece until it fits again after rows above
// it shifted down.
func (k *Kernel) settleActive() {
	if !k.hasActive {
		return
	}
	for i := 0; i <= k.grid.Height() && !k.grid.Fits(k.active); i++ {
		k.active.Y--
	}
	k.liftIfAirborne()
}

func (k *Kernel) mutated(reason string, cells int) {
	k.emit(Event{Kind: EventBoardMutated, Reason: reason, Cells: cells})
	k.liftIfAirborne()
}

// IsNearOverflow reports whether anything occupies the top two rows.
func (k *Kernel) IsNearOverflow() bool { return k.grid.IsNearOverflow() }
