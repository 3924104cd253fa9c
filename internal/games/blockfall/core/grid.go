package core

// Grid is the committed playfield. Row 0 is the top. Cells hold the tag of
// the piece that locked there, or PieceNone.
type Grid struct {
	width  int
	height int
	cells  [][]PieceType
}

// NewGrid creates an empty width x height playfield.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, cells: make([][]PieceType, height)}
	for y := range g.cells {
		g.cells[y] = make([]PieceType, width)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds reads are empty.
func (g *Grid) At(x, y int) PieceType {
	if !g.InBounds(x, y) {
		return PieceNone
	}
	return g.cells[y][x]
}

// Set writes a cell. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, p PieceType) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y][x] = p
}

// CanPlace reports whether a piece pose fits: every block must be inside
// the side walls, above the floor and off committed cells. Blocks with a
// negative row are allowed so pieces can spawn partly above the field.
func (g *Grid) CanPlace(p PieceType, x, y, rotation int) bool {
	for _, off := range ShapeOf(p, rotation) {
		px, py := x+off.X, y+off.Y
		if px < 0 || px >= g.width {
			return false
		}
		if py >= g.height {
			return false
		}
		if py >= 0 && g.cells[py][px] != PieceNone {
			return false
		}
	}
	return true
}

// Fits is CanPlace for a Piece value.
func (g *Grid) Fits(p Piece) bool {
	return g.CanPlace(p.Type, p.X, p.Y, p.Rotation)
}

// LockResult reports the outcome of committing a piece.
type LockResult struct {
	Locked       bool
	LinesCleared int
	// Overflow is set when a block would have committed above row 0.
	// Nothing is written in that case.
	Overflow bool
	// ClearedRows lists the cleared row indices as they were before removal,
	// bottom-up.
	ClearedRows []int
}

// Lock commits the piece's blocks and clears full rows. If any block sits
// above the visible field the lock fails with Overflow and the grid is
// left untouched.
func (g *Grid) Lock(p Piece) LockResult {
	blocks := p.Blocks()
	for _, b := range blocks {
		if b.Y < 0 {
			return LockResult{Overflow: true}
		}
	}
	for _, b := range blocks {
		g.Set(b.X, b.Y, p.Type)
	}
	rows := g.ClearFullRows()
	return LockResult{Locked: true, LinesCleared: len(rows), ClearedRows: rows}
}

// rowFull reports whether every column of row y is occupied.
func (g *Grid) rowFull(y int) bool {
	for _, c := range g.cells[y] {
		if c == PieceNone {
			return false
		}
	}
	return true
}

// ClearFullRows removes full rows bottom-up, inserting an empty row at the
// top for each. After a removal the same index is tested again because the
// row shifted into it may itself be full. Returned indices are relative to
// the grid before any removal.
func (g *Grid) ClearFullRows() []int {
	var cleared []int
	shift := 0
	for y := g.height - 1; y >= 0; {
		if !g.rowFull(y) {
			y--
			continue
		}
		cleared = append(cleared, y-shift)
		g.removeRow(y)
		shift++
	}
	return cleared
}

// removeRow deletes row y and unshifts an empty row at the top, keeping
// the relative order of the rest.
func (g *Grid) removeRow(y int) {
	row := g.cells[y]
	copy(g.cells[1:y+1], g.cells[0:y])
	for x := range row {
		row[x] = PieceNone
	}
	g.cells[0] = row
}

// RowCount returns the number of occupied cells in row y.
func (g *Grid) RowCount(y int) int {
	if y < 0 || y >= g.height {
		return 0
	}
	n := 0
	for _, c := range g.cells[y] {
		if c != PieceNone {
			n++
		}
	}
	return n
}

// IsNearOverflow reports whether anything occupies the top two rows.
// It is a read-only hint for UI and AI consumers and never ends the game.
func (g *Grid) IsNearOverflow() bool {
	for y := 0; y < 2 && y < g.height; y++ {
		if g.RowCount(y) > 0 {
			return true
		}
	}
	return false
}

// StackHeight returns the number of rows from the floor up to and
// including the highest occupied row.
func (g *Grid) StackHeight() int {
	for y := 0; y < g.height; y++ {
		if g.RowCount(y) > 0 {
			return g.height - y
		}
	}
	return 0
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([][]PieceType, g.height)}
	for y, row := range g.cells {
		c.cells[y] = append([]PieceType(nil), row...)
	}
	return c
}

// Rows returns a deep copy of the cell matrix.
func (g *Grid) Rows() [][]PieceType {
	return g.Clone().cells
}
