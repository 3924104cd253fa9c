package core

// BoardSnapshot is a deep copy of the committed playfield.
type BoardSnapshot struct {
	Width  int
	Height int
	Cells  [][]PieceType
}

// At returns the cell at (x, y), or PieceNone out of bounds.
func (b BoardSnapshot) At(x, y int) PieceType {
	if y < 0 || y >= len(b.Cells) || x < 0 || x >= len(b.Cells[y]) {
		return PieceNone
	}
	return b.Cells[y][x]
}

// PieceSnapshot describes a piece pose.
type PieceSnapshot struct {
	Type     PieceType
	X, Y     int
	Rotation int
	Offsets  Shape    // relative to (X, Y)
	Blocks   [4]Point // absolute cells
}

func pieceSnapshot(p Piece) PieceSnapshot {
	return PieceSnapshot{
		Type:     p.Type,
		X:        p.X,
		Y:        p.Y,
		Rotation: p.Rotation,
		Offsets:  ShapeOf(p.Type, p.Rotation),
		Blocks:   p.Blocks(),
	}
}

// Snapshot is the aggregate view published to hosts after each tick.
// It shares no memory with the kernel.
type Snapshot struct {
	Tick         uint64
	Board        BoardSnapshot
	Active       *PieceSnapshot
	Ghost        *PieceSnapshot
	Hold         PieceType
	HoldUsed     bool
	Next         []PieceType
	Lock         LockState
	Input        InputState
	GameOver     bool
	TopOutReason string
	NearOverflow bool
	PiecesLocked int
	LinesCleared int
}
