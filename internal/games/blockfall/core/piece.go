// Package core implements the blockfall simulation kernel: the playfield,
// active-piece physics, rotation and kick resolution, lock delay and
// DAS/ARR input timing. It has no terminal, storage or logging dependencies;
// hosts drive it through Kernel.Update and read immutable snapshots.
package core

// PieceType identifies a tetromino. The zero value is an empty cell.
type PieceType uint8

const (
	PieceNone PieceType = iota
	PieceI
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
	// PieceGarbage tags blocks written by board mutations rather than by a
	// locked piece. It never spawns.
	PieceGarbage
)

// Alphabet is the frozen bag fill order. Changing it changes every
// seeded sequence.
var Alphabet = [...]PieceType{PieceI, PieceO, PieceT, PieceS, PieceZ, PieceJ, PieceL}

// String returns the single-letter name of the piece.
func (p PieceType) String() string {
	switch p {
	case PieceI:
		return "I"
	case PieceO:
		return "O"
	case PieceT:
		return "T"
	case PieceS:
		return "S"
	case PieceZ:
		return "Z"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	case PieceGarbage:
		return "G"
	default:
		return "."
	}
}

// ParsePiece converts a single-letter name back to a PieceType.
func ParsePiece(s string) (PieceType, bool) {
	for _, p := range Alphabet {
		if p.String() == s {
			return p, true
		}
	}
	return PieceNone, false
}

// Point is a cell coordinate. X grows right, Y grows down.
type Point struct {
	X, Y int
}

// Add returns the component-wise sum.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Shape holds the four block offsets of a piece in one rotation state.
type Shape [4]Point

// shapes is indexed by [PieceType][rotation]. Part of the gameplay
// contract: every offset here is visible to players and replays.
var shapes = [...][4]Shape{
	PieceI: {
		{{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
		{{1, -1}, {1, 0}, {1, 1}, {1, 2}},
		{{-1, 1}, {0, 1}, {1, 1}, {2, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {0, 2}},
	},
	PieceO: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	PieceT: {
		{{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, 0}},
		{{-1, 0}, {0, 0}, {1, 0}, {0, -1}},
		{{0, -1}, {0, 0}, {0, 1}, {-1, 0}},
	},
	PieceS: {
		{{0, 0}, {1, 0}, {-1, 1}, {0, 1}},
		{{0, -1}, {0, 0}, {1, 0}, {1, 1}},
		{{0, 0}, {1, 0}, {-1, 1}, {0, 1}},
		{{0, -1}, {0, 0}, {1, 0}, {1, 1}},
	},
	PieceZ: {
		{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		{{1, -1}, {1, 0}, {0, 0}, {0, 1}},
		{{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
		{{1, -1}, {1, 0}, {0, 0}, {0, 1}},
	},
	PieceJ: {
		{{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, 1}},
		{{-1, 0}, {0, 0}, {1, 0}, {1, -1}},
		{{0, -1}, {0, 0}, {0, 1}, {-1, -1}},
	},
	PieceL: {
		{{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
		{{0, -1}, {0, 0}, {0, 1}, {1, -1}},
		{{-1, 0}, {0, 0}, {1, 0}, {-1, -1}},
		{{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
	},
}

// Kicks is the ordered offset list tried during rotation. The first entry
// that fits wins; ties are broken by table order alone.
var Kicks = [...]Point{
	{0, 0},
	{-1, 0},
	{1, 0},
	{0, -1},
	{-2, 0},
	{2, 0},
}

// ShapeOf returns the block offsets for a piece type and rotation index.
// Unknown types fall back to the I piece.
func ShapeOf(p PieceType, rotation int) Shape {
	if p < PieceI || p > PieceL {
		p = PieceI
	}
	return shapes[p][normRotation(rotation)]
}

// normRotation maps any integer onto [0,4).
func normRotation(r int) int {
	return ((r % 4) + 4) % 4
}

// nextRotation returns the target rotation for a turn in the given
// direction: positive is clockwise, anything else counter-clockwise.
func nextRotation(current, direction int) int {
	if direction > 0 {
		return normRotation(current + 1)
	}
	return normRotation(current + 3)
}

// Piece is the active falling piece.
type Piece struct {
	Type     PieceType
	X, Y     int
	Rotation int
}

// Blocks returns the absolute cells occupied by the piece.
func (p Piece) Blocks() [4]Point {
	var out [4]Point
	origin := Point{X: p.X, Y: p.Y}
	for i, off := range ShapeOf(p.Type, p.Rotation) {
		out[i] = origin.Add(off)
	}
	return out
}
