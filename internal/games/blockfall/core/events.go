package core

// EventKind names a kernel notification.
type EventKind string

const (
	EventPieceSpawned EventKind = "piece_spawned"
	EventPieceLocked  EventKind = "piece_locked"
	EventLinesCleared EventKind = "lines_cleared"
	EventHoldUsed     EventKind = "hold_used"
	EventHardDrop     EventKind = "hard_drop"
	EventTopOut       EventKind = "top_out"
	EventBoardMutated EventKind = "board_mutated"
)

// Top-out reasons.
const (
	TopOutSpawnBlocked = "spawn_blocked"
	TopOutLockOverflow = "lock_overflow"
)

// Event is plain data describing something that happened during a tick.
// Fields not meaningful for a kind are left zero.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Piece    PieceType
	X, Y     int
	Rotation int
	Lines    int
	Rows     []int  // cleared row indices, bottom-up
	Distance int    // rows travelled by a hard drop
	Cells    int    // cells changed by a board mutation
	Reason   string // top-out reason or mutation name
}
