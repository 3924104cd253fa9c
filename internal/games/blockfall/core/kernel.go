package core

import (
	"errors"
	"fmt"
)

// Default playfield size.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// PreviewSize is the number of upcoming pieces reported in a Snapshot.
const PreviewSize = 5

// ErrInvalidBoard is returned by New for non-positive board dimensions.
var ErrInvalidBoard = errors.New("invalid board size")

// Options configures a new Kernel.
type Options struct {
	Width  int
	Height int
	Seed   uint32
	Timing TimingModel
}

// DefaultOptions returns a 10x20 board with the classic tier and seed 1.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Seed: 1, Timing: ClassicTiming()}
}

// Input carries the key edges that arrived since the previous tick.
// SoftDrop is an optional level signal for hosts without release edges;
// it is OR'd with the held soft-drop key.
type Input struct {
	Pressed  []Key
	Released []Key
	SoftDrop bool
}

// TickResult summarises one Update call.
type TickResult struct {
	Moved         bool
	Rotated       bool
	TouchedGround bool
	Locked        bool
	LinesCleared  int
	HardDropped   bool
	Held          bool
	ToppedOut     bool
	Events        []Event
}

// Kernel is the deterministic simulation. It is single-threaded: callers
// must serialise every method call. Given the same seed, timing model and
// sequence of Update arguments it always produces the same states.
type Kernel struct {
	grid   *Grid
	rng    *Rand
	bag    *Bag
	timing TimingModel
	lock   *LockDelay
	input  *InputTiming

	active    Piece
	hasActive bool
	hold      PieceType
	holdUsed  bool

	gravityTimer float64
	tick         uint64

	gameOver     bool
	topOutReason string

	piecesLocked int
	linesCleared int

	events []Event
}

// New creates a kernel and spawns the first piece.
func New(opts Options) (*Kernel, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBoard, opts.Width, opts.Height)
	}
	if err := opts.Timing.Validate(); err != nil {
		return nil, err
	}
	rng := NewRand(opts.Seed)
	k := &Kernel{
		grid:   NewGrid(opts.Width, opts.Height),
		rng:    rng,
		bag:    NewBag(rng),
		timing: opts.Timing,
		lock:   NewLockDelay(opts.Timing),
		input:  NewInputTiming(opts.Timing),
	}
	k.spawnFromBag()
	return k, nil
}

// Configure validates and applies a timing model. On error the previous
// model stays in force. On success the lock-delay and input substates are
// reset; the board and active piece are untouched.
func (k *Kernel) Configure(t TimingModel) error {
	if err := t.Validate(); err != nil {
		return err
	}
	k.timing = t
	k.lock.Configure(t)
	k.input.Configure(t)
	return nil
}

// Timing returns the model in force.
func (k *Kernel) Timing() TimingModel { return k.timing }

// Width returns the board width.
func (k *Kernel) Width() int { return k.grid.Width() }

// Height returns the board height.
func (k *Kernel) Height() int { return k.grid.Height() }

// Tick returns the number of Update calls so far.
func (k *Kernel) Tick() uint64 { return k.tick }

// GameOver reports whether the run has topped out.
func (k *Kernel) GameOver() bool { return k.gameOver }

// TopOutReason is empty until the run ends.
func (k *Kernel) TopOutReason() string { return k.topOutReason }

// LinesCleared returns the total rows cleared so far.
func (k *Kernel) LinesCleared() int { return k.linesCleared }

// PiecesLocked returns the number of pieces committed so far.
func (k *Kernel) PiecesLocked() int { return k.piecesLocked }

// KeyDown feeds a press edge outside Update. It takes effect on the next tick.
func (k *Kernel) KeyDown(key Key) { k.input.KeyDown(key) }

// KeyUp feeds a release edge outside Update.
func (k *Kernel) KeyUp(key Key) { k.input.KeyUp(key) }

// CanPlace reports whether a pose fits the committed board.
func (k *Kernel) CanPlace(p PieceType, x, y, rotation int) bool {
	return k.grid.CanPlace(p, x, y, rotation)
}

// Update advances the simulation by deltaMs. Phases run in a fixed order:
// key edges, requested moves and rotations, gravity, lock delay, row
// clearing, respawn.
func (k *Kernel) Update(deltaMs float64, in Input) TickResult {
	k.tick++
	var res TickResult
	if deltaMs < 0 {
		deltaMs = 0
	}

	for _, key := range in.Released {
		k.input.KeyUp(key)
	}
	for _, key := range in.Pressed {
		k.input.KeyDown(key)
	}

	if k.gameOver {
		k.input.EndTick()
		res.ToppedOut = true
		res.Events = k.drainEvents()
		return res
	}

	committed := k.applyRequests(deltaMs, &res)

	if !committed && k.hasActive {
		started := k.applyGravity(deltaMs, in.SoftDrop || k.input.SoftDrop(), &res)
		k.liftIfAirborne()
		if !started && k.lock.Advance(deltaMs) {
			k.commit(&res)
		}
	}

	k.input.EndTick()
	res.ToppedOut = k.gameOver
	res.Events = k.drainEvents()
	return res
}

// applyRequests runs the input phase: hold, rotation, auto-shift and hard
// drop. It reports whether a piece was committed.
func (k *Kernel) applyRequests(deltaMs float64, res *TickResult) bool {
	if !k.hasActive {
		return false
	}
	if k.input.PendingHold() && !k.holdUsed {
		k.input.ConsumeHold()
		if k.HoldPiece() {
			res.Held = true
		}
		if !k.hasActive {
			return false
		}
	}
	if dir := k.input.ConsumeRotate(); dir != 0 {
		if k.Rotate(dir) {
			res.Rotated = true
		}
	}
	if k.input.Update(deltaMs, k.grid.Width(), k.Move) > 0 {
		res.Moved = true
	}
	k.liftIfAirborne()

	if k.input.ConsumeHardDrop() {
		k.hardDrop(res)
		res.HardDropped = true
		return true
	}
	return false
}

// applyGravity steps the piece down once per elapsed interval. It reports
// whether this call started a new grounding.
func (k *Kernel) applyGravity(deltaMs float64, softDrop bool, res *TickResult) bool {
	interval := k.timing.GravityMs
	if softDrop {
		interval /= k.timing.SoftDropMultiplier
	}
	k.gravityTimer += deltaMs
	for k.gravityTimer >= interval {
		k.gravityTimer -= interval
		if k.stepDown() {
			res.Moved = true
			continue
		}
		res.TouchedGround = true
		k.gravityTimer = 0
		return k.lock.Ground()
	}
	return false
}

func (k *Kernel) stepDown() bool {
	if !k.grid.CanPlace(k.active.Type, k.active.X, k.active.Y+1, k.active.Rotation) {
		return false
	}
	k.active.Y++
	k.lock.Lift()
	return true
}

// liftIfAirborne returns a grounded piece to Airborne when it can descend.
func (k *Kernel) liftIfAirborne() {
	if !k.hasActive || k.lock.State().Phase != Grounded {
		return
	}
	if k.grid.CanPlace(k.active.Type, k.active.X, k.active.Y+1, k.active.Rotation) {
		k.lock.Lift()
	}
}

// Move shifts the active piece horizontally by dx columns. It reports
// whether the move happened.
func (k *Kernel) Move(dx int) bool {
	if !k.hasActive || k.gameOver || dx == 0 {
		return false
	}
	if !k.grid.CanPlace(k.active.Type, k.active.X+dx, k.active.Y, k.active.Rotation) {
		return false
	}
	k.active.X += dx
	k.lock.OnMove()
	return true
}

// Rotate turns the active piece clockwise for dir > 0, counter-clockwise
// otherwise, trying each kick offset in order.
func (k *Kernel) Rotate(dir int) bool {
	if !k.hasActive || k.gameOver {
		return false
	}
	target := nextRotation(k.active.Rotation, dir)
	for _, kick := range Kicks {
		x, y := k.active.X+kick.X, k.active.Y+kick.Y
		if k.grid.CanPlace(k.active.Type, x, y, target) {
			k.active.X, k.active.Y, k.active.Rotation = x, y, target
			k.lock.OnRotate()
			return true
		}
	}
	return false
}

// HardDrop drops the active piece to its lowest legal row and commits it
// immediately, bypassing lock delay.
func (k *Kernel) HardDrop() LockResult {
	var res TickResult
	return k.hardDrop(&res)
}

func (k *Kernel) hardDrop(res *TickResult) LockResult {
	if !k.hasActive || k.gameOver {
		return LockResult{}
	}
	distance := 0
	for k.grid.CanPlace(k.active.Type, k.active.X, k.active.Y+1, k.active.Rotation) {
		k.active.Y++
		distance++
	}
	k.emit(Event{Kind: EventHardDrop, Piece: k.active.Type, X: k.active.X, Y: k.active.Y,
		Rotation: k.active.Rotation, Distance: distance})
	return k.commit(res)
}

// HoldPiece swaps the active piece into the hold slot, once per spawned
// piece. The first hold draws a new piece from the bag; later holds swap.
func (k *Kernel) HoldPiece() bool {
	if !k.hasActive || k.holdUsed || k.gameOver {
		return false
	}
	current := k.active.Type
	k.hasActive = false
	if k.hold == PieceNone {
		k.hold = current
		k.spawnFromBag()
	} else {
		swap := k.hold
		k.hold = current
		k.install(swap)
	}
	k.holdUsed = true
	k.emit(Event{Kind: EventHoldUsed, Piece: current})
	return true
}

// commit locks the active piece, clears rows and spawns the next piece.
func (k *Kernel) commit(res *TickResult) LockResult {
	piece := k.active
	k.hasActive = false
	lr := k.grid.Lock(piece)
	if lr.Overflow {
		k.topOut(TopOutLockOverflow)
		return lr
	}
	k.piecesLocked++
	k.linesCleared += lr.LinesCleared
	k.emit(Event{Kind: EventPieceLocked, Piece: piece.Type, X: piece.X, Y: piece.Y, Rotation: piece.Rotation})
	if lr.LinesCleared > 0 {
		k.emit(Event{Kind: EventLinesCleared, Lines: lr.LinesCleared, Rows: lr.ClearedRows})
	}
	res.Locked = true
	res.LinesCleared += lr.LinesCleared

	if k.spawnFromBag() {
		k.applySpawnBuffers(res)
	}
	return lr
}

// applySpawnBuffers honours IHS and IRS requests that were waiting for a
// new piece.
func (k *Kernel) applySpawnBuffers(res *TickResult) {
	if k.input.PendingHold() && !k.holdUsed {
		k.input.ConsumeHold()
		if k.HoldPiece() {
			res.Held = true
		}
	}
	if !k.hasActive {
		return
	}
	if dir := k.input.ConsumeRotate(); dir != 0 && k.Rotate(dir) {
		res.Rotated = true
	}
}

func (k *Kernel) spawnFromBag() bool {
	k.holdUsed = false
	return k.install(k.bag.Next())
}

// install places a piece at the spawn position, one row higher if blocked,
// and tops out if both are blocked.
func (k *Kernel) install(t PieceType) bool {
	x := k.grid.Width() / 2
	y := 0
	if !k.grid.CanPlace(t, x, y, 0) {
		y = -1
		if !k.grid.CanPlace(t, x, y, 0) {
			k.hasActive = false
			k.topOut(TopOutSpawnBlocked)
			return false
		}
	}
	k.active = Piece{Type: t, X: x, Y: y}
	k.hasActive = true
	k.lock.Reset()
	k.gravityTimer = 0
	k.emit(Event{Kind: EventPieceSpawned, Piece: t, X: x, Y: y})
	return true
}

func (k *Kernel) topOut(reason string) {
	if k.gameOver {
		return
	}
	k.gameOver = true
	k.topOutReason = reason
	k.emit(Event{Kind: EventTopOut, Reason: reason})
}

func (k *Kernel) emit(e Event) {
	e.Tick = k.tick
	k.events = append(k.events, e)
}

func (k *Kernel) drainEvents() []Event {
	if len(k.events) == 0 {
		return nil
	}
	out := k.events
	k.events = nil
	return out
}

// DrainEvents returns events raised outside Update, such as by board
// mutations or direct HardDrop calls.
func (k *Kernel) DrainEvents() []Event {
	return k.drainEvents()
}

// ghostY returns the row the active piece would land on.
func (k *Kernel) ghostY() int {
	y := k.active.Y
	for k.grid.CanPlace(k.active.Type, k.active.X, y+1, k.active.Rotation) {
		y++
	}
	return y
}

// BoardSnapshot returns a deep copy of the committed cells.
func (k *Kernel) BoardSnapshot() BoardSnapshot {
	return BoardSnapshot{Width: k.grid.Width(), Height: k.grid.Height(), Cells: k.grid.Rows()}
}

// ActivePieceSnapshot returns the active piece, if any.
func (k *Kernel) ActivePieceSnapshot() (PieceSnapshot, bool) {
	if !k.hasActive {
		return PieceSnapshot{}, false
	}
	return pieceSnapshot(k.active), true
}

// GhostPieceSnapshot returns the active piece projected to its landing row.
func (k *Kernel) GhostPieceSnapshot() (PieceSnapshot, bool) {
	if !k.hasActive {
		return PieceSnapshot{}, false
	}
	ghost := k.active
	ghost.Y = k.ghostY()
	return pieceSnapshot(ghost), true
}

// Snapshot returns the aggregate view of the kernel.
func (k *Kernel) Snapshot() Snapshot {
	s := Snapshot{
		Tick:         k.tick,
		Board:        k.BoardSnapshot(),
		Hold:         k.hold,
		HoldUsed:     k.holdUsed,
		Next:         k.bag.Peek(PreviewSize),
		Lock:         k.lock.State(),
		Input:        k.input.State(),
		GameOver:     k.gameOver,
		TopOutReason: k.topOutReason,
		NearOverflow: k.grid.IsNearOverflow(),
		PiecesLocked: k.piecesLocked,
		LinesCleared: k.linesCleared,
	}
	if a, ok := k.ActivePieceSnapshot(); ok {
		s.Active = &a
	}
	if g, ok := k.GhostPieceSnapshot(); ok {
		s.Ghost = &g
	}
	return s
}

// StackHeight returns the height of the committed stack in rows.
func (k *Kernel) StackHeight() int { return k.grid.StackHeight() }
