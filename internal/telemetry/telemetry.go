// Package telemetry summarises a run from the kernel event stream and turns
// the summary into short post-run observations.
package telemetry

import (
	"fmt"
	"sync"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/blockfall/internal/events"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Summary is the post-run report.
type Summary struct {
	Ticks          uint64         `json:"ticks"`
	PiecesLocked   int            `json:"pieces_locked"`
	LinesCleared   int            `json:"lines_cleared"`
	Clears         [5]int         `json:"clears"` // Clears[n]: locks that cleared n rows
	MaxCombo       int            `json:"max_combo"`
	Holds          int            `json:"holds"`
	HardDrops      int            `json:"hard_drops"`
	HardDropRows   int            `json:"hard_drop_rows"`
	Mutations      int            `json:"mutations"`
	MaxStackHeight int            `json:"max_stack_height"`
	BoardHeight    int            `json:"board_height"`
	TopOut         string         `json:"top_out,omitempty"`
	Pieces         map[string]int `json:"pieces"` // spawns per piece letter
}

// Recorder is a read-only observer of kernel events.
type Recorder struct {
	mu sync.Mutex

	boardHeight int
	stackHeight func() int

	spawns *intmap.Map[uint64, int]
	sum    Summary

	combo          int
	lastLockClears bool
	awaitingClear  bool
}

// NewRecorder creates a recorder for a board of the given height.
// stackHeight is sampled after every lock and mutation; it may be nil.
func NewRecorder(boardHeight int, stackHeight func() int) *Recorder {
	r := &Recorder{boardHeight: boardHeight, stackHeight: stackHeight}
	r.Reset()
	return r
}

// Reset discards everything observed so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spawns == nil {
		r.spawns = intmap.New[uint64, int](len(core.Alphabet))
	} else {
		r.spawns.Clear()
	}
	r.sum = Summary{BoardHeight: r.boardHeight}
	r.combo = 0
	r.lastLockClears = false
	r.awaitingClear = false
}

// Attach subscribes the recorder to every event on the bus.
func (r *Recorder) Attach(bus *events.Bus) (detach func()) {
	return bus.Subscribe(events.All, r.Observe)
}

// Observe folds one event into the summary.
func (r *Recorder) Observe(e core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sum.Ticks = max(r.sum.Ticks, e.Tick)

	switch e.Kind {
	case core.EventPieceSpawned:
		n, _ := r.spawns.Get(uint64(e.Piece))
		r.spawns.Put(uint64(e.Piece), n+1)
	case core.EventPieceLocked:
		r.sum.PiecesLocked++
		if !r.lastLockClears {
			r.combo = 0
		}
		r.lastLockClears = false
		r.awaitingClear = true
		r.sampleStack()
	case core.EventLinesCleared:
		r.sum.LinesCleared += e.Lines
		if r.awaitingClear {
			r.sum.Clears[min(e.Lines, 4)]++
			r.combo++
			r.sum.MaxCombo = max(r.sum.MaxCombo, r.combo)
			r.lastLockClears = true
			r.awaitingClear = false
		}
	case core.EventHoldUsed:
		r.sum.Holds++
	case core.EventHardDrop:
		r.sum.HardDrops++
		r.sum.HardDropRows += e.Distance
	case core.EventBoardMutated:
		r.sum.Mutations++
		r.awaitingClear = false
		r.sampleStack()
	case core.EventTopOut:
		r.sum.TopOut = e.Reason
	}
}

func (r *Recorder) sampleStack() {
	if r.stackHeight != nil {
		r.sum.MaxStackHeight = max(r.sum.MaxStackHeight, r.stackHeight())
	}
}

// Summary returns a copy of the current report.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.sum
	s.Clears[0] = s.PiecesLocked - s.Clears[1] - s.Clears[2] - s.Clears[3] - s.Clears[4]
	s.Pieces = make(map[string]int, len(core.Alphabet))
	for _, p := range core.Alphabet {
		if n, ok := r.spawns.Get(uint64(p)); ok {
			s.Pieces[p.String()] = n
		}
	}
	return s
}

// Early top-out threshold in locked pieces.
const earlyTopOutPieces = 20

// Insights turns a summary into human-readable observations, most severe
// first. An uneventful run yields none.
func Insights(s Summary) []string {
	var out []string

	if s.BoardHeight > 0 && float64(s.MaxStackHeight) > 0.85*float64(s.BoardHeight) {
		out = append(out, fmt.Sprintf("Stack reached %d of %d rows: the run spent time near overflow.", s.MaxStackHeight, s.BoardHeight))
	}
	if s.TopOut != "" && s.PiecesLocked < earlyTopOutPieces {
		out = append(out, fmt.Sprintf("Early top-out after %d pieces (%s).", s.PiecesLocked, s.TopOut))
	}
	switch {
	case s.PiecesLocked > 0 && s.LinesCleared == 0:
		out = append(out, "No lines cleared.")
	case s.LinesCleared > 0 && s.Clears[2]+s.Clears[3]+s.Clears[4] == 0:
		out = append(out, "Only single-line clears; no multi-line clears.")
	}
	if s.Clears[4] > 0 {
		out = append(out, fmt.Sprintf("%d four-line clear(s).", s.Clears[4]))
	}
	if s.MaxCombo >= 3 {
		out = append(out, fmt.Sprintf("Longest clear streak: %d consecutive pieces.", s.MaxCombo))
	}
	if s.PiecesLocked >= earlyTopOutPieces && s.Holds == 0 {
		out = append(out, "Hold was never used.")
	}
	return out
}
