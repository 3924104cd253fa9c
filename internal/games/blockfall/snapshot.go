package blockfall

import "github.com/vovakirdan/blockfall/internal/games/blockfall/core"

// GameStateType represents the host-level state of a run.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
	StateError    GameStateType = "error"
)

// Snapshot is the host view of a run: the kernel snapshot plus scoring and
// run metadata. Spectators and tests consume it.
type Snapshot struct {
	ID     string
	Tier   string
	Seed   uint32
	Score  int
	State  GameStateType
	Kernel core.Snapshot
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:    g.id,
		Tier:  string(g.tier),
		Seed:  g.opts.Seed,
		Score: g.score,
		State: StatePlaying,
	}
	switch {
	case g.err != nil:
		s.State = StateError
	case g.gameOver:
		s.State = StateGameOver
	case g.paused:
		s.State = StatePaused
	}
	if g.kernel != nil {
		s.Kernel = g.kernel.Snapshot()
	}
	return s
}
