package spectate

import (
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// Piece is a piece pose in board coordinates.
type Piece struct {
	Type  string   `json:"type"`
	Cells [][2]int `json:"cells"`
}

// Frame is the JSON message sent to spectators for one session.
type Frame struct {
	Session      string   `json:"session"`
	Game         string   `json:"game"`
	Tier         string   `json:"tier"`
	Seed         uint32   `json:"seed"`
	State        string   `json:"state"`
	Tick         uint64   `json:"tick"`
	Score        int      `json:"score"`
	Lines        int      `json:"lines"`
	Pieces       int      `json:"pieces"`
	Board        []string `json:"board"`
	Active       *Piece   `json:"active,omitempty"`
	Ghost        *Piece   `json:"ghost,omitempty"`
	Hold         string   `json:"hold,omitempty"`
	HoldUsed     bool     `json:"hold_used,omitempty"`
	Next         []string `json:"next"`
	NearOverflow bool     `json:"near_overflow,omitempty"`
	TopOut       string   `json:"top_out,omitempty"`
}

func pieceFrame(p *core.PieceSnapshot) *Piece {
	if p == nil {
		return nil
	}
	out := &Piece{Type: p.Type.String(), Cells: make([][2]int, len(p.Blocks))}
	for i, b := range p.Blocks {
		out.Cells[i] = [2]int{b.X, b.Y}
	}
	return out
}

// NewFrame converts a game snapshot into a spectator frame.
func NewFrame(session string, s blockfall.Snapshot) Frame {
	k := s.Kernel
	f := Frame{
		Session:      session,
		Game:         s.ID,
		Tier:         s.Tier,
		Seed:         s.Seed,
		State:        string(s.State),
		Tick:         k.Tick,
		Score:        s.Score,
		Lines:        k.LinesCleared,
		Pieces:       k.PiecesLocked,
		Board:        replay.BoardRows(k.Board),
		Active:       pieceFrame(k.Active),
		Ghost:        pieceFrame(k.Ghost),
		HoldUsed:     k.HoldUsed,
		Next:         make([]string, len(k.Next)),
		NearOverflow: k.NearOverflow,
		TopOut:       k.TopOutReason,
	}
	if k.Hold != core.PieceNone {
		f.Hold = k.Hold.String()
	}
	for i, p := range k.Next {
		f.Next[i] = p.String()
	}
	return f
}
