package blockfall

import (
	"fmt"
	"strconv"

	platformcore "github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// PieceColors is the palette used by Render and the spectator feed.
var PieceColors = map[core.PieceType]platformcore.Color{
	core.PieceI:       platformcore.ColorCyan,
	core.PieceO:       platformcore.ColorYellow,
	core.PieceT:       platformcore.ColorMagenta,
	core.PieceS:       platformcore.ColorGreen,
	core.PieceZ:       platformcore.ColorRed,
	core.PieceJ:       platformcore.ColorBlue,
	core.PieceL:       platformcore.ColorOrange,
	core.PieceGarbage: platformcore.ColorGray,
}

const (
	cellW      = 2 // terminal columns per board cell
	panelW     = 10
	holdPanelH = 6
	gap        = 1
)

// layout holds the screen positions of the panels.
type layout struct {
	hold, board, next platformcore.Rect
	statsY            int
}

func computeLayout(screenW, screenH, boardW, boardH int) (layout, bool) {
	bw := boardW*cellW + 2
	bh := boardH + 2
	totalW := panelW + gap + bw + gap + panelW
	if screenW < totalW || screenH < bh {
		return layout{}, false
	}
	x0 := (screenW - totalW) / 2
	y0 := (screenH - bh) / 2

	l := layout{
		hold:  platformcore.NewRect(x0, y0, panelW, holdPanelH),
		board: platformcore.NewRect(x0+panelW+gap, y0, bw, bh),
	}
	l.next = platformcore.NewRect(l.board.Right()+gap, y0, panelW, 3*core.PreviewSize+2)
	l.statsY = y0 + holdPanelH + 1
	return l, true
}

// Render draws the board, ghost, active piece, hold, preview and HUD.
func (g *Game) Render(dst *platformcore.Screen) {
	if g.err != nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Configuration error")
		dst.DrawTextCentered(dst.Height()/2+1, g.err.Error())
		return
	}
	if g.kernel == nil {
		return
	}

	snap := g.kernel.Snapshot()
	l, ok := computeLayout(dst.Width(), dst.Height(), snap.Board.Width, snap.Board.Height)
	if !ok {
		need := fmt.Sprintf("Need %dx%d", 2*panelW+2*gap+snap.Board.Width*cellW+2, snap.Board.Height+2)
		dst.DrawTextCentered(dst.Height()/2-1, "Terminal too small")
		dst.DrawTextCentered(dst.Height()/2+1, need)
		return
	}

	g.renderBoard(dst, l.board, snap)
	g.renderHold(dst, l.hold, snap)
	renderNext(dst, l.next, snap.Next)
	g.renderStats(dst, l, snap)
	g.renderOverlay(dst, l.board)
}

func (g *Game) renderBoard(dst *platformcore.Screen, r platformcore.Rect, snap core.Snapshot) {
	border := platformcore.ColorGray
	if snap.NearOverflow {
		border = platformcore.ColorBrightRed
	}
	dst.DrawBox(r, border)

	inner := r.Inset(1)
	for y := 0; y < snap.Board.Height; y++ {
		for x := 0; x < snap.Board.Width; x++ {
			if p := snap.Board.At(x, y); p != core.PieceNone {
				drawCell(dst, inner.X+x*cellW, inner.Y+y, '█', PieceColors[p])
			}
		}
	}

	if snap.Ghost != nil {
		for _, b := range snap.Ghost.Blocks {
			if b.Y >= 0 && snap.Board.At(b.X, b.Y) == core.PieceNone {
				drawCell(dst, inner.X+b.X*cellW, inner.Y+b.Y, '░', PieceColors[snap.Ghost.Type])
			}
		}
	}
	if snap.Active != nil {
		for _, b := range snap.Active.Blocks {
			if b.Y >= 0 {
				drawCell(dst, inner.X+b.X*cellW, inner.Y+b.Y, '█', PieceColors[snap.Active.Type])
			}
		}
	}
}

func (g *Game) renderHold(dst *platformcore.Screen, r platformcore.Rect, snap core.Snapshot) {
	dst.DrawBox(r, platformcore.ColorGray)
	dst.DrawText(r.X+2, r.Y, "HOLD")
	if snap.Hold == core.PieceNone {
		return
	}
	c := PieceColors[snap.Hold]
	if snap.HoldUsed {
		c = platformcore.ColorGray
	}
	drawMini(dst, r.X+1, r.Y+2, snap.Hold, c)
}

func renderNext(dst *platformcore.Screen, r platformcore.Rect, next []core.PieceType) {
	dst.DrawBox(r, platformcore.ColorGray)
	dst.DrawText(r.X+2, r.Y, "NEXT")
	for i, p := range next {
		drawMini(dst, r.X+1, r.Y+2+3*i, p, PieceColors[p])
	}
}

func (g *Game) renderStats(dst *platformcore.Screen, l layout, snap core.Snapshot) {
	rows := []struct{ label, value string }{
		{"SCORE", strconv.Itoa(g.score)},
		{"LINES", strconv.Itoa(snap.LinesCleared)},
		{"PIECES", strconv.Itoa(snap.PiecesLocked)},
		{"TIER", string(g.tier)},
		{"SEED", strconv.FormatUint(uint64(g.opts.Seed), 10)},
	}
	y := l.statsY
	for _, row := range rows {
		dst.DrawTextColored(l.hold.X, y, row.label, platformcore.ColorGray)
		dst.DrawText(l.hold.X, y+1, row.value)
		y += 2
	}

	// Lock-delay gauge under the preview.
	y = l.next.Bottom() + 1
	dst.DrawTextColored(l.next.X, y, "LOCK", platformcore.ColorGray)
	width := l.next.W - 2
	filled := 0
	if snap.Lock.Phase == core.Grounded {
		filled = int(snap.Lock.TimerMs / g.opts.Timing.LockDelayMs * float64(width))
		filled = platformcore.Clamp(filled, 0, width)
	}
	for i := 0; i < width; i++ {
		if i < filled {
			dst.SetCell(l.next.X+i, y+1, '▮', platformcore.ColorYellow)
		} else {
			dst.SetCell(l.next.X+i, y+1, '▯', platformcore.ColorGray)
		}
	}
}

func (g *Game) renderOverlay(dst *platformcore.Screen, board platformcore.Rect) {
	var lines []string
	switch {
	case g.gameOver:
		lines = []string{"GAME OVER", "R restart"}
	case g.paused:
		lines = []string{"PAUSED", "P resume"}
	default:
		return
	}
	y := board.Y + board.H/2 - len(lines)
	for i, text := range lines {
		x := board.X + (board.W-len(text))/2
		dst.DrawTextColored(x, y+2*i, text, platformcore.ColorBrightWhite)
	}
}

func drawCell(dst *platformcore.Screen, x, y int, r rune, c platformcore.Color) {
	for i := 0; i < cellW; i++ {
		dst.SetCell(x+i, y, r, c)
	}
}

// drawMini draws a piece in its spawn rotation with its bounding box at (x, y).
func drawMini(dst *platformcore.Screen, x, y int, p core.PieceType, c platformcore.Color) {
	shape := core.ShapeOf(p, 0)
	minX, minY := shape[0].X, shape[0].Y
	for _, o := range shape {
		minX = min(minX, o.X)
		minY = min(minY, o.Y)
	}
	for _, o := range shape {
		drawCell(dst, x+(o.X-minX)*cellW, y+(o.Y-minY), '█', c)
	}
}
