package blockfall

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformcore "github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
)

func newGame(t *testing.T, id string, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	g, err := registry.Create(id)
	require.NoError(t, err)
	game := g.(*Game)

	cfg := platformcore.DefaultConfig()
	cfg.Seed = seed
	game.Reset(cfg)
	require.NoError(t, game.Err())
	return game
}

func press(actions ...platformcore.Action) platformcore.InputFrame {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func release(actions ...platformcore.Action) platformcore.InputFrame {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Release(a)
	}
	return f
}

func TestRegisteredVariants(t *testing.T) {
	ids := map[string]string{}
	for _, info := range registry.List() {
		ids[info.ID] = info.Title
	}
	assert.Equal(t, "Blockfall", ids[IDClassic])
	assert.Equal(t, "Blockfall Hardcore", ids[IDHardcore])
}

func TestResetSelectsTier(t *testing.T) {
	classic := newGame(t, IDClassic, 1)
	assert.Equal(t, config.TierClassic, classic.Tier())
	assert.Equal(t, core.ClassicTiming(), classic.kernel.Timing())

	hardcore := newGame(t, IDHardcore, 1)
	assert.Equal(t, config.TierHardcore, hardcore.Tier())
	assert.Equal(t, core.HardcoreTiming(), hardcore.kernel.Timing())

	SetTier(config.TierHardcore)
	t.Cleanup(func() { SetTier("") })
	selected := newGame(t, IDClassic, 1)
	assert.Equal(t, config.TierHardcore, selected.Tier())
}

func TestFirstPieceAndPreview(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	snap := g.Snapshot()

	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, uint32(1), snap.Seed)
	require.NotNil(t, snap.Kernel.Active)
	assert.Equal(t, core.PieceZ, snap.Kernel.Active.Type)
	assert.Equal(t, []core.PieceType{core.PieceI, core.PieceT, core.PieceS, core.PieceL, core.PieceJ}, snap.Kernel.Next)
}

func TestHardDropScoresDistance(t *testing.T) {
	g := newGame(t, IDClassic, 1)

	res := g.Step(press(platformcore.ActionHardDrop))
	assert.Equal(t, 18, res.State.Score)
	assert.Equal(t, 1, res.State.Pieces)
	assert.Zero(t, res.State.Lines)
}

func TestHeldKeysReachKernelOnce(t *testing.T) {
	g := newGame(t, IDClassic, 1)

	g.Step(press(platformcore.ActionLeft))
	assert.Equal(t, -1, g.Snapshot().Kernel.Input.ActiveDirection)

	// Terminal key repeat re-sends the press; the kernel must not restart DAS.
	g.Step(press(platformcore.ActionLeft))
	assert.Equal(t, core.InputCharging, g.Snapshot().Kernel.Input.Phase)
	assert.Positive(t, g.Snapshot().Kernel.Input.DASTimerMs)

	g.Step(release(platformcore.ActionLeft))
	assert.Equal(t, core.InputIdle, g.Snapshot().Kernel.Input.Phase)

	log, ok := g.ReplayLog()
	require.True(t, ok)
	require.Len(t, log.Frames, 2)
	assert.Equal(t, []string{"left"}, log.Frames[0].Pressed)
	assert.Equal(t, []string{"left"}, log.Frames[1].Released)
}

func TestReleaseOfUnheldKeyIsDropped(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	g.Step(release(platformcore.ActionRight))

	log, _ := g.ReplayLog()
	assert.Empty(t, log.Frames)
	assert.Equal(t, uint64(1), log.Ticks)
}

func TestPauseFreezesKernelAndDefersRelease(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	g.Step(press(platformcore.ActionRight))
	tick := g.Snapshot().Kernel.Tick

	res := g.Step(press(platformcore.ActionPause))
	assert.True(t, res.State.Paused)
	g.Step(release(platformcore.ActionRight))
	g.Step(platformcore.NewInputFrame())
	assert.Equal(t, tick, g.Snapshot().Kernel.Tick)
	assert.Equal(t, StatePaused, g.Snapshot().State)

	res = g.Step(press(platformcore.ActionPause))
	assert.False(t, res.State.Paused)
	assert.Equal(t, tick+1, g.Snapshot().Kernel.Tick)
	assert.Equal(t, core.InputIdle, g.Snapshot().Kernel.Input.Phase)
}

func TestRunToTopOutReplaysExactly(t *testing.T) {
	g := newGame(t, IDClassic, 7)

	var topOuts, spawns int
	g.Bus().Subscribe(core.EventTopOut, func(core.Event) { topOuts++ })
	g.Bus().Subscribe(core.EventPieceSpawned, func(core.Event) { spawns++ })

	for i := 0; i < 500 && !g.State().GameOver; i++ {
		g.Step(press(platformcore.ActionHardDrop))
	}
	require.True(t, g.State().GameOver)
	assert.Equal(t, 1, topOuts)
	assert.Positive(t, spawns)

	log, ok := g.ReplayLog()
	require.True(t, ok)
	require.NotNil(t, log.Final)
	assert.NotEmpty(t, log.Final.TopOut)
	assert.Equal(t, "classic", log.Tier)

	got, err := replay.Verify(log)
	require.NoError(t, err)
	assert.Equal(t, *log.Final, got)

	summary := g.Summary()
	assert.Equal(t, g.State().Pieces, summary.PiecesLocked)
	assert.Equal(t, log.Final.TopOut, summary.TopOut)

	// Game over ignores input.
	before := g.Snapshot()
	g.Step(press(platformcore.ActionLeft))
	assert.Equal(t, before, g.Snapshot())
}

func TestBadTimingFileFailsReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timing.yaml")
	doc := strings.Replace(string(config.DefaultTimingYAML()), "  das_ms: 150\n", "", 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	SetTimingPath(path)
	t.Cleanup(func() { SetTimingPath("") })

	g := New(IDClassic, "Blockfall", "")
	g.Reset(platformcore.DefaultConfig())

	require.Error(t, g.Err())
	assert.ErrorIs(t, g.Err(), config.ErrMissingField)
	assert.True(t, g.State().GameOver)
	assert.Equal(t, StateError, g.Snapshot().State)

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Configuration error")
}

func TestRenderPanels(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	g.Step(press(platformcore.ActionHold))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, label := range []string{"HOLD", "NEXT", "SCORE", "LINES", "LOCK", "classic"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "░░", "ghost piece")

	l, ok := computeLayout(80, 24, 10, 20)
	require.True(t, ok)
	// The held Z is drawn gray because hold was used on this piece.
	assert.Equal(t, platformcore.ColorGray, screen.GetCell(l.hold.X+1, l.hold.Y+2).Color)
	assert.Equal(t, '█', screen.Get(l.hold.X+1, l.hold.Y+2))
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	screen := platformcore.NewScreen(30, 10)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Terminal too small")
}

func TestRenderOverlays(t *testing.T) {
	g := newGame(t, IDClassic, 1)
	g.Step(press(platformcore.ActionPause))

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")
}
