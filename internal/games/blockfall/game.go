// Package blockfall registers the falling-block game variants. It adapts
// the simulation kernel to the registry Game interface: key edges go in,
// scored ticks come out, every kernel event is published on a bus and the
// input stream is recorded for replay.
package blockfall

import (
	"fmt"

	platformcore "github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/events"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/telemetry"
)

// Game IDs. The hardcore variant pins the hardcore tier.
const (
	IDClassic  = "blockfall"
	IDHardcore = "blockfall_hardcore"
)

// lineScores is indexed by rows cleared in one lock.
var lineScores = [...]int{0, 100, 300, 500, 800}

// actionKeys maps platform actions to kernel keys.
var actionKeys = map[platformcore.Action]core.Key{
	platformcore.ActionLeft:      core.KeyLeft,
	platformcore.ActionRight:     core.KeyRight,
	platformcore.ActionSoftDrop:  core.KeySoftDrop,
	platformcore.ActionRotateCW:  core.KeyRotateCW,
	platformcore.ActionRotateCCW: core.KeyRotateCCW,
	platformcore.ActionHold:      core.KeyHold,
	platformcore.ActionHardDrop:  core.KeyHardDrop,
}

// levelKeys are held keys whose release the kernel must see.
var levelKeys = map[core.Key]bool{
	core.KeyLeft:     true,
	core.KeyRight:    true,
	core.KeySoftDrop: true,
}

// Package-level variables for configuration
var (
	timingPath   string
	selectedTier config.Tier
)

// SetTimingPath sets the timing.yaml override used by subsequent Resets.
func SetTimingPath(path string) {
	timingPath = path
}

// SetTier selects the tier for the classic game ID. The hardcore ID ignores it.
func SetTier(t config.Tier) {
	selectedTier = t
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New(IDClassic, "Blockfall", "")
	})
	registry.Register(IDHardcore, func() registry.Game {
		return New(IDHardcore, "Blockfall Hardcore", config.TierHardcore)
	})
}

// Game hosts one kernel run at a time.
type Game struct {
	id       string
	title    string
	pinned   config.Tier
	tier     config.Tier
	cfg      platformcore.RuntimeConfig
	opts     core.Options
	deltaMs  float64
	kernel   *core.Kernel
	bus      *events.Bus
	detach   func()
	stats    *telemetry.Recorder
	recorder *replay.Recorder
	final    *replay.Log
	err      error

	held           map[core.Key]bool
	pendingRelease []core.Key

	score    int
	paused   bool
	gameOver bool
}

// New creates a game. pinned forces a tier; empty means the package-level
// selection (classic by default).
func New(id, title string, pinned config.Tier) *Game {
	return &Game{
		id:     id,
		title:  title,
		pinned: pinned,
		bus:    events.NewBus(nil),
		held:   make(map[core.Key]bool),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Bus returns the bus kernel events are published on. Subscriptions
// survive Reset.
func (g *Game) Bus() *events.Bus { return g.bus }

// Tier returns the tier of the current run.
func (g *Game) Tier() config.Tier { return g.tier }

// Seed returns the kernel seed of the current run.
func (g *Game) Seed() uint32 { return g.opts.Seed }

// Err returns the configuration error that prevented the last Reset, if any.
func (g *Game) Err() error { return g.err }

// Reset loads the timing tier and starts a new run.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.cfg = cfg
	g.err = nil
	g.score = 0
	g.paused = false
	g.gameOver = false
	g.final = nil
	clear(g.held)
	g.pendingRelease = nil

	g.tier = g.pinned
	if g.tier == "" {
		g.tier = selectedTier
	}
	if g.tier == "" {
		g.tier = config.TierClassic
	}

	timing, err := loadTiming(g.tier)
	if err != nil {
		g.fail(err)
		return
	}

	g.opts = core.Options{
		Width:  core.DefaultWidth,
		Height: core.DefaultHeight,
		Seed:   uint32(uint64(cfg.Seed)),
		Timing: timing,
	}
	g.deltaMs = cfg.TickDeltaMs()

	k, err := core.New(g.opts)
	if err != nil {
		g.fail(err)
		return
	}
	g.kernel = k
	g.recorder = replay.NewRecorder(g.opts, string(g.tier), g.deltaMs)

	if g.detach != nil {
		g.detach()
	}
	g.stats = telemetry.NewRecorder(k.Height(), k.StackHeight)
	g.detach = g.stats.Attach(g.bus)

	// The first spawn happens inside core.New.
	g.bus.PublishAll(k.DrainEvents())
	if k.GameOver() {
		g.finish()
	}
}

func loadTiming(t config.Tier) (core.TimingModel, error) {
	file, _, err := config.LoadTiming(timingPath)
	if err != nil {
		return core.TimingModel{}, err
	}
	return file.Model(t)
}

func (g *Game) fail(err error) {
	g.err = fmt.Errorf("blockfall: %w", err)
	g.kernel = nil
	g.gameOver = true
}

// Step advances the kernel by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.gameOver {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		g.deferReleases(in)
		return platformcore.StepResult{State: g.State()}
	}

	kin := g.translate(in)
	res := g.kernel.Update(g.deltaMs, kin)
	g.recorder.Record(g.kernel.Tick(), g.deltaMs, kin)

	for _, e := range res.Events {
		switch e.Kind {
		case core.EventLinesCleared:
			g.score += lineScores[min(e.Lines, len(lineScores)-1)]
		case core.EventHardDrop:
			g.score += e.Distance
		}
	}
	g.bus.PublishAll(res.Events)

	if res.ToppedOut {
		g.finish()
	}
	return platformcore.StepResult{State: g.State()}
}

// deferReleases keeps key-up edges that arrive while paused so the kernel
// does not keep auto-shifting after resume.
func (g *Game) deferReleases(in platformcore.InputFrame) {
	for _, a := range in.ReleasedActions() {
		if k, ok := actionKeys[a]; ok && g.held[k] {
			delete(g.held, k)
			g.pendingRelease = append(g.pendingRelease, k)
		}
	}
}

// translate turns platform edges into kernel input. Releases are only
// forwarded for keys the kernel saw go down.
func (g *Game) translate(in platformcore.InputFrame) core.Input {
	var kin core.Input
	kin.Released = append(kin.Released, g.pendingRelease...)
	g.pendingRelease = nil

	for _, a := range in.ReleasedActions() {
		if k, ok := actionKeys[a]; ok && g.held[k] {
			delete(g.held, k)
			kin.Released = append(kin.Released, k)
		}
	}
	for _, a := range in.PressedActions() {
		k, ok := actionKeys[a]
		if !ok {
			continue
		}
		if levelKeys[k] {
			if g.held[k] {
				continue
			}
			g.held[k] = true
		}
		kin.Pressed = append(kin.Pressed, k)
	}
	return kin
}

func (g *Game) finish() {
	g.gameOver = true
	if g.recorder != nil && g.kernel != nil {
		l := g.recorder.Finish(g.kernel.Snapshot())
		g.final = &l
	}
}

// ReplayLog returns the replay of the current run. The log is sealed with
// the final state once the run is over.
func (g *Game) ReplayLog() (replay.Log, bool) {
	if g.final != nil {
		return *g.final, true
	}
	if g.recorder == nil || g.kernel == nil {
		return replay.Log{}, false
	}
	return g.recorder.Finish(g.kernel.Snapshot()), true
}

// Summary returns telemetry for the current run.
func (g *Game) Summary() telemetry.Summary {
	if g.stats == nil {
		return telemetry.Summary{}
	}
	return g.stats.Summary()
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
	if g.kernel != nil {
		st.Lines = g.kernel.LinesCleared()
		st.Pieces = g.kernel.PiecesLocked()
	}
	return st
}
