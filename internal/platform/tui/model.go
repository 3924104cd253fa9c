package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/telemetry"
)

// statusTicks is how long a status message stays on screen.
const statusTicks = 120

// recordedGame is implemented by games that keep a replay log and telemetry.
type recordedGame interface {
	ReplayLog() (replay.Log, bool)
	Summary() telemetry.Summary
}

// Option configures a Model.
type Option func(*Model)

// WithObserver registers a function called after every simulation tick.
func WithObserver(fn func(registry.Game)) Option {
	return func(m *Model) {
		m.observers = append(m.observers, fn)
	}
}

// WithoutClipboard disables clipboard copies, e.g. for remote sessions
// where the clipboard belongs to the server.
func WithoutClipboard() Option {
	return func(m *Model) {
		m.clipboard = false
	}
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       *KeyMapper
	held       *heldKeys
	inputFrame core.InputFrame
	gameState  core.GameState
	observers  []func(registry.Game)
	clipboard  bool
	now        func() time.Time

	status     string
	statusLeft int
	insights   []string
	runID      string
	quitting   bool
	scoreSaved bool // Whether the run has been stored for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		keys:       NewKeyMapper(),
		held:       newHeldKeys(),
		inputFrame: core.NewInputFrame(),
		clipboard:  true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		m.step()
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "ctrl+y":
		m.copyRun()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case action == core.ActionNone:
	case action == core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case isLevelAction(action):
		for _, a := range m.held.press(action, m.now()) {
			m.inputFrame.Release(a)
		}
		m.inputFrame.Set(action)
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// step runs one simulation tick.
func (m *Model) step() {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.restart()
		return
	}

	for _, a := range m.held.expire(m.now()) {
		m.inputFrame.Release(a)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.finishRun()
		m.scoreSaved = true
	}

	for _, fn := range m.observers {
		fn(m.game)
	}

	m.inputFrame.Clear()

	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			m.status = ""
		}
	}
}

func (m *Model) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.held.reset()
	m.inputFrame.Clear()
	m.scoreSaved = false
	m.insights = nil
	m.runID = ""
}

// finishRun stores the score and replay of a finished run and collects
// its post-run insights.
func (m *Model) finishRun() {
	rg, recorded := m.game.(recordedGame)
	if recorded {
		m.insights = telemetry.Insights(rg.Summary())
	}

	if m.store == nil {
		return
	}
	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
			m.setStatus("score not saved: " + err.Error())
		}
	}
	if !recorded {
		return
	}

	l, ok := rg.ReplayLog()
	if !ok || l.Final == nil {
		return
	}
	data, err := replay.Marshal(l)
	if err != nil {
		m.setStatus("replay not encoded: " + err.Error())
		return
	}
	id, err := m.store.SaveRun(storage.Run{
		GameID: m.game.ID(),
		Seed:   l.Seed,
		Tier:   l.Tier,
		Score:  m.gameState.Score,
		Lines:  l.Final.LinesCleared,
		Pieces: l.Final.PiecesLocked,
		Ticks:  l.Final.Tick,
		TopOut: l.Final.TopOut,
		Replay: data,
	})
	if err != nil {
		m.setStatus("run not saved: " + err.Error())
		return
	}
	m.runID = id
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusLeft = statusTicks
}

// runText describes the current run as plain text: seed, tier and board.
func (m *Model) runText() string {
	rg, ok := m.game.(recordedGame)
	if !ok {
		m.game.Render(m.screen)
		return m.screen.String()
	}
	l, ok := rg.ReplayLog()
	if !ok || l.Final == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s seed=%d tier=%s lines=%d pieces=%d\n",
		m.game.ID(), l.Seed, l.Tier, l.Final.LinesCleared, l.Final.PiecesLocked)
	for _, row := range l.Final.Board {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}

// copyRun puts the run description on the system clipboard.
func (m *Model) copyRun() {
	if !m.clipboard {
		m.setStatus("clipboard unavailable in this session")
		return
	}
	text := m.runText()
	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus("copy failed: " + err.Error())
		return
	}
	m.setStatus("run copied to clipboard")
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".blockfall", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.setStatus("screenshot failed: " + err.Error())
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.setStatus("screenshot failed: " + err.Error())
		return
	}
	m.setStatus("saved " + path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	m.drawFooter()
	return RenderScreen(m.screen)
}

// drawFooter writes post-run insights and the status line along the
// bottom of the screen.
func (m Model) drawFooter() {
	h := m.screen.Height()
	y := h - 1
	if m.status != "" {
		m.screen.DrawTextColored(0, y, m.status, core.ColorYellow)
		y--
	}
	if !m.gameState.GameOver {
		return
	}
	if m.runID != "" {
		m.screen.DrawTextColored(0, y, "run "+storage.Run{ID: m.runID}.ShortID()+" saved  (r) restart  (q) quit", core.ColorGray)
		y--
	}
	for i := len(m.insights) - 1; i >= 0 && y >= 0; i-- {
		m.screen.DrawTextColored(0, y, m.insights[i], core.ColorCyan)
		y--
	}
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
