package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/spectate"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagTiming   string
	flagTier     string
	flagLevel    int
	flagSpectate string
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start a run of the given variant (default: blockfall).

Controls:
  Left/Right, A/D, H/L  - Move
  Down, S, J            - Soft drop
  Up, X, W              - Rotate clockwise
  Z                     - Rotate counter-clockwise
  C                     - Hold
  Space                 - Hard drop
  P/Esc                 - Pause
  R                     - Restart (after game over)
  Ctrl+Y                - Copy seed and board to the clipboard
  Ctrl+S                - Save a screenshot
  Q/Ctrl+C              - Quit

Tiers:
  classic   - DAS 150ms, ARR 30ms, 500ms lock delay
  hardcore  - strict DAS 120ms, instant ARR, 300ms lock delay

Examples:
  blockfall play
  blockfall play --tier hardcore
  blockfall play --level 4
  blockfall play --timing ./my-timing.yaml --seed 7
  blockfall play --spectate :8080`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagTiming, "timing", "", "Path to custom timing YAML")
	playCmd.Flags().StringVar(&flagTier, "tier", "", "Timing tier: classic, hardcore")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Difficulty level 1-4 (4 = hardcore); overrides --tier")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a spectator feed on this address (host:port)")
}

// selectTier applies --tier/--level to the blockfall package.
func selectTier() error {
	tier, err := config.TierByName(flagTier)
	if err != nil {
		return err
	}
	if flagLevel > 0 {
		tier = config.ResolveTier(flagLevel)
	}
	blockfall.SetTier(tier)
	blockfall.SetTimingPath(flagTiming)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := blockfall.IDClassic
	if len(args) > 0 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		fail("unknown game %q (run 'blockfall list')", gameID)
	}
	if err := selectTier(); err != nil {
		fail("%v", err)
	}

	// Fail before entering the alternate screen.
	if _, _, err := config.LoadTiming(flagTiming); err != nil {
		fail("%v", err)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fail("creating game: %v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	var opts []tui.Option
	ctx, cancel := context.WithCancel(context.Background())
	if flagSpectate != "" {
		// The TUI owns the terminal; the feed logs nowhere while playing.
		hub := spectate.NewHub(log.New(io.Discard))
		go func() {
			if err := hub.ListenAndServe(ctx, flagSpectate); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: spectator feed stopped: %v\n", err)
			}
		}()
		opts = append(opts, tui.WithObserver(hub.Observer("local", 2)))
	}

	runErr := tui.Run(game, store, cfg, opts...)
	cancel()

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
