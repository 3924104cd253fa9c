package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/events"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
	"github.com/vovakirdan/blockfall/internal/telemetry"
)

var (
	flagExport  string
	flagVerbose bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id|file.yaml>",
	Short: "Re-simulate a recorded run",
	Long: `Re-run a recorded game headlessly from its seed and input log, print
the final board and check it against the recorded result.

The argument is a replay file or a (prefix of a) run ID from 'blockfall runs'.

Examples:
  blockfall replay 3f9c2a1b
  blockfall replay 3f9c2a1b --export run.yaml
  blockfall replay run.yaml -v`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagExport, "export", "", "Write the replay log to this file")
	replayCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every kernel event")
}

// loadReplay reads a replay file, or a stored run when no such file exists.
func loadReplay(arg string) (replay.Log, error) {
	if f, err := os.Open(arg); err == nil {
		defer f.Close()
		return replay.Decode(f)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return replay.Log{}, err
	}
	defer store.Close()

	run, err := store.RunByID(arg)
	if err != nil {
		return replay.Log{}, err
	}
	if run == nil {
		return replay.Log{}, fmt.Errorf("no replay file or run %q", arg)
	}
	if len(run.Replay) == 0 {
		return replay.Log{}, fmt.Errorf("run %s has no replay data", run.ShortID())
	}
	return replay.Unmarshal(run.Replay)
}

func runReplay(cmd *cobra.Command, args []string) {
	l, err := loadReplay(args[0])
	if err != nil {
		fail("%v", err)
	}

	if flagExport != "" {
		data, err := replay.Marshal(l)
		if err != nil {
			fail("%v", err)
		}
		if err := os.WriteFile(flagExport, data, 0o644); err != nil {
			fail("writing %s: %v", flagExport, err)
		}
		fmt.Printf("Wrote %s\n", flagExport)
	}

	var out io.Writer = io.Discard
	if flagVerbose {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{Prefix: "replay", Level: log.DebugLevel})

	bus := events.NewBus(logger)
	rec := telemetry.NewRecorder(l.Height, nil)
	rec.Attach(bus)
	bus.Subscribe(events.All, func(e core.Event) {
		logger.Debug(string(e.Kind), "tick", e.Tick, "piece", e.Piece.String(), "lines", e.Lines)
	})

	if _, err := replay.SimulateWith(l, bus.Publish); err != nil {
		fail("%v", err)
	}
	final, verr := replay.Verify(l)
	if verr != nil && !errors.Is(verr, replay.ErrMismatch) {
		fail("%v", verr)
	}

	fmt.Printf("Seed %d, tier %s, %dx%d, %d ticks (%d input frames)\n\n",
		l.Seed, l.Tier, l.Width, l.Height, l.Ticks, len(l.Frames))
	for _, row := range final.Board {
		fmt.Printf("  |%s|\n", row)
	}
	fmt.Println()

	s := rec.Summary()
	fmt.Printf("Pieces: %d  Lines: %d  Holds: %d  Hard drops: %d\n",
		s.PiecesLocked, s.LinesCleared, s.Holds, s.HardDrops)
	if s.TopOut != "" {
		fmt.Printf("Ended: %s\n", s.TopOut)
	}
	for _, insight := range telemetry.Insights(s) {
		fmt.Printf("  - %s\n", insight)
	}
	fmt.Println()

	switch {
	case l.Final == nil:
		fmt.Println("No recorded result to compare against.")
	case verr != nil:
		fmt.Printf("MISMATCH: %v\n", verr)
		os.Exit(2)
	default:
		fmt.Println("Replay matches the recorded result.")
	}
}
