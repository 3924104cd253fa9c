// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list               - List available game variants
//	blockfall play [game]        - Play (default: blockfall)
//	blockfall scores [game]      - Show high scores (interactive without a game)
//	blockfall runs               - List recorded runs
//	blockfall replay <run|file>  - Re-simulate a recorded run
//	blockfall timing             - Show the timing tiers in effect
//	blockfall serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.blockfall/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/blockfall"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - a falling-block puzzle in your terminal",
	Long: `Blockfall is a deterministic falling-block puzzle game with a
7-bag randomizer, SRS rotation, DAS/ARR input timing and lock delay.

Every run is recorded and can be replayed bit-for-bit from its seed and
input log.

Examples:
  blockfall play
  blockfall play blockfall_hardcore
  blockfall play --tier hardcore --seed 42
  blockfall runs
  blockfall replay 3f9c2a1b
  blockfall serve --ssh :2222 --spectate :8080`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blockfall/scores.db", "Path to scores database")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(timingCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
