package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsGame  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `List the most recent runs, newest first. Any unique prefix of a run ID
can be passed to 'blockfall replay'.

Examples:
  blockfall runs
  blockfall runs --limit 5 --game blockfall_hardcore`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Maximum number of runs to show")
	runsCmd.Flags().StringVar(&flagRunsGame, "game", "", "Only show runs of this game")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(flagRunsGame, flagRunsLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	const format = "  %-8s  %-18s  %-8s  %10s  %7s  %6s  %5s  %-13s  %s\n"
	fmt.Printf(format, "Run", "Game", "Tier", "Seed", "Score", "Pieces", "Lines", "End", "Date")
	fmt.Printf(format, "---", "----", "----", "----", "-----", "------", "-----", "---", "----")
	for _, r := range runs {
		end := r.TopOut
		if end == "" {
			end = "-"
		}
		fmt.Printf("  %-8s  %-18s  %-8s  %10d  %7d  %6d  %5d  %-13s  %s\n",
			r.ShortID(), r.GameID, r.Tier, r.Seed, r.Score, r.Pieces, r.Lines, end,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
