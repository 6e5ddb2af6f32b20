package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/registry"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var (
	flagScoresLimit int
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores or level progress",
	Long: `Display the top scores for 2048, or the solved levels for Sokoban.

Examples:
  puzzlebox scores 2048
  puzzlebox scores 2048 --limit 20
  puzzlebox scores sokoban
  puzzlebox scores sokoban --clear   # forget solved levels`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored scores or progress for the game")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'puzzlebox list' to see available games.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if gameID == sokoban.GameID {
			err = store.ResetProgress()
		} else {
			err = store.ClearScores(gameID)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared stored results for %s.\n", gameID)
		return
	}

	if gameID == sokoban.GameID {
		err = printProgress(store)
	} else {
		err = printScores(store, gameID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", gameID)

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'puzzlebox play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  |  Games: %d  |  Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	return nil
}

func printProgress(store *storage.Store) error {
	levels, err := store.CompletedLevels()
	if err != nil {
		return err
	}
	solved := make(map[int]bool, len(levels))
	for _, l := range levels {
		solved[l] = true
	}

	names := sokoban.LevelNames()
	fmt.Printf("Sokoban - %d of %d levels solved\n\n", len(levels), len(names))
	for i, name := range names {
		mark := " "
		if solved[i+1] {
			mark = "✓"
		}
		fmt.Printf("  %s %2d. %s\n", mark, i+1, name)
	}
	return nil
}
