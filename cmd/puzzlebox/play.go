package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/platform/tui"
	"github.com/vovakirdan/puzzlebox/internal/registry"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Arrows/WASD/HJKL - Move
  P                - Pause
  R                - Restart (new 2048 game when over, Sokoban level any time)
  Enter/Space      - Next Sokoban level after solving one
  Esc/B            - Leave the game
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Sokoban opens a level selector unless --level is given.

Examples:
  puzzlebox play 2048
  puzzlebox play 2048 --seed 42
  puzzlebox play sokoban
  puzzlebox play sokoban --level 3`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Sokoban level to start on (1-indexed)")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'puzzlebox list' to see available games.")
		os.Exit(1)
	}

	cfg := terminalConfig()
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if gameID == sokoban.GameID {
		level := flagLevel
		if level == 0 {
			chosen, err := tui.RunLevelSelector(store, cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if chosen == 0 {
				return // Back or quit
			}
			level = chosen
		}
		if level < 1 || level > sokoban.LevelCount() {
			fmt.Fprintf(os.Stderr, "Error: level %d out of range 1-%d\n", level, sokoban.LevelCount())
			os.Exit(1)
		}
		sokoban.SetStartLevel(level)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	if _, err := tui.Run(game, store, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
