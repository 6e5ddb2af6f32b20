// puzzlebox plays 2048 and Sokoban in the terminal, over SSH, in the
// browser or through MCP tools.
//
// Usage:
//
//	puzzlebox list              - List available games
//	puzzlebox play <game>       - Play a game
//	puzzlebox menu              - Start menu to pick games interactively
//	puzzlebox scores <game>     - Show high scores or level progress
//	puzzlebox serve             - Start SSH server for remote play
//	puzzlebox web               - Start the browser JSON/WebSocket API
//	puzzlebox mcp               - Serve MCP tools over stdio
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible tile spawns
//	--db <path>         - Set database path (default: ~/.puzzlebox/scores.db)
//	--config <path>     - Load settings from a YAML file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/puzzlebox/internal/config"
	"github.com/vovakirdan/puzzlebox/internal/core"
	"github.com/vovakirdan/puzzlebox/internal/games/sokoban"
	"github.com/vovakirdan/puzzlebox/internal/games/t2048"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var version = "dev"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfigPath string
	flagLogLevel   string

	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "puzzlebox",
	Short:   "Puzzlebox - 2048 and Sokoban for your terminal",
	Version: version,
	Long: `Puzzlebox is a small collection of grid puzzles: the 2048 sliding-tile
game and Sokoban. Play locally, host an SSH server, serve a browser API or
let an agent play through MCP.

Examples:
  puzzlebox list
  puzzlebox play 2048
  puzzlebox play sokoban --level 2
  puzzlebox menu
  puzzlebox serve --ssh :2222
  puzzlebox web --addr :8080
  puzzlebox scores 2048`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (input polls per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.puzzlebox/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to a config YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
}

// setup loads configuration and applies it to the games before any
// command runs.
func setup(_ *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "puzzlebox",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(level)

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg

	t2048.Configure(cfg.T2048)
	if err := sokoban.Configure(cfg.Sokoban); err != nil {
		return err
	}

	logger.Debug("configuration loaded",
		"win_value", cfg.T2048.WinValue,
		"spawn4", cfg.T2048.Spawn4,
		"levels", sokoban.LevelCount(),
	)
	return nil
}

// terminalConfig builds the runtime config from the current terminal size.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the scores database. Interactive commands keep going
// without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, progress will not be saved", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// port extracts the port from a listen address, falling back to the
// address itself.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return addr
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
