package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/puzzlebox/internal/platform/web"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser JSON/WebSocket API",
	Long: `Serve games over HTTP. Clients create a session, post moves and
receive state pushes on a WebSocket.

Endpoints:
  GET    /api/games
  POST   /api/sessions                  {"game":"2048"} or {"game":"sokoban","level":2}
  GET    /api/sessions/{id}
  DELETE /api/sessions/{id}
  POST   /api/sessions/{id}/move        {"direction":"left"} or {"action":"next"}
  POST   /api/sessions/{id}/reset
  GET    /api/scores/{game}?limit=10
  GET    /ws?session={id}

Examples:
  puzzlebox web
  puzzlebox web --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (default from config, :8080)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	cfg := appConfig.Web
	if flagWebAddr != "" {
		cfg.Address = flagWebAddr
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving puzzlebox API on http://localhost:%s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return web.NewServer(cfg, store, logger.WithPrefix("web")).ListenAndServe(ctx)
}
