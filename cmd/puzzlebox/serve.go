package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/puzzlebox/internal/platform/tui"
	"github.com/vovakirdan/puzzlebox/internal/platform/web"
	"github.com/vovakirdan/puzzlebox/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeWeb    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the puzzlebox SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the game picker menu.
Scores and Sokoban progress are stored per server, so all players share
one leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.puzzlebox/host_key

Examples:
  puzzlebox serve                           # Listen on :23234 with auto-generated key
  puzzlebox serve --ssh :2222               # Listen on port 2222
  puzzlebox serve --host-key ./my_host_key  # Use specific host key
  puzzlebox serve --web :8080               # Also serve the browser API

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config)")
	serveCmd.Flags().StringVar(&flagServeWeb, "web", "", "Also serve the browser API on this address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	sshCfg := appConfig.SSH
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		sshCfg.IdleTimeout = minutes(flagIdleTimeout)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	sshServer, err := tui.NewSSHServer(sshCfg, store, flagFPS, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("create SSH server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sshServer.ListenAndServe(ctx)
	})

	if flagServeWeb != "" {
		webCfg := appConfig.Web
		webCfg.Address = flagServeWeb
		webServer := web.NewServer(webCfg, store, logger.WithPrefix("web"))
		g.Go(func() error {
			return webServer.ListenAndServe(ctx)
		})
	}

	fmt.Printf("Starting puzzlebox SSH server on %s\n", sshCfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(sshCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return g.Wait()
}
