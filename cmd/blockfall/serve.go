package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/spectate"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeGame   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server where every connection plays its own run.
Scores and runs are stored per-server (all users share the same leaderboard).

With --spectate, every live session is also streamed as JSON frames over a
WebSocket at ws://<addr>/ws; GET /sessions lists the current frames.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.blockfall/host_key

Examples:
  blockfall serve                         # Listen on :23234
  blockfall serve --ssh :2222 --spectate :8080
  blockfall serve --game blockfall_hardcore

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeGame, "game", blockfall.IDClassic, "Game variant served to every session")
	serveCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a spectator feed on this address (host:port)")
	serveCmd.Flags().StringVar(&flagTier, "tier", "", "Timing tier: classic, hardcore")
	serveCmd.Flags().StringVar(&flagTiming, "timing", "", "Path to custom timing YAML")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
	})

	if err := selectTier(); err != nil {
		fail("%v", err)
	}
	if _, source, err := config.LoadTiming(flagTiming); err != nil {
		fail("%v", err)
	} else {
		logger.Info("timing loaded", "source", source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.GameID = flagServeGame
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute

	spectateErr := make(chan error, 1)
	if flagSpectate != "" {
		hub := spectate.NewHub(logger.WithPrefix("spectate"))
		cfg.Spectator = hub
		go func() {
			spectateErr <- hub.ListenAndServe(ctx, flagSpectate)
		}()
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fail("creating server: %v", err)
	}

	logger.Info("press Ctrl+C to stop", "connect", "ssh localhost -p <port>")

	go func() {
		if err := <-spectateErr; err != nil {
			logger.Error("spectator feed stopped", "error", err)
			stop()
		}
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		fail("server: %v", err)
	}
}
