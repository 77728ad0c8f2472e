package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jward/lignin"
	"github.com/jward/lignin/internal/api"
	"github.com/jward/lignin/internal/config"
	"github.com/jward/lignin/internal/logging"
)

var (
	flagAddr      string
	flagConfigDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	Long:  "Serves the analysis API: POST /analyze/file, POST /analyze/archive, POST /analyze/code, and GET /health. Configuration comes from lignin.yaml and LIGNIN_* environment variables; flags override both.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagConfigDir, "config-dir", ".", "directory containing lignin.yaml")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	logger := logging.New(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.Level(cfg.Logging.Level),
	})

	engine := lignin.New(
		lignin.WithParallel(cfg.Analyzer.Parallel),
		lignin.WithWorkers(cfg.Analyzer.Workers),
	)

	server := api.NewServer(cfg.Server, engine, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
