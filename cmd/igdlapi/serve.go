package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"igdlapi/pkg/config"
	"igdlapi/pkg/downloader"
	"igdlapi/pkg/extractor"
	"igdlapi/pkg/logger"
	"igdlapi/pkg/ratelimit"
	"igdlapi/pkg/server"
	"igdlapi/pkg/snapdl"
	"igdlapi/pkg/storage"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the downloader API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if serveHost != "" {
		flags["host"] = serveHost
	}
	if servePort > 0 {
		flags["port"] = servePort
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	client := snapdl.NewClient(cfg.Upstream.Timeout, cfg.Upstream.Referer, log)
	service := downloader.New(client, extractor.New(), &cfg.Upstream, log)
	limiter := ratelimit.NewFixedWindow(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	spool, err := storage.NewSpool(cfg.Proxy.SpoolDir)
	if err != nil {
		return fmt.Errorf("failed to create proxy spool: %w", err)
	}

	srv := server.New(cfg, service, limiter, spool, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
