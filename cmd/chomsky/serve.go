package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/internal/presentation/tui"
	httpAdapter "github.com/aretw0/chomsky/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Exposes conversion, generation and CNF checking as a JSON API over HTTP.
The API is described by GET /openapi.yaml and metrics are served on GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}

		metrics, reg := cli.NewMetrics()
		opts := engineOptions(cmd, cfg, logger)
		opts.Metrics = metrics

		engine, closer, err := newEngine(opts)
		if err != nil {
			return err
		}
		defer closer.Close()

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithDefaults(cfg.MaxLength, cfg.MaxWords),
			httpAdapter.WithLimits(cfg.Limits.MaxLength, cfg.Limits.MaxWords),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		if cli.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr)
		}
		go func() {
			logger.Warn("Starting Chomsky Server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}

		case <-sigCtx.Done():
			logger.Warn("Start shutdown", "signal", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "error", err)
				}
			}
			logger.Warn("Chomsky Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (default from config)")
}
