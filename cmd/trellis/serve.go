package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groblegark/trellis/internal/blob"
	"github.com/groblegark/trellis/internal/config"
	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/server"
	"github.com/groblegark/trellis/internal/store/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the trellis HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (TRELLIS_NATS_URL not set)")
		}

		// Create screenshot storage when a bucket is configured.
		var screenshots blob.Store
		if cfg.ScreenshotS3Bucket != "" {
			s3Store, err := blob.NewS3Store(
				context.Background(),
				cfg.ScreenshotS3Bucket,
				cfg.ScreenshotS3Prefix,
				cfg.ScreenshotS3Region,
				cfg.ScreenshotS3Endpoint,
			)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			screenshots = s3Store
			logger.Info("screenshot storage enabled", "bucket", cfg.ScreenshotS3Bucket)
		} else {
			logger.Info("screenshot storage disabled (TRELLIS_SCREENSHOT_S3_BUCKET not set)")
		}

		// Create server components.
		workspaceServer := server.NewWorkspaceServer(store, publisher, screenshots)
		handler := server.LoggingMiddleware(server.RecoveryMiddleware(workspaceServer.NewHTTPHandler(cfg.AuthToken)))

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: handler,
		}

		// Run until SIGINT or SIGTERM, then shut down gracefully.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", "err", err)
			}
			logger.Info("HTTP server stopped")
			return nil
		})

		err = g.Wait()

		if cerr := publisher.Close(); cerr != nil {
			logger.Error("error closing publisher", "err", cerr)
		}
		if cerr := store.Close(); cerr != nil {
			logger.Error("error closing store", "err", cerr)
		}

		logger.Info("shutdown complete")
		return err
	},
}
