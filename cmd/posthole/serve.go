package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avi-perl/posthole/internal/config"
	"github.com/avi-perl/posthole/internal/events"
	"github.com/avi-perl/posthole/internal/server"
	"github.com/avi-perl/posthole/internal/service"
	"github.com/avi-perl/posthole/internal/store"
	"github.com/avi-perl/posthole/internal/store/document"
	"github.com/avi-perl/posthole/internal/store/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Post Hole HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		logger.Info("store opened", "backend", cfg.Store)

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (POSTHOLE_NATS_URL not set)")
		}

		srv := server.New(service.New(st), publisher, cfg.Endpoints, cfg.Defaults)
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("publisher close error", "err", err)
		}
		if err := st.Flush(context.Background()); err != nil {
			logger.Error("store flush error", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("store close error", "err", err)
		}
		logger.Info("store closed")

		return nil
	},
}

// newLogger picks a human-readable handler on a terminal and JSON otherwise.
func newLogger() *slog.Logger {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

// openStore builds the configured store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.BackendFile:
		return document.New(ctx, document.NewFileBlob(cfg.DBPath))
	case config.BackendMemory:
		return document.New(ctx, document.NewMemoryBlob())
	case config.BackendS3:
		blob, err := document.NewS3Blob(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return document.New(ctx, blob)
	case config.BackendPostgres:
		return postgres.New(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
