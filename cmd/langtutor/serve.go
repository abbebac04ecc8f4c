package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/langtutor/internal/assets"
	"github.com/at-ishikawa/langtutor/internal/exercise"
	"github.com/at-ishikawa/langtutor/internal/journal"
	"github.com/at-ishikawa/langtutor/internal/server"
	"github.com/at-ishikawa/langtutor/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var addr string
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve the exercise page over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reviewer, closeReviewer, err := newReviewer(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeReviewer()

			catalogue, err := exercise.NewCatalogue(cfg.Exercises)
			if err != nil {
				return fmt.Errorf("exercise.NewCatalogue() > %w", err)
			}
			sink, err := journal.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("journal.New() > %w", err)
			}
			defer func() {
				if err := sink.Close(); err != nil {
					slog.Default().Warn("failed to close the journal", "error", err)
				}
			}()
			page, err := assets.ParsePageTemplate(cfg.Templates.PageTemplate)
			if err != nil {
				return fmt.Errorf("assets.ParsePageTemplate() > %w", err)
			}

			store := session.NewStore(catalogue, cfg.Server.SessionTTL)
			store.StartSweeper(ctx, sweepInterval(cfg.Server.SessionTTL))

			handler := server.NewHandler(store, reviewer, sink, page,
				server.WithSecureCookie(cfg.Server.SecureCookie),
				server.WithCookieMaxAge(cfg.Server.SessionTTL),
			)
			if addr == "" {
				addr = fmt.Sprintf(":%d", cfg.Server.Port)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           h2c.NewHandler(handler.Routes(), &http2.Server{}),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       120 * time.Second,
			}
			return runServer(ctx, srv)
		},
	}
	command.Flags().StringVar(&addr, "addr", "", "listen address (default \":<server.port>\")")
	return command
}

// runServer serves until ctx is done, then shuts down gracefully
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Default().Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Default().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown() > %w", err)
	}
	return nil
}

// sweepInterval is a quarter of the TTL, but never shorter than a minute
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		return time.Minute
	}
	return interval
}
