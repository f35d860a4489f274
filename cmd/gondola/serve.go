package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpDelivery "github.com/gondola/backend/internal/delivery/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the categorization HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	service, memoryCache := a.newService()

	var handler *httpDelivery.Handler
	if memoryCache != nil {
		defer memoryCache.Close()
		handler = httpDelivery.NewHandler(service, memoryCache, a.logger, a.cfg.Server.MaxRecords)
	} else {
		handler = httpDelivery.NewHandler(service, nil, a.logger, a.cfg.Server.MaxRecords)
	}

	router := httpDelivery.SetupRouter(a.cfg, handler, a.logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("starting gondola backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", a.cfg.Server.Environment),
		zap.String("addr", srv.Addr),
		zap.Int("rate_limit_per_ip", a.cfg.RateLimit.PerIP),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
