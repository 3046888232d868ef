package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blogicum/blogicum/internal/app"
	"github.com/blogicum/blogicum/internal/database"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			defer logger.Sync() //nolint:errcheck

			if migrate {
				db, err := database.Connect(cfg, true)
				if err != nil {
					return err
				}
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}

			application, err := app.New(logger, cfg)
			if err != nil {
				logger.Error("failed to initialize app", zap.Error(err))
				return err
			}
			return serve(logger, application)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run schema migration before serving")
	return cmd
}

func serve(logger *zap.Logger, application *app.App) error {
	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		application.Shutdown()
		logger.Error("server error", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("shutting down server...")
	application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("server exited")
	return nil
}
