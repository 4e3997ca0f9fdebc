package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/agenthands/graphdiff/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the comparison HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv := server.NewFromConfig(ctx, cfg, logger)
	defer func() {
		if err := srv.Close(context.Background()); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	}
}
