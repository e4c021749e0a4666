package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kazz187/taskdigest/internal/bootstrap"
	"github.com/kazz187/taskdigest/internal/config"
	"github.com/kazz187/taskdigest/internal/server"
	"github.com/kazz187/taskdigest/internal/tools"
)

var version = "dev"

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	logger, logCloser := bootstrap.NewLogger(env, os.Stderr)
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	app, err := bootstrap.New(ctx, env)
	if err != nil {
		slog.Error("failed to set up", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := server.NewServer(env, app.Tools, tools.NewMCPServer(app.Tools, version))

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
