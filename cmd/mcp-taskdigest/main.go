package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/taskdigest/internal/bootstrap"
	"github.com/kazz187/taskdigest/internal/config"
	"github.com/kazz187/taskdigest/internal/tools"
)

var version = "dev"

// mcp-taskdigest serves the tools over stdio. Stdout carries the protocol,
// so logs go to stderr only.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	env, err := config.LoadEnv()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load env", "error", err)
		os.Exit(1)
	}
	logger, logCloser := bootstrap.NewLogger(env, os.Stderr)
	defer logCloser.Close()
	slog.SetDefault(logger)

	app, err := bootstrap.New(ctx, env)
	if err != nil {
		logger.ErrorContext(ctx, "failed to set up", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := tools.NewMCPServer(app.Tools, version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.ErrorContext(ctx, "failed to run server", "error", err)
		os.Exit(1)
	}
}
