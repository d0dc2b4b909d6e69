package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/cli"
	"github.com/alexanderramin/swimmenu/internal/config"
	"github.com/alexanderramin/swimmenu/internal/mcp"
	"github.com/alexanderramin/swimmenu/internal/server"
	"github.com/alexanderramin/swimmenu/internal/telemetry"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, logger, app.Deps{})
	if err != nil {
		return err
	}
	defer a.Close()

	c := &cli.App{
		Generator:    a.Generator,
		Menus:        a.Menus,
		Search:       a,
		Exports:      a,
		Providers:    a.Providers,
		APIKey:       config.APIKey,
		EmbeddingKey: cfg.EmbeddingKey,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		ServeHTTP: func(ctx context.Context) error {
			return server.ListenAndServe(ctx, cfg.HTTPAddr, server.FromApp(a), logger)
		},
		ServeMCP: func(context.Context) error {
			return mcp.Serve(mcp.FromApp(a, version))
		},
	}

	root := cli.NewRootCmd(c)
	root.Version = version
	return root.ExecuteContext(ctx)
}
