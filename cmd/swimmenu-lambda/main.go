// Command swimmenu-lambda serves menu generation as an AWS Lambda
// function. The event is a generation request in the same JSON shape as
// POST /api/v1/menus. Set SWIMMENU_DATABASE_URL so menus land in
// Postgres rather than on the function's ephemeral disk.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/config"
	"github.com/alexanderramin/swimmenu/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}
	logger, err := config.NewLogger(cfg.LogLevel, "json", os.Stdout)
	if err != nil {
		log.Fatalf("Failed to create logger: %s", err)
	}
	slog.SetDefault(logger)

	if _, err := telemetry.Init(ctx, cfg.Telemetry); err != nil {
		log.Fatalf("Failed to initialize telemetry: %s", err)
	}

	a, err := app.New(ctx, cfg, logger, app.Deps{})
	if err != nil {
		log.Fatalf("Failed to wire app: %s", err)
	}
	slog.Info("SETUP: app wired", "providers", a.Providers)

	h := &handler{generator: a.Generator, flush: telemetry.Flush, log: logger}
	lambda.Start(h.handle)
}
