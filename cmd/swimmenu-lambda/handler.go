package main

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/swimmenu/internal/app"
)

type handler struct {
	generator app.GenerateUseCase
	flush     func(context.Context) error
	log       *slog.Logger
}

// handle generates one menu. Telemetry is flushed after every
// invocation because the execution environment may freeze between them.
func (h *handler) handle(ctx context.Context, in app.GenerateInput) (app.GenerateOutput, error) {
	if h.flush != nil {
		defer func() {
			if err := h.flush(ctx); err != nil {
				h.log.Error("telemetry flush failed", "error", err)
			}
		}()
	}

	req, err := in.Request()
	if err != nil {
		return app.GenerateOutput{}, err
	}
	res, err := h.generator.GenerateMenu(ctx, req)
	if err != nil {
		h.log.Error("generation failed", "provider", in.Model, "error", err)
		return app.GenerateOutput{}, err
	}
	return app.NewGenerateOutput(res), nil
}
