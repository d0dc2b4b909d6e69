// Package generation orchestrates menu generation: retrieval context,
// prompting, model invocation, validation, timing and reconciliation.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/llm"
	"github.com/alexanderramin/swimmenu/internal/menu"
)

const instrumentationName = "github.com/alexanderramin/swimmenu/internal/generation"

// ContextAssembler supplies the optional retrieval block for prompts.
type ContextAssembler interface {
	AssembleContext(ctx context.Context, levels []domain.LoadLevel, duration int, notes string, enabled bool, credentials string) string
}

// Result is a successfully generated menu.
type Result struct {
	MenuID string
	Menu   domain.GeneratedMenu
	Report menu.Report
}

// Service generates menus. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	registry  *llm.Registry
	assembler ContextAssembler
	archiver  *Archiver
	logger    *slog.Logger
	tracer    trace.Tracer
	newID     func() string
	now       func() time.Time
	metrics   serviceMetrics
}

type serviceMetrics struct {
	generations    metric.Int64Counter
	failures       metric.Int64Counter
	duration       metric.Float64Histogram
	reconcileIters metric.Int64Histogram
	nonConverged   metric.Int64Counter
	archiveErrors  metric.Int64Counter
}

// Option customizes a Service.
type Option func(*Service)

// WithTracer sets the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option { return func(s *Service) { s.tracer = t } }

// WithIDGenerator replaces uuid.NewString for menu IDs.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// WithClock replaces time.Now for record timestamps.
func WithClock(fn func() time.Time) Option { return func(s *Service) { s.now = fn } }

// NewService creates a Service. assembler and archiver may be nil.
func NewService(registry *llm.Registry, assembler ContextAssembler, archiver *Archiver, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		registry:  registry,
		assembler: assembler,
		archiver:  archiver,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter(instrumentationName)
	s.metrics.generations, _ = meter.Int64Counter("menu_generations_total",
		metric.WithDescription("Total number of menu generations started"))
	s.metrics.failures, _ = meter.Int64Counter("menu_generation_failures_total",
		metric.WithDescription("Total number of menu generations that failed, by code"))
	s.metrics.duration, _ = meter.Float64Histogram("menu_generation_duration_seconds",
		metric.WithDescription("End-to-end duration of a menu generation in seconds"))
	s.metrics.reconcileIters, _ = meter.Int64Histogram("menu_reconcile_iterations",
		metric.WithDescription("Trimming iterations applied to fit the requested duration"))
	s.metrics.nonConverged, _ = meter.Int64Counter("menu_reconcile_unconverged_total",
		metric.WithDescription("Menus that still exceed the requested duration after trimming"))
	s.metrics.archiveErrors, _ = meter.Int64Counter("menu_archive_failures_total",
		metric.WithDescription("Menus that could not be persisted after generation"))
	return s
}

// GenerateMenu runs the whole pipeline for one request. It fails only
// for input errors, provider errors and invalid model output; retrieval
// and persistence problems are logged and absorbed.
func (s *Service) GenerateMenu(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "generation.GenerateMenu", trace.WithAttributes(
		attribute.String("provider", string(req.Provider)),
		attribute.Int("duration_min", req.Duration),
		attribute.String("load", domain.LoadLabel(req.LoadLevels)),
		attribute.Bool("use_retrieval", req.UseRetrieval),
	))
	defer span.End()

	providerAttr := metric.WithAttributes(attribute.String("provider", string(req.Provider)))
	s.metrics.generations.Add(ctx, 1, providerAttr)
	defer func() {
		s.metrics.duration.Record(ctx, time.Since(start).Seconds(), providerAttr)
	}()

	res, err := s.generate(ctx, req)
	if err != nil {
		code := "UNKNOWN"
		var ge *Error
		if errors.As(err, &ge) {
			code = string(ge.Code)
		}
		s.metrics.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", string(req.Provider)),
			attribute.String("code", code),
		))
		span.SetStatus(codes.Error, code)
		span.RecordError(err)
		s.logger.Warn("menu generation failed", "provider", req.Provider, "code", code, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("menu_id", res.MenuID),
		attribute.Int("total_time", res.Menu.TotalTime),
	)
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (s *Service) generate(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		if errors.Is(err, domain.ErrUnknownProvider) {
			return nil, newUnsupportedProvider(req.Provider, err)
		}
		return nil, newInvalidRequest(err)
	}
	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, newUnsupportedProvider(req.Provider, err)
	}
	if provider.RequiresCredentials() && strings.TrimSpace(req.Credentials) == "" {
		return nil, newMissingCredentials(req.Provider)
	}

	retrieved := s.retrieve(ctx, req)
	prompts := BuildPrompts(req.LoadLevels, req.Duration, req.Notes, retrieved)

	text, err := s.invoke(ctx, provider, prompts, req.Credentials)
	if err != nil {
		return nil, err
	}

	candidate, err := llm.ExtractJSON[map[string]any](text, nil)
	if err != nil {
		s.logger.Warn("model output is not JSON", "provider", req.Provider, "error", err)
		return nil, newInvalidMenu(err)
	}
	if candidate == nil {
		return nil, newInvalidMenu(fmt.Errorf("%w: response is not a JSON object", llm.ErrInvalidOutput))
	}
	if title, ok := candidate["title"]; !ok || title == nil || title == "" {
		candidate["title"] = DefaultTitle
	}
	if !menu.IsValid(candidate, s.logger) {
		return nil, newInvalidMenu(menu.Validate(candidate))
	}
	m, err := menu.Decode(candidate)
	if err != nil {
		return nil, newInvalidMenu(err)
	}

	m, report := s.fit(ctx, menu.Estimate(m), req.Duration)

	id := s.newID()
	s.archive(ctx, &domain.MenuRecord{
		ID:                id,
		Menu:              m,
		RequestedDuration: req.Duration,
		LoadLevels:        req.LoadLevels,
		Notes:             req.Notes,
		Provider:          req.Provider,
		CreatedAt:         s.now().UTC(),
	}, req.RetrievalCredentials)

	return &Result{MenuID: id, Menu: m, Report: report}, nil
}

func (s *Service) retrieve(ctx context.Context, req domain.GenerationRequest) string {
	if s.assembler == nil || !req.UseRetrieval {
		return ""
	}
	ctx, span := s.tracer.Start(ctx, "generation.retrieve")
	defer span.End()

	block := s.assembler.AssembleContext(ctx, req.LoadLevels, req.Duration, req.Notes, req.UseRetrieval, req.RetrievalCredentials)
	span.SetAttributes(attribute.Int("context_lines", countLines(block)))
	return block
}

func (s *Service) invoke(ctx context.Context, provider llm.Provider, prompts Prompts, credentials string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "generation.invoke", trace.WithAttributes(
		attribute.String("provider", string(provider.Key())),
		attribute.Int("prompt_bytes", len(prompts.System)+len(prompts.User)),
	))
	defer span.End()

	resp, err := provider.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: prompts.System,
		UserPrompt:   prompts.User,
		Credentials:  credentials,
	})
	if err != nil {
		span.SetStatus(codes.Error, llm.ErrorCode(err))
		span.RecordError(err)
		return "", newUpstream(err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		err := &llm.ProviderError{Provider: provider.Key(), Kind: llm.ErrEmptyResponse}
		span.SetStatus(codes.Error, llm.ErrorCode(err))
		return "", newUpstream(err)
	}
	span.SetAttributes(
		attribute.String("model", resp.Model),
		attribute.Int64("latency_ms", resp.LatencyMs),
		attribute.Int("response_bytes", len(resp.Text)),
	)
	return resp.Text, nil
}

// fit reconciles m against the requested duration when it runs over.
func (s *Service) fit(ctx context.Context, m domain.GeneratedMenu, duration int) (domain.GeneratedMenu, menu.Report) {
	if m.TotalTime <= duration {
		return m, menu.Report{Target: duration, InitialTime: m.TotalTime, FinalTime: m.TotalTime, Converged: true}
	}

	ctx, span := s.tracer.Start(ctx, "generation.reconcile", trace.WithAttributes(
		attribute.Int("initial_time", m.TotalTime),
		attribute.Int("target", duration),
	))
	defer span.End()

	m, report := menu.Reconcile(m, duration)
	m = menu.Estimate(m)

	s.metrics.reconcileIters.Record(ctx, int64(report.Iterations))
	span.SetAttributes(
		attribute.Int("iterations", report.Iterations),
		attribute.Int("final_time", m.TotalTime),
		attribute.Bool("converged", report.Converged),
	)
	if !report.Converged {
		s.metrics.nonConverged.Add(ctx, 1)
		span.AddEvent("reconcile did not converge")
		s.logger.Warn("menu still exceeds requested duration after trimming",
			"target", duration, "total_time", m.TotalTime, "iterations", report.Iterations)
	}
	return m, report
}

func (s *Service) archive(ctx context.Context, rec *domain.MenuRecord, embedCredentials string) {
	if s.archiver == nil {
		return
	}
	ctx, span := s.tracer.Start(ctx, "generation.archive", trace.WithAttributes(attribute.String("menu_id", rec.ID)))
	defer span.End()

	if err := s.archiver.Archive(ctx, rec, embedCredentials); err != nil {
		s.metrics.archiveErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "archive failed")
		span.RecordError(err)
		s.logger.Error("menu persistence failed", "menu_id", rec.ID, "error", err)
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
