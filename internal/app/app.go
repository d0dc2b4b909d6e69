// Package app wires configuration, storage and providers into the use
// cases shared by the CLI, the HTTP server, the MCP server and Lambda.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/swimmenu/internal/config"
	"github.com/alexanderramin/swimmenu/internal/db"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/generation"
	"github.com/alexanderramin/swimmenu/internal/llm"
	"github.com/alexanderramin/swimmenu/internal/repository"
	"github.com/alexanderramin/swimmenu/internal/retrieval"
	"github.com/alexanderramin/swimmenu/internal/storage"
)

// App holds the wired use cases.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Generator GenerateUseCase
	Menus     repository.MenuRepo
	Embedder  llm.Embedder
	Exports   storage.ObjectStore
	Providers []domain.ProviderKey
	Observer  UseCaseObserver

	closers []func()
}

// Deps lets callers and tests replace parts of the default wiring.
// Nil fields are built from Config.
type Deps struct {
	Menus    repository.MenuRepo
	Registry *llm.Registry
	Embedder llm.Embedder
	Exports  storage.ObjectStore
	Observer UseCaseObserver
}

// New builds an App from cfg. The caller must Close it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, deps Deps) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger, Observer: deps.Observer}
	if a.Observer == nil {
		a.Observer = NewLogUseCaseObserver(logger)
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(logger)
	}

	if deps.Menus == nil {
		menus, err := a.openMenus(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Menus = menus
	}
	a.Menus = deps.Menus

	if deps.Registry == nil {
		deps.Registry = llm.NewDefaultRegistry(cfg.LLM, observer)
		bedrock, err := llm.NewBedrockProviderFromEnv(ctx, cfg.LLM, observer)
		if err != nil {
			logger.Warn("bedrock provider unavailable", "error", err)
		} else {
			deps.Registry.Register(bedrock)
		}
	}
	a.Providers = deps.Registry.Keys()

	if deps.Embedder == nil {
		embedder, err := llm.NewEmbedder(cfg.LLM, observer)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("creating embedder: %w", err)
		}
		deps.Embedder = embedder
	}
	a.Embedder = deps.Embedder

	if deps.Exports == nil {
		exports, err := newObjectStore(ctx, cfg.Export)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Exports = exports
	}
	a.Exports = deps.Exports

	retrievalOpts := cfg.Retrieval
	retrievalOpts.CredentialsOptional = cfg.LLM.EmbeddingProvider == "ollama"
	assembler := retrieval.NewAssembler(a.Embedder, a.Menus, logger, retrievalOpts)
	archiver := generation.NewArchiver(a.Menus, a.Embedder, retrievalOpts.CredentialsOptional, logger)
	a.Generator = generation.NewService(deps.Registry, assembler, archiver, logger)
	return a, nil
}

func (a *App) openMenus(ctx context.Context) (repository.MenuRepo, error) {
	if a.Config.DatabaseURL != "" {
		if err := db.MigratePostgres(a.Config.DatabaseURL); err != nil {
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		pool, err := db.OpenPostgres(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		return repository.NewPostgresMenuRepo(pool), nil
	}

	database, err := db.OpenDB(a.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.closers = append(a.closers, func() { closeDB(database, a.Logger) })
	return repository.NewSQLiteMenuRepo(database), nil
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Warn("closing database", "error", err)
	}
}

func newObjectStore(ctx context.Context, cfg config.ExportConfig) (storage.ObjectStore, error) {
	if cfg.S3Bucket != "" {
		s, err := storage.NewS3StoreFromEnv(ctx, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("creating s3 export store: %w", err)
		}
		return s, nil
	}
	return storage.NewFileStore(cfg.Dir), nil
}

// Close releases database handles.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

var ErrNoEmbeddingCredentials = errors.New("similarity search needs embedding credentials")

// Search embeds the request and returns the nearest stored menus within
// the configured duration window.
func (a *App) Search(ctx context.Context, req SearchRequest) (hits []domain.RetrievalHit, err error) {
	start := time.Now()
	defer func() {
		a.observe(ctx, "search", start, err, map[string]any{"duration": req.Duration, "hits": len(hits)})
	}()

	if req.Duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if req.Credentials == "" && a.Config.LLM.EmbeddingProvider != "ollama" {
		return nil, ErrNoEmbeddingCredentials
	}
	vec, err := a.Embedder.Embed(ctx, retrieval.QueryText(req.LoadLevels, req.Duration, req.Notes), req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("embedding search query: %w", err)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = a.Config.Retrieval.TopK
	}
	var filter *domain.DurationFilter
	if a.Config.Retrieval.FilterByDuration {
		w := retrieval.Window(req.Duration, a.Config.Retrieval.DurationWindow)
		filter = &w
	}
	return a.Menus.QueryNearest(ctx, vec, topK, filter)
}

// Export renders a stored menu; with upload it is also written to the
// export store under export.Key.
func (a *App) Export(ctx context.Context, id string, format export.Format, upload bool) (_ *ExportResult, err error) {
	start := time.Now()
	defer func() {
		a.observe(ctx, "export", start, err, map[string]any{"menu_id": id, "format": string(format), "upload": upload})
	}()

	rec, err := a.Menus.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := export.Render(rec.Menu, format)
	if err != nil {
		return nil, err
	}
	res := &ExportResult{Data: data, ContentType: export.ContentType(format)}
	if upload {
		loc, err := a.Exports.Put(ctx, export.Key(rec.ID, format), data, res.ContentType)
		if err != nil {
			return nil, fmt.Errorf("uploading export: %w", err)
		}
		res.Location = loc
		a.Logger.Info("menu exported", "menu_id", rec.ID, "format", format, "location", loc)
	}
	return res, nil
}

var (
	_ SearchUseCase = (*App)(nil)
	_ ExportUseCase = (*App)(nil)
	_ MenuStore     = (repository.MenuRepo)(nil)
)
