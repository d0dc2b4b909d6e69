package app

import (
	"context"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/generation"
)

// GenerateUseCase produces a new menu from a request.
type GenerateUseCase interface {
	GenerateMenu(ctx context.Context, req domain.GenerationRequest) (*generation.Result, error)
}

// MenuStore reads and removes persisted menus.
type MenuStore interface {
	GetByID(ctx context.Context, id string) (*domain.MenuRecord, error)
	List(ctx context.Context, limit int) ([]*domain.MenuRecord, error)
	Delete(ctx context.Context, id string) error
}

// SearchRequest describes a similarity search over stored menus.
type SearchRequest struct {
	LoadLevels  []domain.LoadLevel
	Duration    int
	Notes       string
	Credentials string
	TopK        int
}

// SearchUseCase finds stored menus similar to a request.
type SearchUseCase interface {
	Search(ctx context.Context, req SearchRequest) ([]domain.RetrievalHit, error)
}

// ExportResult is a rendered menu and, when uploaded, where it went.
type ExportResult struct {
	Data        []byte
	ContentType string
	Location    string
}

// ExportUseCase renders stored menus and optionally uploads them.
type ExportUseCase interface {
	Export(ctx context.Context, id string, format export.Format, upload bool) (*ExportResult, error)
}
