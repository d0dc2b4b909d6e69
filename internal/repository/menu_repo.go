package repository

import (
	"context"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// MenuRepo stores generated menus and answers nearest-neighbour queries
// over their embeddings. Implementations satisfy generation.MenuSaver and
// retrieval.Store.
type MenuRepo interface {
	Save(ctx context.Context, rec *domain.MenuRecord, embedding []float32) error
	GetByID(ctx context.Context, id string) (*domain.MenuRecord, error)
	List(ctx context.Context, limit int) ([]*domain.MenuRecord, error)
	Delete(ctx context.Context, id string) error
	QueryNearest(ctx context.Context, vec []float32, topK int, filter *domain.DurationFilter) ([]domain.RetrievalHit, error)
}

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50
