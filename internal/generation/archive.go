package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/llm"
	"github.com/alexanderramin/swimmenu/internal/retrieval"
)

// MenuSaver persists a generated menu with its optional embedding.
type MenuSaver interface {
	Save(ctx context.Context, rec *domain.MenuRecord, embedding []float32) error
}

// Archiver is the post-generation stage: it derives metadata and an
// embedding for a finished menu and hands both to the saver. Its errors
// never reach the generation caller.
type Archiver struct {
	saver               MenuSaver
	embedder            llm.Embedder
	credentialsOptional bool
	logger              *slog.Logger
}

// NewArchiver creates an Archiver. embedder may be nil, in which case
// menus are stored without vectors.
func NewArchiver(saver MenuSaver, embedder llm.Embedder, credentialsOptional bool, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{saver: saver, embedder: embedder, credentialsOptional: credentialsOptional, logger: logger}
}

// Archive fills rec.Metadata, embeds the menu summary when possible and
// saves the record. An embedding failure is logged and the record is
// saved without a vector; only the save error is returned.
func (a *Archiver) Archive(ctx context.Context, rec *domain.MenuRecord, embedCredentials string) error {
	meta, text := retrieval.Summary(rec.Menu, rec.LoadLevels, rec.RequestedDuration, rec.Notes)
	rec.Metadata = meta

	var vec []float32
	if a.embedder != nil && (embedCredentials != "" || a.credentialsOptional) {
		v, err := a.embedder.Embed(ctx, text, embedCredentials)
		if err != nil {
			a.logger.Warn("menu embedding failed, saving without vector", "menu_id", rec.ID, "error", err)
		} else {
			vec = v
		}
	}

	if err := a.saver.Save(ctx, rec, vec); err != nil {
		return fmt.Errorf("saving menu %s: %w", rec.ID, err)
	}
	return nil
}
