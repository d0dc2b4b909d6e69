// Package retrieval builds the reference block of similar past menus
// that is injected into generation prompts.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/llm"
)

// Store finds stored menus nearest to a query vector.
type Store interface {
	QueryNearest(ctx context.Context, vec []float32, topK int, filter *domain.DurationFilter) ([]domain.RetrievalHit, error)
}

// Options tunes retrieval.
type Options struct {
	TopK             int     `env:"SWIMMENU_RETRIEVAL_TOP_K,default=5"`
	DurationWindow   float64 `env:"SWIMMENU_RETRIEVAL_DURATION_WINDOW,default=0.2"`
	FilterByDuration bool    `env:"SWIMMENU_RETRIEVAL_FILTER_DURATION,default=true"`

	// CredentialsOptional lets retrieval run without a caller secret,
	// for embedders that need none (local Ollama).
	CredentialsOptional bool
}

// DefaultOptions returns K=5 with a ±20% duration window.
func DefaultOptions() Options {
	return Options{TopK: 5, DurationWindow: 0.2, FilterByDuration: true}
}

// Assembler turns nearest stored menus into prompt context. It is
// strictly best effort: every failure yields an empty context.
type Assembler struct {
	embedder llm.Embedder
	store    Store
	logger   *slog.Logger
	opts     Options
}

// NewAssembler creates an Assembler.
func NewAssembler(embedder llm.Embedder, store Store, logger *slog.Logger, opts Options) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &Assembler{embedder: embedder, store: store, logger: logger, opts: opts}
}

// AssembleContext returns one line per similar stored menu, or "" when
// retrieval is disabled, credentials are missing or anything fails.
func (a *Assembler) AssembleContext(ctx context.Context, levels []domain.LoadLevel, duration int, notes string, enabled bool, credentials string) string {
	if a == nil || !enabled {
		return ""
	}
	if credentials == "" && !a.opts.CredentialsOptional {
		return ""
	}

	vec, err := a.embedder.Embed(ctx, QueryText(levels, duration, notes), credentials)
	if err != nil {
		a.logger.Warn("retrieval embedding failed, continuing without context", "error", err)
		return ""
	}

	var filter *domain.DurationFilter
	if a.opts.FilterByDuration {
		w := Window(duration, a.opts.DurationWindow)
		filter = &w
	}
	hits, err := a.store.QueryNearest(ctx, vec, a.opts.TopK, filter)
	if err != nil {
		a.logger.Warn("retrieval query failed, continuing without context", "error", err)
		return ""
	}
	return FormatHits(hits)
}

// QueryText is the text embedded to look up similar menus. Stored menus
// are embedded from Summary so both sides share vocabulary.
func QueryText(levels []domain.LoadLevel, duration int, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Swim training menu. Load: %s. Duration: %d minutes.", domain.LoadLabel(levels), duration)
	if n := strings.TrimSpace(notes); n != "" {
		fmt.Fprintf(&b, " Notes: %s", n)
	}
	return b.String()
}

// Window returns the [d*(1-frac), d*(1+frac)] duration filter.
func Window(duration int, frac float64) domain.DurationFilter {
	d := float64(duration)
	return domain.DurationFilter{
		Min: int(math.Floor(d * (1 - frac))),
		Max: int(math.Ceil(d * (1 + frac))),
	}
}

// FormatHits renders hits one per line.
func FormatHits(hits []domain.RetrievalHit) string {
	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("- %s: %s (%d min, similarity %.2f)",
			h.Metadata.Title, h.Metadata.Description, h.Metadata.TotalTime, h.Similarity))
	}
	return strings.Join(lines, "\n")
}

// Summary builds the searchable metadata and embedding text for a menu.
func Summary(m domain.GeneratedMenu, levels []domain.LoadLevel, duration int, notes string) (domain.MenuMetadata, string) {
	names := make([]string, 0, len(m.Sections))
	for _, s := range m.Sections {
		names = append(names, s.Name)
	}
	desc := fmt.Sprintf("%s load, %d sections (%s)", domain.LoadLabel(levels), len(m.Sections), strings.Join(names, ", "))
	if len(m.TargetSkills) > 0 {
		desc += ", skills: " + strings.Join(m.TargetSkills, ", ")
	}
	meta := domain.MenuMetadata{
		Title:       m.Title,
		Description: desc,
		TotalTime:   m.TotalTime,
		Intensity:   m.Intensity,
	}
	text := QueryText(levels, duration, notes) + " " + m.Title + ". " + desc
	return meta, text
}
