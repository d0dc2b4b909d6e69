package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// PostgresMenuRepo implements MenuRepo on Postgres with the pgvector
// extension. Similarity is 1 - cosine distance (`<=>`), clamped to [0, 1].
type PostgresMenuRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresMenuRepo creates a new PostgresMenuRepo.
func NewPostgresMenuRepo(pool *pgxpool.Pool) *PostgresMenuRepo {
	return &PostgresMenuRepo{pool: pool}
}

const pgMenuColumns = `id, title, description, total_time, intensity, requested_duration,
	load_levels, notes, provider, menu, created_at`

func (r *PostgresMenuRepo) Save(ctx context.Context, rec *domain.MenuRecord, embedding []float32) error {
	levels := make([]string, len(rec.LoadLevels))
	for i, l := range rec.LoadLevels {
		levels[i] = string(l)
	}
	skills := rec.Menu.TargetSkills
	if skills == nil {
		skills = []string{}
	}
	var vec any
	if len(embedding) > 0 {
		vec = vectorLiteral(embedding)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO menus (`+pgMenuColumns+`, target_skills, embedding)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::vector)`,
		rec.ID, rec.Metadata.Title, rec.Metadata.Description, rec.Metadata.TotalTime,
		rec.Metadata.Intensity, rec.RequestedDuration, levels, rec.Notes, string(rec.Provider),
		rec.Menu, rec.CreatedAt.UTC(), skills, vec)
	if err != nil {
		return fmt.Errorf("inserting menu: %w", err)
	}
	return nil
}

func (r *PostgresMenuRepo) GetByID(ctx context.Context, id string) (*domain.MenuRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgMenuColumns+` FROM menus WHERE id = $1`, id)
	rec, err := scanPgMenu(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("menu %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning menu: %w", err)
	}
	return rec, nil
}

func (r *PostgresMenuRepo) List(ctx context.Context, limit int) ([]*domain.MenuRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgMenuColumns+` FROM menus
		ORDER BY created_at DESC, id LIMIT $1`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	defer rows.Close()

	var out []*domain.MenuRecord
	for rows.Next() {
		rec, err := scanPgMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresMenuRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting menu: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresMenuRepo) QueryNearest(ctx context.Context, vec []float32, topK int, filter *domain.DurationFilter) ([]domain.RetrievalHit, error) {
	query := `SELECT id, title, description, total_time, intensity,
		1 - (embedding <=> $1::vector) AS similarity
		FROM menus
		WHERE embedding IS NOT NULL AND vector_dims(embedding) = $2`
	args := []any{vectorLiteral(vec), len(vec)}
	if filter != nil {
		query += ` AND total_time BETWEEN $3 AND $4`
		args = append(args, filter.Min, filter.Max)
	}
	query += fmt.Sprintf(` ORDER BY embedding <=> $1::vector, id LIMIT %d`, max(topK, 1))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nearest menus: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		var h domain.RetrievalHit
		if err := rows.Scan(&h.ID, &h.Metadata.Title, &h.Metadata.Description,
			&h.Metadata.TotalTime, &h.Metadata.Intensity, &h.Similarity); err != nil {
			return nil, fmt.Errorf("scanning nearest menu: %w", err)
		}
		h.Similarity = clampSimilarity(h.Similarity)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func scanPgMenu(row pgx.Row) (*domain.MenuRecord, error) {
	var rec domain.MenuRecord
	var levels []string
	var provider string
	err := row.Scan(
		&rec.ID, &rec.Metadata.Title, &rec.Metadata.Description, &rec.Metadata.TotalTime,
		&rec.Metadata.Intensity, &rec.RequestedDuration, &levels, &rec.Notes, &provider,
		&rec.Menu, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		rec.LoadLevels = append(rec.LoadLevels, domain.LoadLevel(l))
	}
	rec.Provider = domain.ProviderKey(provider)
	return &rec, nil
}

var _ MenuRepo = (*PostgresMenuRepo)(nil)
