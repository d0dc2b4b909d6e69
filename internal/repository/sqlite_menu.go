package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/swimmenu/internal/db"
	"github.com/alexanderramin/swimmenu/internal/domain"
)

// SQLiteMenuRepo implements MenuRepo on SQLite. Embeddings are stored as
// BLOBs and ranked by cosine similarity in Go.
type SQLiteMenuRepo struct {
	db  *sql.DB
	uow db.UnitOfWork
}

// NewSQLiteMenuRepo creates a new SQLiteMenuRepo.
func NewSQLiteMenuRepo(database *sql.DB) *SQLiteMenuRepo {
	return &SQLiteMenuRepo{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// WithUnitOfWork returns a copy of r that writes through uow.
func (r *SQLiteMenuRepo) WithUnitOfWork(uow db.UnitOfWork) *SQLiteMenuRepo {
	return &SQLiteMenuRepo{db: r.db, uow: uow}
}

const menuColumns = `id, title, description, total_time, intensity, requested_duration,
	load_levels, notes, provider, menu_json, created_at`

// Save writes the menu row and, when embedding is non-empty, its vector
// in one transaction.
func (r *SQLiteMenuRepo) Save(ctx context.Context, rec *domain.MenuRecord, embedding []float32) error {
	menuJSON, err := json.Marshal(rec.Menu)
	if err != nil {
		return fmt.Errorf("encoding menu: %w", err)
	}

	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO menus (`+menuColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID,
			rec.Metadata.Title,
			rec.Metadata.Description,
			rec.Metadata.TotalTime,
			rec.Metadata.Intensity,
			rec.RequestedDuration,
			joinLevels(rec.LoadLevels),
			rec.Notes,
			string(rec.Provider),
			string(menuJSON),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting menu: %w", err)
		}
		if len(embedding) == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO menu_embeddings (menu_id, dimensions, vector) VALUES (?, ?, ?)`,
			rec.ID, len(embedding), encodeVector(embedding))
		if err != nil {
			return fmt.Errorf("inserting menu embedding: %w", err)
		}
		return nil
	})
}

func (r *SQLiteMenuRepo) GetByID(ctx context.Context, id string) (*domain.MenuRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = ?`, id)
	rec, err := scanMenu(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning menu: %w", err)
	}
	return rec, nil
}

// List returns the most recent menus first.
func (r *SQLiteMenuRepo) List(ctx context.Context, limit int) ([]*domain.MenuRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menus
		ORDER BY created_at DESC, id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	defer rows.Close()

	var out []*domain.MenuRecord
	for rows.Next() {
		rec, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning menu: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteMenuRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting menu: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("menu %s: %w", id, ErrNotFound)
	}
	return nil
}

// QueryNearest ranks every stored vector of matching dimension against
// vec. Menus outside filter are skipped.
func (r *SQLiteMenuRepo) QueryNearest(ctx context.Context, vec []float32, topK int, filter *domain.DurationFilter) ([]domain.RetrievalHit, error) {
	query := `SELECT m.id, m.title, m.description, m.total_time, m.intensity, e.vector
		FROM menus m JOIN menu_embeddings e ON e.menu_id = m.id
		WHERE e.dimensions = ?`
	args := []any{len(vec)}
	if filter != nil {
		query += ` AND m.total_time BETWEEN ? AND ?`
		args = append(args, filter.Min, filter.Max)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying menu embeddings: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievalHit
	for rows.Next() {
		var h domain.RetrievalHit
		var blob []byte
		if err := rows.Scan(&h.ID, &h.Metadata.Title, &h.Metadata.Description,
			&h.Metadata.TotalTime, &h.Metadata.Intensity, &blob); err != nil {
			return nil, fmt.Errorf("scanning menu embedding: %w", err)
		}
		stored, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("menu %s: %w", h.ID, err)
		}
		h.Similarity = clampSimilarity(cosine(vec, stored))
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu embeddings: %w", err)
	}
	return topHits(hits, topK), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenu(row rowScanner) (*domain.MenuRecord, error) {
	var rec domain.MenuRecord
	var levels, provider, menuJSON, createdAt string
	err := row.Scan(
		&rec.ID, &rec.Metadata.Title, &rec.Metadata.Description, &rec.Metadata.TotalTime,
		&rec.Metadata.Intensity, &rec.RequestedDuration, &levels, &rec.Notes, &provider,
		&menuJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(menuJSON), &rec.Menu); err != nil {
		return nil, fmt.Errorf("decoding menu %s: %w", rec.ID, err)
	}
	rec.LoadLevels = splitLevels(levels)
	rec.Provider = domain.ProviderKey(provider)
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at for menu %s: %w", rec.ID, err)
	}
	return &rec, nil
}

var _ MenuRepo = (*SQLiteMenuRepo)(nil)
