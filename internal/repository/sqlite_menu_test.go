package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/testutil"
)

func newMenuRepo(t *testing.T) *SQLiteMenuRepo {
	t.Helper()
	return NewSQLiteMenuRepo(testutil.NewTestDB(t))
}

func TestMenuRepo_SaveAndGetByID(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	rec := testutil.NewTestRecord("Threshold Tuesday", testutil.WithLoadLevels(domain.LoadLow, domain.LoadHigh))
	require.NoError(t, repo.Save(ctx, rec, []float32{0.1, 0.2, 0.3}))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Menu, got.Menu)
	assert.Equal(t, rec.Metadata, got.Metadata)
	assert.Equal(t, []domain.LoadLevel{domain.LoadLow, domain.LoadHigh}, got.LoadLevels)
	assert.Equal(t, domain.ProviderOpenAI, got.Provider)
	assert.Equal(t, "turn practice", got.Notes)
	assert.Equal(t, 30, got.RequestedDuration)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestMenuRepo_SaveWithoutEmbedding(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	rec := testutil.NewTestRecord("No vector")
	require.NoError(t, repo.Save(ctx, rec, nil))

	_, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	hits, err := repo.QueryNearest(ctx, []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMenuRepo_SaveDuplicateID(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	rec := testutil.NewTestRecord("Dup", testutil.WithRecordID("same"))
	require.NoError(t, repo.Save(ctx, rec, nil))
	assert.Error(t, repo.Save(ctx, rec, nil))
}

func TestMenuRepo_SaveRollsBackOnEmbeddingFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("embedding write failed")
	repo := NewSQLiteMenuRepo(database).WithUnitOfWork(&testutil.FailingExecUoW{DB: database, Match: "menu_embeddings", Err: boom})
	ctx := context.Background()

	rec := testutil.NewTestRecord("Rollback")
	err := repo.Save(ctx, rec, []float32{1, 2})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMenuRepo_GetByID_NotFound(t *testing.T) {
	repo := newMenuRepo(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMenuRepo_ListNewestFirst(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	for i, title := range []string{"oldest", "middle", "newest"} {
		rec := testutil.NewTestRecord(title, testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, repo.Save(ctx, rec, nil))
	}

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Metadata.Title)
	assert.Equal(t, "oldest", all[2].Metadata.Title)

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMenuRepo_DeleteCascadesEmbedding(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteMenuRepo(database)
	ctx := context.Background()

	rec := testutil.NewTestRecord("Gone")
	require.NoError(t, repo.Save(ctx, rec, []float32{1, 1}))
	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err := repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM menu_embeddings`).Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), ErrNotFound)
}

func TestMenuRepo_QueryNearestRanksByCosine(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	vectors := map[string][]float32{
		"same":       {1, 0, 0},
		"close":      {0.9, 0.1, 0},
		"orthogonal": {0, 1, 0},
	}
	for title, v := range vectors {
		require.NoError(t, repo.Save(ctx, testutil.NewTestRecord(title, testutil.WithRecordID(title)), v))
	}

	hits, err := repo.QueryNearest(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "same", hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "close", hits[1].ID)
	assert.Equal(t, "close", hits[1].Metadata.Title)
	assert.Equal(t, 30, hits[1].Metadata.TotalTime)
}

func TestMenuRepo_QueryNearestSimilarityInUnitRange(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("opposed", testutil.WithRecordID("opposed")), []float32{-1, 0}))

	for _, query := range [][]float32{{1, 0}, {0, 0}} {
		hits, err := repo.QueryNearest(ctx, query, 5, nil)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, 0.0, hits[0].Similarity, "query %v", query)
	}
}

func TestMenuRepo_QueryNearestDurationFilter(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("short", testutil.WithRecordID("short"), testutil.WithTotalTime(20)), []float32{1, 0}))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("fits", testutil.WithRecordID("fits"), testutil.WithTotalTime(58)), []float32{0, 1}))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("long", testutil.WithRecordID("long"), testutil.WithTotalTime(90)), []float32{1, 0}))

	hits, err := repo.QueryNearest(ctx, []float32{1, 0}, 5, &domain.DurationFilter{Min: 48, Max: 72})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "fits", hits[0].ID)
}

func TestMenuRepo_QueryNearestSkipsOtherDimensions(t *testing.T) {
	repo := newMenuRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("2d", testutil.WithRecordID("2d")), []float32{1, 0}))
	require.NoError(t, repo.Save(ctx, testutil.NewTestRecord("3d", testutil.WithRecordID("3d")), []float32{1, 0, 0}))

	hits, err := repo.QueryNearest(ctx, []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "3d", hits[0].ID)
}
