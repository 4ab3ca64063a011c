package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flyer-builder/db"
	"flyer-builder/models"
)

func openTestDB(t *testing.T) *FlyerRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	require.NoError(t, db.InitDB(context.Background(), "sqlite:"+path))
	t.Cleanup(func() { _ = db.CloseDB() })

	repo := NewFlyerRepository()
	require.NoError(t, repo.EnsureSchema(context.Background()))
	// idempotent
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func sampleRun(id string, started time.Time) *models.RunResult {
	return &models.RunResult{
		RunID:      id,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Links:      []string{"https://x.test/a_1.jpg", "", "https://x.test/a_1.jpg"},
		Pages: []models.FlyerPage{
			{GroupKey: "A", Sequence: 1, FileName: "a_1.jpg", URL: "https://x.test/a_1.jpg", Rows: []int{0, 2}},
		},
		Documents: []models.Document{
			{GroupKey: "A", FileName: "catalogo_a.pdf", URL: "https://x.test/catalogo_a.pdf", PageCount: 1},
		},
		Failures: []models.GroupFailure{{GroupKey: "B", Error: "disk full"}},
	}
}

func TestSaveRunAndListRuns(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", base)))
	require.NoError(t, repo.WriteResults(ctx, nil, sampleRun("run-2", base.Add(time.Hour))))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Equal(t, "run-1", runs[1].RunID)
	assert.Equal(t, 1, runs[1].PageCount)
	assert.Equal(t, 2, runs[1].LinkCount)
	assert.Equal(t, 1, runs[1].Failures)
	assert.True(t, base.Equal(runs[1].StartedAt))

	limited, err := repo.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetLinks(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveRun(ctx, sampleRun("run-1", time.Now())))

	links, err := repo.GetLinks(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []models.RowLink{
		{Row: 0, URL: "https://x.test/a_1.jpg"},
		{Row: 2, URL: "https://x.test/a_1.jpg"},
	}, links)

	_, err = repo.GetLinks(ctx, "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSaveRunRejectsDuplicateRunID(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveRun(ctx, sampleRun("dup", time.Now())))
	assert.Error(t, repo.SaveRun(ctx, sampleRun("dup", time.Now())))

	runs, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRepositoryWithoutDatabase(t *testing.T) {
	require.NoError(t, db.CloseDB())
	repo := NewFlyerRepository()

	assert.ErrorIs(t, repo.EnsureSchema(context.Background()), ErrNoDatabase)
	_, err := repo.ListRuns(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoDatabase)
}
