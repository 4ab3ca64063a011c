package repository

import (
	"context"

	"flyer-builder/models"
)

// FlyerRepositoryInterface defines the contract for run history storage
type FlyerRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, result *models.RunResult) error
	ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error)
	GetLinks(ctx context.Context, runID string) ([]models.RowLink, error)
	WriteResults(ctx context.Context, table *models.SheetTable, result *models.RunResult) error
}
