package service

import (
	"context"

	"flyer-builder/models"
)

// FlyerServiceInterface defines the contract for flyer generation runs
type FlyerServiceInterface interface {
	Run(ctx context.Context, records []models.ProductRecord) (*models.RunResult, error)
	Generate(ctx context.Context) (*models.RunResult, error)
}
