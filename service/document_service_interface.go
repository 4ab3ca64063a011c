package service

import (
	"context"

	"flyer-builder/models"
)

// Bundler concatenates one group's pages, in the given order, into a single
// multi-page document. No pages means no document (nil, nil).
type Bundler interface {
	Bundle(ctx context.Context, groupKey string, pages []models.FlyerPage) (*models.Document, error)
}
