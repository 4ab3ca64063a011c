package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flyer-builder/flyer"
	"flyer-builder/logger"
	"flyer-builder/metrics"
	"flyer-builder/models"
	"flyer-builder/theme"
)

// ThemeAssetLoader loads the images a theme references
type ThemeAssetLoader interface {
	LoadAssets(ctx context.Context, logo, header string) flyer.Assets
}

// FlyerServiceDeps are the collaborators of a FlyerService. Source, Sink and
// Drive are optional.
type FlyerServiceDeps struct {
	Composer *flyer.Composer
	Themes   *theme.Book
	Assets   ThemeAssetLoader
	Writer   *PageWriter
	Bundler  Bundler
	Source   RecordSource
	Sink     ResultSink

	Drive         DriveServiceInterface
	DriveFolderID string

	Mapping         models.ColumnMapping
	ContinueOnError bool
	Clock           func() time.Time
}

// FlyerService plans, renders, saves and bundles flyers for a record list
type FlyerService struct {
	deps FlyerServiceDeps
	now  func() time.Time
}

// Ensure FlyerService implements FlyerServiceInterface
var _ FlyerServiceInterface = (*FlyerService)(nil)

// NewFlyerService creates a new FlyerService
func NewFlyerService(deps FlyerServiceDeps) *FlyerService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	if deps.Themes == nil {
		deps.Themes = theme.DefaultBook()
	}
	return &FlyerService{deps: deps, now: now}
}

// Generate loads the table from the source, runs it and hands the result to the sinks
func (s *FlyerService) Generate(ctx context.Context) (*models.RunResult, error) {
	if s.deps.Source == nil {
		return nil, fmt.Errorf("no record source configured")
	}

	table, err := s.deps.Source.LoadTable(ctx)
	if err != nil {
		return nil, err
	}

	result, runErr := s.Run(ctx, table.Records(s.deps.Mapping))
	if result == nil || s.deps.Sink == nil {
		return result, runErr
	}

	if err := s.deps.Sink.WriteResults(ctx, table, result); err != nil {
		logger.FromContext(ctx).Error("❌ Failed to write results", zap.String("runId", result.RunID), zap.Error(err))
		return result, errors.Join(runErr, fmt.Errorf("failed to write results: %w", err))
	}
	return result, runErr
}

// Run renders every group of records. Links has one entry per record, by position.
// A group that fails to persist is recorded in Failures; unless ContinueOnError is
// set the run stops there and returns the partial result with the error.
func (s *FlyerService) Run(ctx context.Context, records []models.ProductRecord) (*models.RunResult, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With(zap.String("runId", runID))
	ctx = logger.WithContext(ctx, log)

	result := &models.RunResult{
		RunID:     runID,
		StartedAt: s.now(),
		Links:     make([]string, len(records)),
		Pages:     []models.FlyerPage{},
		Documents: []models.Document{},
	}

	// rows are addressed by position in this run
	indexed := make([]models.ProductRecord, len(records))
	for i, rec := range records {
		rec.Row = i
		indexed[i] = rec
	}

	plans := flyer.Plan(indexed, flyer.ByGroupKey)
	log.Info("🚀 Flyer run started", zap.Int("records", len(records)), zap.Int("groups", len(plans)))

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			result.FinishedAt = s.now()
			return result, err
		}

		pages, doc, err := s.renderGroup(ctx, plan)
		if err != nil {
			metrics.GroupFailures.Inc()
			result.Failures = append(result.Failures, models.GroupFailure{GroupKey: plan.GroupKey, Error: err.Error()})
			log.Error("❌ Group failed", zap.String("group", plan.GroupKey), zap.Error(err))
			if !s.deps.ContinueOnError {
				result.FinishedAt = s.now()
				return result, fmt.Errorf("group %q: %w", plan.GroupKey, err)
			}
			continue
		}

		for _, p := range pages {
			for _, row := range p.Rows {
				result.Links[row] = p.URL
			}
		}
		result.Pages = append(result.Pages, pages...)
		if doc != nil {
			result.Documents = append(result.Documents, *doc)
		}
	}

	result.FinishedAt = s.now()
	log.Info("🎉 Flyer run completed",
		zap.Int("pages", len(result.Pages)),
		zap.Int("documents", len(result.Documents)),
		zap.Int("failures", len(result.Failures)),
	)
	return result, nil
}

// renderGroup renders the batches of one group in sequence order and bundles them
func (s *FlyerService) renderGroup(ctx context.Context, plan models.GroupPlan) ([]models.FlyerPage, *models.Document, error) {
	log := logger.FromContext(ctx).With(zap.String("group", plan.GroupKey))

	th := s.deps.Themes.Lookup(plan.GroupKey)
	var assets flyer.Assets
	if s.deps.Assets != nil {
		assets = s.deps.Assets.LoadAssets(ctx, th.Assets.Logo, th.Assets.HeaderImage)
	}
	log.Info("🎨 Rendering group", zap.String("theme", th.Name), zap.Int("pages", len(plan.Batches)))

	pages := make([]models.FlyerPage, 0, len(plan.Batches))
	for _, batch := range plan.Batches {
		start := time.Now()
		img, err := s.deps.Composer.Render(ctx, batch, th, assets)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render page %d: %w", batch.Sequence, err)
		}
		metrics.RenderDuration.Observe(time.Since(start).Seconds())

		page, err := s.deps.Writer.Save(ctx, batch, img, th.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to save page %d: %w", batch.Sequence, err)
		}
		metrics.PagesRendered.WithLabelValues(th.Name).Inc()
		s.publish(ctx, page.FileName, page.Path)
		pages = append(pages, page)
	}

	var doc *models.Document
	if s.deps.Bundler != nil {
		var err error
		doc, err = s.deps.Bundler.Bundle(ctx, plan.GroupKey, pages)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to bundle: %w", err)
		}
		if doc != nil {
			s.publish(ctx, doc.FileName, doc.Path)
		}
	}

	// pages stay on disk; drop the canvases
	for i := range pages {
		pages[i].Image = nil
	}
	return pages, doc, nil
}

// publish copies a written file to the Drive output folder. Failures are logged only.
func (s *FlyerService) publish(ctx context.Context, name, path string) {
	if s.deps.Drive == nil || s.deps.DriveFolderID == "" {
		return
	}
	log := logger.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("⚠️  Could not read file for Drive upload", zap.String("path", path), zap.Error(err))
		return
	}
	if _, err := s.deps.Drive.UploadFile(ctx, s.deps.DriveFolderID, name, mimeType(name), data); err != nil {
		log.Warn("⚠️  Drive upload failed", zap.String("name", name), zap.Error(err))
	}
}
