package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"flyer-builder/app/controller"
	"flyer-builder/app/router"
	"flyer-builder/config"
	"flyer-builder/db"
	"flyer-builder/flyer"
	"flyer-builder/logger"
	"flyer-builder/models"
	"flyer-builder/repository"
	"flyer-builder/service"
	"flyer-builder/theme"
)

// App is the wired application
type App struct {
	Config     config.Config
	Flyers     *service.FlyerService
	Repository repository.FlyerRepositoryInterface
	Mux        *http.ServeMux
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.GetLogger()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Optional run history
	var repo repository.FlyerRepositoryInterface
	var sinks service.MultiSink
	if cfg.DatabaseURL != "" {
		if err := db.InitDB(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		flyerRepo := repository.NewFlyerRepository()
		if err := flyerRepo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		repo = flyerRepo
		sinks = append(sinks, flyerRepo)
	}

	// Google clients share one credential set
	var googleOpts []option.ClientOption
	if cfg.HasGoogleCredentials() {
		opts, err := service.GoogleClientOptions(ctx, cfg.SheetsJSON, cfg.CredentialsPath,
			drive.DriveScope, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, err
		}
		googleOpts = opts
	}

	var driveService service.DriveServiceInterface
	if googleOpts != nil {
		ds, err := service.NewDriveService(ctx, googleOpts...)
		if err != nil {
			return nil, err
		}
		driveService = ds
	}

	// Record source
	var source service.RecordSource
	switch cfg.Source {
	case config.SourceSheets:
		sheetsService, err := service.NewSheetsService(ctx, cfg.SheetID, cfg.SheetRange, cfg.DocumentsRange, googleOpts...)
		if err != nil {
			return nil, err
		}
		source = sheetsService
		sinks = append(sinks, sheetsService)
	case config.SourceXLSX:
		source = service.NewXLSXService(cfg.XLSXPath, cfg.XLSXSheet, "")
	}
	if cfg.ResultsXLSX != "" {
		sinks = append(sinks, service.NewXLSXService(cfg.XLSXPath, cfg.XLSXSheet, cfg.ResultsXLSX))
	}

	themes, err := theme.NewBook(cfg.ThemesPath)
	if err != nil {
		return nil, err
	}

	// Rendering
	assetStore := service.NewAssetStore(&http.Client{Timeout: cfg.FetchTimeout}, driveService, cfg.AssetDir, cfg.FetchMaxBytes)
	composer := flyer.NewComposer(
		service.NewImageFetcher(cfg.FetchTimeout, cfg.FetchMaxBytes),
		flyer.NewFontSet(assetStore),
		flyer.WithFetchLimit(cfg.FetchConcurrency),
	)
	writer := service.NewPageWriter(cfg.OutputDir, cfg.BaseURL)

	var bundler service.Bundler
	switch cfg.BundleEngine {
	case config.BundleChrome:
		bundler = service.NewChromeBundler(writer, cfg.DocumentPrefix, cfg.ChromePath)
	default:
		bundler = service.NewPDFBundler(writer, cfg.DocumentPrefix)
	}

	deps := service.FlyerServiceDeps{
		Composer:        composer,
		Themes:          themes,
		Assets:          assetStore,
		Writer:          writer,
		Bundler:         bundler,
		Source:          source,
		Drive:           driveService,
		DriveFolderID:   cfg.DriveOutputFolderID,
		Mapping:         models.ColumnMapping{GroupColumn: cfg.GroupColumn, DefaultGroup: cfg.DefaultGroup},
		ContinueOnError: cfg.ContinueOnError,
	}
	if len(sinks) > 0 {
		deps.Sink = sinks
	}
	flyerService := service.NewFlyerService(deps)

	// Create controllers
	controllers := &router.Controllers{
		Flyer: controller.NewFlyerController(flyerService, repo),
	}

	// Setup routes using standard http router
	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers, cfg.OutputDir)

	log.Info("✅ Application initialized",
		zap.String("source", cfg.Source),
		zap.String("bundle", cfg.BundleEngine),
		zap.String("output", cfg.OutputDir),
		zap.Bool("database", repo != nil),
		zap.Bool("drive", driveService != nil),
		zap.Int("sinks", len(sinks)),
	)

	return &App{
		Config:     cfg,
		Flyers:     flyerService,
		Repository: repo,
		Mux:        mux,
	}, nil
}

// Close releases the database connection
func (a *App) Close() error {
	return db.CloseDB()
}
