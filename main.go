package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"flyer-builder/app"
	"flyer-builder/config"
	"flyer-builder/logger"
)

const usage = "usage: flyer-builder [generate|serve]"

func main() {
	// Load .env in development; in production variables are set directly.
	// Overload so .env values win over the system environment.
	var envErr error
	if os.Getenv("ENV") != "production" {
		envErr = godotenv.Overload(".env")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if envErr != nil {
		log.Warn("⚠️  .env file not found, using system environment variables", zap.Error(envErr))
	}

	mode := "generate"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch mode {
	case "generate":
		runErr = generate(ctx, cfg)
	case "serve":
		runErr = serve(ctx, cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if runErr != nil {
		log.Error("❌ "+mode+" failed", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}
}

func generate(ctx context.Context, cfg config.Config) error {
	a, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Flyers.Generate(ctx)
	if result != nil {
		logger.GetLogger().Info("📊 Run summary",
			zap.String("runId", result.RunID),
			zap.Int("pages", len(result.Pages)),
			zap.Int("documents", len(result.Documents)),
			zap.Int("failures", len(result.Failures)),
		)
	}
	return err
}

func serve(ctx context.Context, cfg config.Config) error {
	a, err := app.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.GetLogger().Info("Server starting",
		zap.String("addr", addr),
		zap.String("generate", fmt.Sprintf("POST http://localhost:%s/admin/flyers/generate", cfg.Port)),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
