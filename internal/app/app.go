package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"SalaryPrep/internal/config"
	"SalaryPrep/internal/infrastructure/fetch"
	"SalaryPrep/internal/infrastructure/metrics"
	"SalaryPrep/internal/infrastructure/parser"
	"SalaryPrep/internal/infrastructure/storage"
	"SalaryPrep/internal/infrastructure/trainer"
	"SalaryPrep/internal/logging"
	"SalaryPrep/internal/prep"
	"SalaryPrep/internal/usecase"
)

// Application wires configs to the preparation pipeline and its sinks.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. A configured database is
// connected eagerly so misconfiguration fails before any work is done.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	recordParser, err := parser.NewRegistry().Resolve(cfg.Source.Format)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", cfg.Source.Name, err)
	}

	source := fetch.NewHTTPSource(
		cfg.Source.URL,
		&http.Client{Timeout: cfg.Source.Timeout},
		cfg.Source.MaxAttempts,
		baseLogger.With("component", "source"),
	)

	deps := usecase.PipelineDeps{
		Source:     source,
		Parser:     recordParser,
		Metrics:    metrics.New(cfg.Metrics.PushgatewayURL, cfg.Metrics.Job),
		Options:    cfg.Prep.Options(),
		SourceName: cfg.Source.Name,
		Logger:     baseLogger.With("component", "pipeline"),
	}

	application := &Application{cfg: cfg, logger: baseLogger}

	if cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		application.db = db
		deps.Store = storage.NewPostgresStore(db)
	}

	if cfg.Trainer.Endpoint != "" {
		deps.Publisher = trainer.NewClient(cfg.Trainer.Endpoint, cfg.Trainer.APIKey)
	}

	application.pipeline = usecase.NewPipeline(deps)
	return application, nil
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context) (*prep.Artifacts, error) {
	return a.pipeline.Run(ctx)
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
