package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/extract"
	"github.com/joseph-ayodele/einvoice/internal/llm/ollama"
	"github.com/joseph-ayodele/einvoice/internal/pipeline"
	"github.com/joseph-ayodele/einvoice/internal/policy"
	"github.com/joseph-ayodele/einvoice/internal/repository"
)

// App holds the wired extraction stack.
type App struct {
	Config     *common.Config
	Logger     *slog.Logger
	Table      *policy.Table
	Model      *ollama.Client
	Controller *pipeline.Controller
	Service    *pipeline.Service

	// nil when DB_URL is empty
	DB   *repository.DB
	Jobs repository.ExtractionJobRepository
}

// NewLogger returns a JSON slog logger at the named level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New wires the policy table, PDF backend, model client, controller and,
// when a DSN is configured, the job store.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger}

	app.Table = policy.LoadTable(logger, cfg.Policy.MandatoryPath, cfg.Policy.SpecificPath)

	pdf, err := extract.NewPDFBackend(cfg.Extract.PDFBackend, logger)
	if err != nil {
		return nil, err
	}
	adapter := extract.NewAdapter(pdf, cfg.Extract.MaxTextLen, logger)

	temp := cfg.LLM.Temperature
	app.Model = ollama.NewClient(ollama.Config{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		Temperature: &temp,
	}, logger)

	app.Controller = pipeline.NewController(app.Model, app.Table, pipeline.ControllerConfig{
		MaxRetries:  cfg.Extract.MaxRetries,
		BackoffBase: cfg.Extract.BackoffBase,
	}, pipeline.WithLogger(logger))

	var jobs pipeline.JobStore
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		if err := app.openDB(ctx); err != nil {
			return nil, err
		}
		jobs = app.Jobs
	} else {
		logger.Info("job history disabled (DB_URL empty)")
	}

	app.Service = pipeline.NewService(logger, adapter, app.Controller, jobs)
	logger.Info("bootstrap.ready",
		"model", app.Model.Model(),
		"pdf_backend", pdf.Name(),
		"max_retries", cfg.Extract.MaxRetries,
		"job_history", app.DB != nil,
	)
	return app, nil
}

func (a *App) openDB(ctx context.Context) error {
	dsn := a.Config.Database.DSN
	if !repository.IsPostgresDSN(dsn) {
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file:")
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:             dsn,
		MaxConns:        a.Config.Database.MaxConns,
		MinConns:        a.Config.Database.MinConns,
		MaxConnLifetime: a.Config.Database.MaxConnLifetime,
		MaxConnIdleTime: a.Config.Database.MaxConnIdleTime,
		DialTimeout:     a.Config.Database.DialTimeout,
	}, a.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.HealthCheck(ctx, 5*time.Second, a.Logger); err != nil {
		db.Close(a.Logger)
		return fmt.Errorf("ping database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close(a.Logger)
		return err
	}
	a.DB = db
	a.Jobs = repository.NewExtractionJobRepository(db, a.Logger)
	return nil
}

// Close releases the database, if any.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close(a.Logger)
	}
}
