package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/common"
	"github.com/joseph-ayodele/receipts-renamer/internal/export"
	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
	"github.com/joseph-ayodele/receipts-renamer/internal/llm/gemini"
	"github.com/joseph-ayodele/receipts-renamer/internal/pipeline"
	"github.com/joseph-ayodele/receipts-renamer/internal/properties"
	"github.com/joseph-ayodele/receipts-renamer/internal/repository"
	"github.com/joseph-ayodele/receipts-renamer/internal/storage"
	"github.com/joseph-ayodele/receipts-renamer/internal/tracker"
)

// App owns every long-lived client the renamer needs.
type App struct {
	Config  *common.Config
	Logger  *slog.Logger
	Backend properties.Backend
	Script  properties.Store
	Tracker tracker.Tracker
	Runner  *pipeline.Runner
	Reports *export.Service

	gcsClient *gcs.Client
	StartedAt time.Time
}

// New wires the property backend, storage provider and pipeline from cfg.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger, StartedAt: time.Now()}

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.Backend = backend
	app.Script = properties.Scoped(backend, constants.ScopeScript)
	app.Tracker = tracker.New(properties.Scoped(backend, constants.UserScope(cfg.Properties.Principal)), logger)

	provider, err := app.openProvider(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	gcfg := cfg.Gemini
	newExtractor := func(pc properties.Configuration) llm.Extractor {
		return gemini.NewClient(gemini.Config{
			APIKey:  pc.APIKey,
			BaseURL: gcfg.BaseURL,
			Model:   pc.ModelName,
			Timeout: gcfg.Timeout,
		}, logger)
	}
	app.Runner = pipeline.NewRunner(logger, provider, app.Tracker, newExtractor, true)
	app.Reports = export.NewService(logger)

	logger.Info("bootstrap.ready",
		"properties_backend", cfg.Properties.Backend,
		"storage_provider", cfg.Storage.Provider,
		"principal", cfg.Properties.Principal,
	)
	return app, nil
}

func openBackend(ctx context.Context, cfg *common.Config, logger *slog.Logger) (properties.Backend, error) {
	switch strings.ToLower(cfg.Properties.Backend) {
	case "redis":
		client, err := properties.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return properties.NewRedisBackend(client, logger), nil
	case "firestore":
		client, err := properties.NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return nil, err
		}
		return properties.NewFirestoreBackend(client, cfg.Firestore.CollectionPrefix, logger), nil
	default:
		db, err := repository.Open(ctx, repository.Config{
			Driver:           cfg.Database.Driver,
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return properties.NewSQLBackend(repository.NewPropertyRepository(db, logger), func() error {
			repository.Close(db, logger)
			return nil
		}), nil
	}
}

func (a *App) openProvider(ctx context.Context) (storage.Provider, error) {
	if strings.EqualFold(a.Config.Storage.Provider, "gcs") {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		a.gcsClient = client
		return storage.NewGCSProvider(client, a.Config.Storage.Bucket, a.Logger), nil
	}
	return storage.NewLocalProvider(a.Logger), nil
}

// Initialize seeds the script-scope configuration from the [seed] section.
func (a *App) Initialize(ctx context.Context) (bool, error) {
	return properties.Initialize(ctx, a.Script, properties.Seed{
		APIKey:        a.Config.Seed.APIKey,
		RootFolderIDs: a.Config.Seed.RootFolderIDs,
		ModelName:     a.Config.Seed.Model,
	}, a.Logger)
}

// RunOnce loads the configuration, processes every root and writes the report when configured.
func (a *App) RunOnce(ctx context.Context) (pipeline.Summary, error) {
	pc, err := properties.LoadConfiguration(ctx, a.Script)
	if err != nil {
		a.Logger.Error("pipeline.config.load_failed", "error", err)
		return pipeline.Summary{}, err
	}

	sum, runErr := a.Runner.Run(ctx, pc)
	if path := a.Config.Report.Path; path != "" && sum.RunID != "" {
		if err := a.Reports.WriteRunReport(expandReportPath(path, sum), sum); err != nil {
			a.Logger.Error("export.report.failed", "path", path, "error", err)
		} else {
			a.Logger.Info("export.report.written", "path", path)
		}
	}
	return sum, runErr
}

// expandReportPath substitutes {run_id} so repeated runs keep separate reports.
func expandReportPath(path string, sum pipeline.Summary) string {
	return strings.ReplaceAll(path, "{run_id}", sum.RunID)
}

func (a *App) Close() error {
	var errs []error
	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close properties backend: %w", err))
		}
	}
	if a.gcsClient != nil {
		if err := a.gcsClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage client: %w", err))
		}
	}
	return errors.Join(errs...)
}
