package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/common"
	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
	"github.com/joseph-ayodele/receipts-renamer/internal/properties"
	"github.com/joseph-ayodele/receipts-renamer/internal/storage"
	"github.com/joseph-ayodele/receipts-renamer/internal/tracker"
)

// ExtractorFactory builds the extractor for a run from the loaded configuration.
type ExtractorFactory func(cfg properties.Configuration) llm.Extractor

// Runner walks every configured root folder and processes each PDF in order.
type Runner struct {
	Logger       *slog.Logger
	Provider     storage.Provider
	Tracker      tracker.Tracker
	NewExtractor ExtractorFactory
	Preflight    bool
}

func NewRunner(logger *slog.Logger, provider storage.Provider, t tracker.Tracker, newExtractor ExtractorFactory, preflight bool) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Logger: logger, Provider: provider, Tracker: t, NewExtractor: newExtractor, Preflight: preflight}
}

// Run processes all roots sequentially. Only an empty configuration or a
// cancelled context stop it early; per-document failures are in the Summary.
func (r *Runner) Run(ctx context.Context, cfg properties.Configuration) (Summary, error) {
	summary := Summary{RunID: uuid.New().String(), StartedAt: time.Now().UTC()}
	ctx = common.WithRunID(ctx, summary.RunID)
	log := r.Logger.With("run_id", summary.RunID)

	if cfg.APIKey == "" {
		return summary, common.MissingConfiguration(constants.PropertyAPIKey)
	}
	if len(cfg.RootFolderIDs) == 0 {
		return summary, common.MissingConfiguration(constants.PropertyRootFolderIDs)
	}

	proc := NewProcessor(log, r.Tracker, r.NewExtractor(cfg), r.Preflight)
	log.Info("pipeline.run.start", "roots", len(cfg.RootFolderIDs), "model", cfg.ModelName)

	for _, rootID := range cfg.RootFolderIDs {
		if ctx.Err() != nil {
			break
		}
		root, err := r.Provider.FolderByID(ctx, rootID)
		if err != nil {
			summary.RootFailures++
			log.Error("pipeline.root.open_failed", "root_id", rootID, "error", err)
			continue
		}
		log.Info("pipeline.root.start", "root_id", rootID, "root_name", root.Name())

		for doc, err := range storage.Walk(ctx, root) {
			if err != nil {
				log.Error("pipeline.walk.error", "root_id", rootID, "error", err)
				summary.WalkErrors++
				continue
			}
			summary.add(proc.ProcessDocument(ctx, doc))
			if ctx.Err() != nil {
				break
			}
		}
	}

	summary.FinishedAt = time.Now().UTC()
	log.Info("pipeline.run.summary",
		"scanned", summary.Scanned,
		"renamed", summary.Renamed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"root_failures", summary.RootFailures,
		"walk_errors", summary.WalkErrors,
		"elapsed_ms", summary.FinishedAt.Sub(summary.StartedAt).Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		log.Warn("pipeline.run.interrupted", "error", err)
		return summary, err
	}
	return summary, nil
}

// IsInterrupted reports whether err from Run came from a cancelled or expired context.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
