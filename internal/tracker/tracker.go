// Package tracker records which documents have already been renamed.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/properties"
)

// Tracker is a durable per-document processed flag.
type Tracker interface {
	IsProcessed(ctx context.Context, documentID string) (bool, error)
	MarkProcessed(ctx context.Context, documentID string) error
}

type propertyTracker struct {
	store  properties.Store
	logger *slog.Logger
}

// New returns a Tracker backed by a user-scoped property store.
func New(store properties.Store, logger *slog.Logger) Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &propertyTracker{store: store, logger: logger}
}

func (t *propertyTracker) IsProcessed(ctx context.Context, documentID string) (bool, error) {
	v, ok, err := t.store.Get(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("check processed %s: %w", documentID, err)
	}
	return ok && v == constants.ProcessedMarker, nil
}

func (t *propertyTracker) MarkProcessed(ctx context.Context, documentID string) error {
	if err := t.store.Set(ctx, documentID, constants.ProcessedMarker); err != nil {
		return fmt.Errorf("mark processed %s: %w", documentID, err)
	}
	t.logger.Debug("tracker.marked", "document_id", documentID)
	return nil
}
