// Package pipeline runs the check, extract, parse, rename and mark sequence over every
// document found under the configured root folders.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
	"github.com/joseph-ayodele/receipts-renamer/internal/pdfinfo"
	"github.com/joseph-ayodele/receipts-renamer/internal/rename"
	"github.com/joseph-ayodele/receipts-renamer/internal/storage"
	"github.com/joseph-ayodele/receipts-renamer/internal/tracker"
)

// Processor handles one document at a time.
type Processor struct {
	Logger    *slog.Logger
	Tracker   tracker.Tracker
	Extractor llm.Extractor
	// Preflight counts pages with pdfcpu before extraction. Failures only warn.
	Preflight bool
}

func NewProcessor(logger *slog.Logger, t tracker.Tracker, e llm.Extractor, preflight bool) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Tracker: t, Extractor: e, Preflight: preflight}
}

// ProcessDocument never returns an error: every failure is reported in the Outcome.
// The mark is written only after a successful rename.
func (p *Processor) ProcessDocument(ctx context.Context, doc storage.Document) Outcome {
	out := Outcome{DocumentID: doc.ID(), Name: doc.Name()}
	log := p.Logger.With("document_id", out.DocumentID, "name", out.Name)

	fail := func(status constants.OutcomeStatus, err error, event string) Outcome {
		out.Status, out.Err = status, err
		log.Error(event, "status", string(status), "error", err)
		return out
	}

	done, err := p.Tracker.IsProcessed(ctx, out.DocumentID)
	if err != nil {
		return fail(constants.OutcomeStorageFailure, err, "pipeline.tracker.check_failed")
	}
	if done {
		out.Status = constants.OutcomeSkipped
		log.Debug("pipeline.document.skipped")
		return out
	}

	blob, err := doc.Blob(ctx)
	if err != nil {
		return fail(constants.OutcomeStorageFailure, err, "pipeline.document.read_failed")
	}

	if p.Preflight {
		if info, err := pdfinfo.Inspect(blob); err != nil {
			log.Warn("pipeline.preflight.unreadable", "bytes", info.Bytes, "error", err)
		} else {
			log.Info("pipeline.preflight.ok", "pages", info.Pages, "bytes", info.Bytes)
		}
	}

	raw, err := p.Extractor.Extract(ctx, blob)
	if err != nil {
		return fail(constants.OutcomeTransportFailure, err, "pipeline.extract.failed")
	}
	log.Debug("pipeline.extract.response", "text", llm.ResponseText(raw))

	fields, err := llm.ParseResponse(raw)
	switch {
	case errors.Is(err, llm.ErrNoJSONObject):
		return fail(constants.OutcomeParseFailure, err, "pipeline.parse.no_json")
	case err != nil:
		return fail(constants.OutcomeJSONMalformed, err, "pipeline.parse.malformed")
	}

	out.NewName = rename.BuildName(fields)
	if err := rename.Apply(ctx, doc, out.NewName); err != nil {
		return fail(constants.OutcomeRenameFailure, err, "pipeline.rename.failed")
	}
	// Providers may have disambiguated the target name.
	out.NewName = doc.Name()

	if err := p.Tracker.MarkProcessed(ctx, out.DocumentID); err != nil {
		return fail(constants.OutcomeMarkFailure, err, "pipeline.tracker.mark_failed")
	}

	out.Status = constants.OutcomeRenamed
	log.Info("pipeline.document.renamed",
		"new_name", out.NewName,
		"invoice_date", fields.InvoiceDate,
		"total_amount", fields.TotalAmount,
		"issuer", fields.Issuer,
	)
	return out
}
