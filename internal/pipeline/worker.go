package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leadlaw/contractengine/internal/docmodel"
	"github.com/leadlaw/contractengine/internal/normalize"
	"github.com/leadlaw/contractengine/internal/placeholder"
	"github.com/leadlaw/contractengine/internal/templatestore"
)

// Worker processes a single template import job: parse the upload into
// the canonical tree, assign addressable-field ids, store the result.
type Worker struct {
	store *templatestore.Client
	log   *slog.Logger

	pdfFallback bool
}

func NewWorker(store *templatestore.Client, log *slog.Logger, pdfFallback bool) *Worker {
	return &Worker{
		store:       store,
		log:         log,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "template_id", job.TemplateID)

	// Phase 1: Parse the upload.
	job.SetStatus(StatusParsing, "parsing")
	imp, err := normalize.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfImp, ok := imp.(*normalize.PDFImporter); ok {
		pdfImp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Normalize to a guaranteed doc root.
	job.SetStatus(StatusNormalizing, "normalizing")
	doc, warnings := normalize.Normalize(doc)
	job.AddWarnings(warnings)

	// Phase 3: Assign addressable-field ids (single-fire; bare tokens only).
	job.SetStatus(StatusAssigning, "assigning_ids")
	doc = placeholder.AssignIDs(doc)
	job.SetFieldCount(countFields(doc))

	// Phase 4: Store, with retry on transient store failures.
	job.SetStatus(StatusStoring, "storing")
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.PutTemplate(ctx, job.TemplateID, job.Name, job.Currency, doc)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			lastErr = ctx.Err()
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		log.Error("store failed", "error", lastErr)
		job.AddError(fmt.Sprintf("store: %s", lastErr))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	log.Info("template imported", "fields", job.FieldCount)
	job.SetStatus(StatusCompleted, "done")
}

// countFields counts addressable field tokens in the template.
func countFields(doc *docmodel.Node) int {
	count := 0
	doc.WalkText(func(t *docmodel.Node) bool {
		for _, tok := range placeholder.Scan(t.Text) {
			if placeholder.IsAddressable(tok.Kind) && tok.ID != "" {
				count++
			}
		}
		return true
	})
	return count
}
