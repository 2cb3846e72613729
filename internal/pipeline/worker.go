package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/parser"
	"github.com/dgallion1/leadgest/internal/sink"
)

// Worker processes a single document job.
type Worker struct {
	assembler *lead.Assembler
	sink      sink.Sink
	stats     *LatencyStats
	log       *slog.Logger
	loadOpts  parser.Options

	// backoff is swapped out in tests.
	backoff func(attempt int) time.Duration
}

func NewWorker(assembler *lead.Assembler, s sink.Sink, stats *LatencyStats, log *slog.Logger, loadOpts parser.Options) *Worker {
	return &Worker{
		assembler: assembler,
		sink:      s,
		stats:     stats,
		log:       log,
		loadOpts:  loadOpts,
		backoff:   Backoff,
	}
}

// Extract loads one document and assembles its record. Load failures wrap
// parser.ErrInputUnavailable and yield no record.
func (w *Worker) Extract(filename string, data []byte) (lead.Record, string, error) {
	doc, err := parser.Load(bytes.NewReader(data), filename, w.loadOpts)
	if err != nil {
		return lead.Record{}, "", err
	}
	start := time.Now()
	rec := w.assembler.Assemble(doc)
	w.stats.Observe(time.Since(start), rec)
	return rec, doc.Title, nil
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	doc, err := parser.Load(bytes.NewReader(job.FileData()), job.Filename, w.loadOpts)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}
	job.SetTitle(doc.Title)

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	start := time.Now()
	rec := w.assembler.Assemble(doc)
	elapsed := time.Since(start)
	w.stats.Observe(elapsed, rec)
	job.SetRecord(rec)
	log.Info("extraction complete",
		"type", rec.Type,
		"has_name", rec.Name != nil,
		"has_contact", rec.HasContact(),
		"duration_ms", elapsed.Milliseconds(),
	)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	if err := w.store(ctx, job, rec, log); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}

// store writes the record to every sink. Each member of a sink.Multi is
// retried on its own, so a transient failure in one never repeats a write
// another sink already accepted.
func (w *Worker) store(ctx context.Context, job *Job, rec lead.Record, log *slog.Logger) error {
	targets := []sink.Sink{w.sink}
	if m, ok := w.sink.(sink.Multi); ok {
		targets = m
	}
	var errs []error
	for _, s := range targets {
		if err := w.storeOne(ctx, s, job, rec, log); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// storeOne writes to a single sink, retrying transient failures with backoff.
func (w *Worker) storeOne(ctx context.Context, s sink.Sink, job *Job, rec lead.Record, log *slog.Logger) error {
	var lastErr error
	for attempt := range MaxRetries {
		job.IncrStoreAttempts()
		lastErr = s.Write(ctx, job.Filename, rec)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
