package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/leadgest/internal/config"
	"github.com/dgallion1/leadgest/internal/entity"
	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/parser"
	"github.com/dgallion1/leadgest/internal/pathstore"
	"github.com/dgallion1/leadgest/internal/sink"
)

type stubDetector struct{ names []string }

func (s stubDetector) Detect(string) entity.CandidateSet {
	return entity.NewCandidateSet(s.names...)
}

type recordingSink struct {
	mu      sync.Mutex
	errs    []error
	calls   int
	sources []string
	records []lead.Record
}

func (r *recordingSink) Write(_ context.Context, source string, rec lead.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		if err != nil {
			return err
		}
	}
	r.sources = append(r.sources, source)
	r.records = append(r.records, rec)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(s sink.Sink, names ...string) *Worker {
	log := quietLogger()
	a := lead.NewAssembler(stubDetector{names: names}, nil, log)
	w := NewWorker(a, s, NewLatencyStats(time.Hour), log, parser.Options{})
	w.backoff = func(int) time.Duration { return 0 }
	return w
}

const inquiry = "My name is Jane Doe\n\njane@home.net, 555-222-3333\n\nBeds: 4"

func TestWorker_ProcessCompletes(t *testing.T) {
	s := &recordingSink{}
	w := newTestWorker(s, "Jane Doe")
	job := NewJob("inquiry.txt", []byte(inquiry))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.Title != "inquiry" {
		t.Errorf("expected title from loader, got %q", snap.Title)
	}
	if snap.Record == nil || snap.Record.Name == nil || *snap.Record.Name != "Jane Doe" {
		t.Fatalf("expected record with name, got %+v", snap.Record)
	}
	if len(s.sources) != 1 || s.sources[0] != "inquiry.txt" {
		t.Errorf("expected one write for inquiry.txt, got %v", s.sources)
	}
	if *s.records[0].Email != "jane@home.net" {
		t.Errorf("expected stored email jane@home.net, got %q", *s.records[0].Email)
	}
	if w.stats.Snapshot().WithName != 1 {
		t.Error("expected extraction to be observed in stats")
	}
}

func TestWorker_LoadFailureHasNoRecord(t *testing.T) {
	s := &recordingSink{}
	w := newTestWorker(s)
	job := NewJob("inquiry.exe", []byte("x"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "loading" {
		t.Errorf("expected failed in loading, got %q/%q", snap.Status, snap.Phase)
	}
	if snap.Record != nil {
		t.Errorf("expected no record, got %+v", snap.Record)
	}
	if s.calls != 0 {
		t.Errorf("expected no sink writes, got %d", s.calls)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Errors)
	}
}

func TestWorker_RetriesTransientStoreErrors(t *testing.T) {
	s := &recordingSink{errs: []error{
		&pathstore.RetryableError{StatusCode: 503},
		&pathstore.RetryableError{StatusCode: 429},
	}}
	w := newTestWorker(s)
	job := NewJob("inquiry.txt", []byte(inquiry))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed after retries, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if snap.StoreAttempts != 3 {
		t.Errorf("expected 3 store attempts, got %d", snap.StoreAttempts)
	}
}

func TestWorker_RetriesOnlyTheFailingSink(t *testing.T) {
	good := &recordingSink{}
	flaky := &recordingSink{errs: []error{
		&pathstore.RetryableError{StatusCode: 503},
		&pathstore.RetryableError{StatusCode: 503},
	}}
	w := newTestWorker(sink.Multi{good, flaky})
	job := NewJob("inquiry.txt", []byte(inquiry))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Errors)
	}
	if good.calls != 1 || len(good.records) != 1 {
		t.Errorf("expected one write to the healthy sink, got %d calls and %d records", good.calls, len(good.records))
	}
	if flaky.calls != 3 || len(flaky.records) != 1 {
		t.Errorf("expected 3 calls and 1 stored record on the flaky sink, got %d and %d", flaky.calls, len(flaky.records))
	}
	if snap.StoreAttempts != 4 {
		t.Errorf("expected 4 store attempts, got %d", snap.StoreAttempts)
	}
}

func TestWorker_MultiKeepsWritingAfterPermanentError(t *testing.T) {
	broken := &recordingSink{errs: []error{errors.New("disk full")}}
	good := &recordingSink{}
	w := newTestWorker(sink.Multi{broken, good})
	job := NewJob("inquiry.txt", []byte(inquiry))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "storing" {
		t.Errorf("expected failed in storing, got %q/%q", snap.Status, snap.Phase)
	}
	if broken.calls != 1 {
		t.Errorf("expected permanent error not to be retried, got %d calls", broken.calls)
	}
	if len(good.records) != 1 {
		t.Errorf("expected the second sink to store the record, got %d", len(good.records))
	}
}

func TestWorker_PermanentStoreErrorFails(t *testing.T) {
	s := &recordingSink{errs: []error{errors.New("disk full")}}
	w := newTestWorker(s)
	job := NewJob("inquiry.txt", []byte(inquiry))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "storing" {
		t.Errorf("expected failed in storing, got %q/%q", snap.Status, snap.Phase)
	}
	if snap.StoreAttempts != 1 {
		t.Errorf("expected no retry for a permanent error, got %d attempts", snap.StoreAttempts)
	}
	if snap.Record == nil {
		t.Error("expected extracted record to be kept on the job")
	}
}

func TestWorker_ExtractWrapsInputUnavailable(t *testing.T) {
	w := newTestWorker(&recordingSink{})
	_, _, err := w.Extract("lead.bin", []byte("x"))
	if !errors.Is(err, parser.ErrInputUnavailable) {
		t.Errorf("expected ErrInputUnavailable, got %v", err)
	}
}

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 10, JobTTL: time.Hour}
	s := &recordingSink{}
	log := quietLogger()
	o := NewOrchestrator(cfg, lead.NewAssembler(stubDetector{}, nil, log), s, log)
	o.Start(context.Background())

	var jobs []*Job
	for range 5 {
		job := NewJob("inquiry.txt", []byte(inquiry))
		if err := o.Submit(job); err != nil {
			t.Fatalf("submit: %v", err)
		}
		jobs = append(jobs, job)
	}

	deadline := time.Now().Add(5 * time.Second)
	for _, job := range jobs {
		for job.Snapshot().Status != StatusCompleted {
			if time.Now().After(deadline) {
				t.Fatalf("job %s stuck in %q", job.ID, job.Snapshot().Status)
			}
			time.Sleep(5 * time.Millisecond)
		}
		if o.GetJob(job.ID) != job {
			t.Errorf("expected job %s in store", job.ID)
		}
	}
	o.Stop()

	if s.calls != 5 {
		t.Errorf("expected 5 sink writes, got %d", s.calls)
	}
	if o.Stats().Snapshot().Count != 5 {
		t.Errorf("expected 5 latency samples, got %d", o.Stats().Snapshot().Count)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	log := quietLogger()
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, lead.NewAssembler(stubDetector{}, nil, log), &recordingSink{}, log)

	if err := o.Submit(NewJob("a.txt", nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b.txt", nil)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue full error")
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job marked failed, got %q", second.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
