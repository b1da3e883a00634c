package pipeline

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "appicon/internal/errors"
	"appicon/internal/logging"
)

// Exporter topics. Handlers receive a Job snapshot.
const (
	TopicQueued   = "export:queued"
	TopicStarted  = "export:started"
	TopicProgress = "export:progress"
	TopicFinished = "export:finished"
)

const DefaultExportWorkers = 3

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// ExportRequest names one batch of an export.
type ExportRequest struct {
	Name    string
	Request Request
	// Load, when set, supplies Request.Payload.Image from inside the job's
	// worker, so only running jobs hold a decoded source.
	Load func() (image.Image, error)
}

// Job is a snapshot of one export entry.
type Job struct {
	ID          string
	Name        string
	Status      JobStatus
	Progress    float64
	CurrentStep string
	Result      *Result
	Err         error
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ExporterConfig struct {
	Workers  int
	Logger   *slog.Logger
	Pipeline []Option
}

// Exporter runs several independent batches with bounded concurrency and
// keeps a registry of their jobs.
type Exporter struct {
	workers  int
	logger   *slog.Logger
	pipeline []Option
	bus      evbus.Bus

	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
}

func NewExporter(cfg ExporterConfig) *Exporter {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultExportWorkers
	}
	if n := runtime.NumCPU(); workers > n {
		workers = n
	}
	return &Exporter{
		workers:  workers,
		logger:   logging.OrDiscard(cfg.Logger),
		pipeline: cfg.Pipeline,
		bus:      evbus.New(),
		jobs:     make(map[string]*Job),
	}
}

// Subscribe registers fn for topic. Handlers run synchronously on the
// publishing goroutine and must not call back into Subscribe.
func (e *Exporter) Subscribe(topic string, fn func(Job)) error {
	return e.bus.Subscribe(topic, fn)
}

func (e *Exporter) Unsubscribe(topic string, fn func(Job)) error {
	return e.bus.Unsubscribe(topic, fn)
}

// Export runs reqs and returns their jobs in request order. Individual
// failures are recorded on the job; the error is only set when ctx ends
// the export early.
func (e *Exporter) Export(ctx context.Context, reqs []ExportRequest) ([]Job, error) {
	ids := make([]string, len(reqs))
	for i, req := range reqs {
		ids[i] = e.enqueue(req.Name)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, req := range reqs {
		id, req := ids[i], req
		g.Go(func() error {
			e.run(gctx, id, req)
			return nil
		})
	}
	_ = g.Wait()

	jobs := make([]Job, 0, len(ids))
	for _, id := range ids {
		if job, ok := e.Job(id); ok {
			jobs = append(jobs, job)
		}
	}
	if err := ctx.Err(); err != nil {
		return jobs, apperrors.Wrap(apperrors.KindBatchCancelled, "exporter.export", "export interrupted", err)
	}
	return jobs, nil
}

func (e *Exporter) enqueue(name string) string {
	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    JobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.mu.Lock()
	e.jobs[job.ID] = job
	e.order = append(e.order, job.ID)
	snapshot := *job
	e.mu.Unlock()

	e.bus.Publish(TopicQueued, snapshot)
	return job.ID
}

func (e *Exporter) run(ctx context.Context, id string, er ExportRequest) {
	if ctx.Err() != nil {
		e.finish(id, nil, apperrors.New(apperrors.KindBatchCancelled, "exporter.run", "export cancelled before start"))
		return
	}
	e.update(id, TopicStarted, func(j *Job) {
		j.Status = JobRunning
		j.CurrentStep = "Starting"
	})

	req := er.Request
	if er.Load != nil {
		img, err := er.Load()
		if err != nil {
			e.finish(id, nil, err)
			return
		}
		req.Payload.Image = img
	}

	p := New(e.pipeline...)
	h, err := p.Submit(ctx, req)
	if err != nil {
		e.finish(id, nil, err)
		return
	}
	for msg := range h.Messages() {
		if msg.Type != TypeProgress {
			continue
		}
		payload := msg.Payload.(ProgressPayload)
		e.update(id, TopicProgress, func(j *Job) {
			j.Progress = payload.Progress
			j.CurrentStep = payload.CurrentStep
		})
	}
	res, err := h.Wait(context.Background())
	e.finish(id, res, err)
}

func (e *Exporter) finish(id string, res *Result, err error) {
	e.update(id, TopicFinished, func(j *Job) {
		j.Result = res
		j.Err = err
		switch {
		case err == nil:
			j.Status = JobCompleted
			j.Progress = 100
			j.CurrentStep = "Complete"
		case apperrors.IsKind(err, apperrors.KindBatchCancelled):
			j.Status = JobCancelled
			j.CurrentStep = "Cancelled"
		default:
			j.Status = JobFailed
			j.CurrentStep = "Failed"
		}
	})
	if err != nil {
		e.logger.Warn("export job ended early", "job", id, "error", err)
	}
}

func (e *Exporter) update(id, topic string, fn func(*Job)) {
	e.mu.Lock()
	job, ok := e.jobs[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	fn(job)
	job.UpdatedAt = time.Now()
	snapshot := *job
	e.mu.Unlock()

	e.bus.Publish(topic, snapshot)
}

func (e *Exporter) Job(id string) (Job, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	job, ok := e.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs lists every registered job in submission order.
func (e *Exporter) Jobs() []Job {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Job, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.jobs[id])
	}
	return out
}

// Remove drops a finished job from the registry.
func (e *Exporter) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	job, ok := e.jobs[id]
	if !ok || job.Status == JobQueued || job.Status == JobRunning {
		return false
	}
	delete(e.jobs, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}
