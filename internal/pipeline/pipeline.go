// Package pipeline runs icon batches off the caller's goroutine and reports
// back over a message channel.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"appicon/internal/catalog"
	"appicon/internal/compose"
	"appicon/internal/crop"
	"appicon/internal/encode"
	apperrors "appicon/internal/errors"
	"appicon/internal/logging"
	"appicon/pkg/imgutil"
)

// Encoder turns a finished icon buffer into bytes.
type Encoder interface {
	Encode(img image.Image) (*encode.Encoded, error)
}

// EncoderFactory builds the encoder for one batch.
type EncoderFactory func(opts Options) Encoder

func defaultEncoder(opts Options) Encoder {
	return encode.New(opts.Format, opts.Quality)
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrDiscard(l) }
}

func WithRules(r *compose.Rules) Option {
	return func(p *Pipeline) { p.rules = r }
}

func WithEncoderFactory(f EncoderFactory) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.newEncoder = f
		}
	}
}

// Pipeline owns at most one running batch. Submitting a new batch cancels
// the active one first.
type Pipeline struct {
	logger     *slog.Logger
	rules      *compose.Rules
	newEncoder EncoderFactory

	submitMu sync.Mutex
	mu       sync.Mutex
	active   *Handle
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:     logging.Discard(),
		rules:      compose.DefaultRules(),
		newEncoder: defaultEncoder,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type job struct {
	source   *image.NRGBA
	sizes    []catalog.TargetSize
	opts     Options
	platform catalog.Platform
	bg       color.NRGBA
}

// Submit validates req, supersedes any running batch and starts a new one.
// Validation failures, including an invalid crop region, are returned
// before any work starts.
func (p *Pipeline) Submit(ctx context.Context, req Request) (*Handle, error) {
	const op = "pipeline.submit"
	if req.Type != TypeProcessImage {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, op, "unexpected request type %q", req.Type)
	}
	payload := req.Payload
	if payload.Image == nil {
		return nil, apperrors.New(apperrors.KindInvalidInput, op, "missing source image")
	}

	opts := payload.Options.withDefaults()
	if payload.Platform != "" {
		opts.Platform = payload.Platform
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Format, _ = encode.ParseFormat(string(opts.Format))
	bg, err := imgutil.ParseHexColor(opts.BackgroundColor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, op, "background color", err)
	}

	// Square always returns a fresh buffer, so the worker never touches the
	// caller's image.
	square, err := crop.Square(payload.Image, payload.Crop)
	if err != nil {
		return nil, err
	}

	j := job{
		source:   square,
		sizes:    append([]catalog.TargetSize(nil), payload.Sizes...),
		opts:     opts,
		platform: opts.Platform,
		bg:       bg,
	}

	p.submitMu.Lock()
	defer p.submitMu.Unlock()

	if prev := p.Active(); prev != nil {
		prev.Cancel()
		<-prev.Done()
	}

	h := newHandle(ctx, len(j.sizes))
	p.mu.Lock()
	p.active = h
	p.mu.Unlock()

	p.logger.Debug("batch submitted", "batch", h.ID, "sizes", len(j.sizes), "platform", j.platform, "format", opts.Format)
	go p.work(h, j)
	return h, nil
}

// Active returns the most recent batch, or nil before the first Submit.
func (p *Pipeline) Active() *Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Cancel cancels the active batch if it is still running.
func (p *Pipeline) Cancel() {
	if h := p.Active(); h != nil {
		h.Cancel()
	}
}

// Status reports the active batch, or an idle status.
func (p *Pipeline) Status() Status {
	if h := p.Active(); h != nil {
		return h.Status()
	}
	return Status{State: StateIdle}
}

func (p *Pipeline) work(h *Handle, j job) {
	defer close(h.done)
	defer h.release()
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.Newf(apperrors.KindWorkerTransport, "pipeline.worker", "worker terminated: %v", r)
			p.logger.Error("batch worker crashed", "batch", h.ID, "error", err)
			h.fail(err)
		}
	}()

	enc := p.newEncoder(j.opts)
	total := len(j.sizes)
	icons := make([]ProcessedIcon, 0, total)
	var failures []SizeFailure

	for i, size := range j.sizes {
		if h.ctx.Err() != nil {
			h.cancelled()
			p.logger.Info("batch cancelled", "batch", h.ID, "completed", i, "total", total)
			return
		}

		platform := resolvePlatform(size, j.platform)
		icon, err := p.processSize(j, enc, size, platform)
		step := fmt.Sprintf("Generated %s (%s)", size.Name, size.Dimensions())
		if err != nil {
			failure := SizeFailure{Size: size, Error: err.Error(), Err: err}
			failures = append(failures, failure)
			h.recordFailure(failure)
			step = fmt.Sprintf("Skipped %s (%s)", size.Name, size.Dimensions())
			p.logger.Warn("icon size failed", "batch", h.ID, "size", size.Name, "dimensions", size.Dimensions(), "error", err)
		} else {
			icons = append(icons, icon)
		}

		if i+1 < total {
			h.progress(ProgressPayload{
				Progress:    float64(i+1) / float64(total) * 100,
				CurrentStep: step,
				Completed:   i + 1,
				Total:       total,
			})
		}
	}

	if h.ctx.Err() != nil {
		h.cancelled()
		return
	}
	if h.complete(icons, failures) {
		p.logger.Info("batch complete", "batch", h.ID, "icons", len(icons), "failures", len(failures))
	}
}

func (p *Pipeline) processSize(j job, enc Encoder, size catalog.TargetSize, platform catalog.Platform) (icon ProcessedIcon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Newf(apperrors.KindEncodingFailed, "pipeline.size", "%s: %v", size.Name, r)
		}
	}()

	buf := compose.Composite(j.source, size.Width, size.Height, j.opts.Padding, j.bg)
	buf = p.rules.Apply(buf, size, platform, j.bg)

	out, err := enc.Encode(buf)
	if err != nil {
		return ProcessedIcon{}, err
	}
	return ProcessedIcon{
		Size:       size,
		Platform:   platform,
		Data:       out.Data,
		MimeType:   out.MimeType,
		Extension:  out.Extension,
		PreviewURI: out.PreviewURI,
	}, nil
}

// resolvePlatform prefers the platform a catalog entry belongs to; custom
// sizes take the batch platform.
func resolvePlatform(size catalog.TargetSize, batch catalog.Platform) catalog.Platform {
	if size.Platform != "" && size.Platform != catalog.PlatformCustom {
		return size.Platform
	}
	if batch != "" {
		return batch
	}
	return catalog.PlatformCustom
}

// Handle tracks one submitted batch.
type Handle struct {
	ID string

	ctx      context.Context
	cancel   context.CancelFunc
	stop     func() bool
	messages chan Message
	done     chan struct{}

	mu     sync.Mutex
	status Status
	result *Result
	closed bool
}

func newHandle(parent context.Context, sizes int) *Handle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		ID:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		// Every size emits at most one message, plus the final progress and
		// the terminal message, so the worker never blocks on a slow reader.
		messages: make(chan Message, sizes+2),
		done:     make(chan struct{}),
		status:   Status{State: StateRunning, CurrentStep: "Starting"},
	}
	h.stop = context.AfterFunc(ctx, h.markCancelled)
	return h
}

// Messages yields PROGRESS messages followed by exactly one terminal message
// (COMPLETE, ERROR or CANCELLED). The channel is closed afterwards.
func (h *Handle) Messages() <-chan Message {
	return h.messages
}

// Done is closed once the worker has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel moves a running batch straight to cancelled. Messages still in
// flight from the worker are dropped.
func (h *Handle) Cancel() {
	h.markCancelled()
	h.cancel()
}

func (h *Handle) markCancelled() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status.State == StateRunning {
		h.status.State = StateCancelled
		h.status.CurrentStep = "Cancelled"
	}
}

func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.status
	s.Failures = append([]SizeFailure(nil), h.status.Failures...)
	return s
}

// Wait blocks until the worker exits and returns its result. A cancelled
// batch reports ErrBatchCancelled.
func (h *Handle) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.status.State {
	case StateCompleted:
		return h.result, nil
	case StateFailed:
		return nil, h.status.Err
	default:
		return nil, apperrors.New(apperrors.KindBatchCancelled, "pipeline.wait", "batch cancelled")
	}
}

func (h *Handle) release() {
	h.stop()
	h.cancel()
}

func (h *Handle) recordFailure(f SizeFailure) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status.State == StateRunning {
		h.status.Failures = append(h.status.Failures, f)
	}
}

func (h *Handle) progress(p ProgressPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.status.State != StateRunning {
		return
	}
	if p.Progress > h.status.Progress {
		h.status.Progress = p.Progress
	}
	h.status.CurrentStep = p.CurrentStep
	h.messages <- Message{Type: TypeProgress, Payload: p}
}

// complete reports false when the batch was cancelled first.
func (h *Handle) complete(icons []ProcessedIcon, failures []SizeFailure) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.status.State != StateRunning {
		h.terminate(Message{Type: TypeCancelled, Payload: CancelledPayload{Reason: "cancelled"}})
		return false
	}

	total := len(icons) + len(failures)
	h.status.State = StateCompleted
	h.status.Progress = 100
	h.status.CurrentStep = "Complete"
	h.result = &Result{Icons: icons, Failures: failures}
	h.messages <- Message{Type: TypeProgress, Payload: ProgressPayload{
		Progress:    100,
		CurrentStep: "Complete",
		Completed:   total,
		Total:       total,
	}}
	h.terminate(Message{Type: TypeComplete, Payload: CompletePayload{ProcessedIcons: icons, Failures: failures}})
	return true
}

func (h *Handle) cancelled() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.status.State = StateCancelled
	h.status.CurrentStep = "Cancelled"
	h.terminate(Message{Type: TypeCancelled, Payload: CancelledPayload{Reason: "cancelled"}})
}

func (h *Handle) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.status.State == StateCancelled {
		h.terminate(Message{Type: TypeCancelled, Payload: CancelledPayload{Reason: "cancelled"}})
		return
	}
	h.status.State = StateFailed
	h.status.Err = err
	h.status.CurrentStep = "Failed"
	h.terminate(Message{Type: TypeError, Payload: ErrorPayload{Error: err.Error(), Err: err}})
}

// terminate must be called with mu held.
func (h *Handle) terminate(msg Message) {
	h.messages <- msg
	close(h.messages)
	h.closed = true
}
