package pipeline

import (
	"image"
	"math"

	"appicon/internal/catalog"
	"appicon/internal/crop"
	"appicon/internal/encode"
	apperrors "appicon/internal/errors"
	"appicon/pkg/imgutil"
)

type MessageType string

const (
	TypeProcessImage MessageType = "PROCESS_IMAGE"
	TypeProgress     MessageType = "PROGRESS"
	TypeComplete     MessageType = "COMPLETE"
	TypeError        MessageType = "ERROR"
	TypeCancelled    MessageType = "CANCELLED"
)

const (
	MaxPadding        = 100
	DefaultBackground = "#FFFFFF"
)

// Options apply uniformly to every size of one batch.
type Options struct {
	Padding         float64          `json:"padding" yaml:"padding"`
	BackgroundColor string           `json:"backgroundColor" yaml:"background"`
	Platform        catalog.Platform `json:"platform,omitempty" yaml:"platform"`
	Format          encode.Format    `json:"format,omitempty" yaml:"format"`
	Quality         int              `json:"quality,omitempty" yaml:"quality"`
}

// DefaultOptions is a lossless PNG export on white with no padding.
func DefaultOptions() Options {
	return Options{
		BackgroundColor: DefaultBackground,
		Format:          encode.FormatPNG,
		Quality:         encode.DefaultQuality,
	}
}

func (o Options) withDefaults() Options {
	if o.BackgroundColor == "" {
		o.BackgroundColor = DefaultBackground
	}
	if o.Format == "" {
		o.Format = encode.FormatPNG
	}
	if o.Quality == 0 {
		o.Quality = encode.DefaultQuality
	}
	return o
}

func (o Options) Validate() error {
	if math.IsNaN(o.Padding) || math.IsInf(o.Padding, 0) {
		return apperrors.Newf(apperrors.KindInvalidInput, "options.validate", "padding %v is not a finite number", o.Padding)
	}
	if o.Padding < 0 || o.Padding > MaxPadding {
		return apperrors.Newf(apperrors.KindInvalidInput, "options.validate", "padding %v outside [0,%d]", o.Padding, MaxPadding)
	}
	if _, err := imgutil.ParseHexColor(o.BackgroundColor); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "options.validate", "background color", err)
	}
	if _, err := encode.ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.Quality < 0 || o.Quality > 100 {
		return apperrors.Newf(apperrors.KindInvalidInput, "options.validate", "quality %d outside [0,100]", o.Quality)
	}
	return nil
}

// RequestPayload is the unit of work handed to the worker. Image is treated as
// read-only; the worker operates on its own square copy.
type RequestPayload struct {
	Image    image.Image          `json:"-"`
	Sizes    []catalog.TargetSize `json:"sizes"`
	Options  Options              `json:"options"`
	Platform catalog.Platform     `json:"platform,omitempty"`
	Crop     *crop.Region         `json:"crop,omitempty"`
}

type Request struct {
	Type    MessageType    `json:"type"`
	Payload RequestPayload `json:"payload"`
}

// NewRequest builds a PROCESS_IMAGE request.
func NewRequest(img image.Image, sizes []catalog.TargetSize, opts Options) Request {
	return Request{
		Type: TypeProcessImage,
		Payload: RequestPayload{
			Image:    img,
			Sizes:    sizes,
			Options:  opts,
			Platform: opts.Platform,
		},
	}
}

// ProcessedIcon is one encoded icon of a batch.
type ProcessedIcon struct {
	Size       catalog.TargetSize `json:"size"`
	Platform   catalog.Platform   `json:"platform"`
	Data       []byte             `json:"-"`
	MimeType   string             `json:"mimeType"`
	Extension  string             `json:"extension"`
	PreviewURI string             `json:"previewURI"`
}

// FileName resolves the size's filename pattern with the encoded extension.
func (p ProcessedIcon) FileName() string {
	return p.Size.FileName(p.Extension)
}

// SizeFailure records a size that was skipped.
type SizeFailure struct {
	Size  catalog.TargetSize `json:"size"`
	Error string             `json:"error"`
	Err   error              `json:"-"`
}

type ProgressPayload struct {
	Progress    float64 `json:"progress"`
	CurrentStep string  `json:"currentStep"`
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
}

type CompletePayload struct {
	ProcessedIcons []ProcessedIcon `json:"processedIcons"`
	Failures       []SizeFailure   `json:"failures,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
	Err   error  `json:"-"`
}

type CancelledPayload struct {
	Reason string `json:"reason"`
}

// Message is one response from the worker. Payload holds the *Payload type
// matching Type.
type Message struct {
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// Result is the outcome of a completed run.
type Result struct {
	Icons    []ProcessedIcon
	Failures []SizeFailure
}

type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Status is a snapshot of one run.
type Status struct {
	State       State
	CurrentStep string
	Progress    float64
	Failures    []SizeFailure
	Err         error
}
