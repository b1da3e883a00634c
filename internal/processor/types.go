package processor

import (
	"log/slog"

	"appicon/internal/catalog"
	"appicon/internal/pipeline"
	"appicon/internal/source"
)

type Options struct {
	Sizes     []catalog.TargetSize
	Pipeline  pipeline.Options
	Limits    source.Limits
	OutputDir string
	// Zip writes one archive per logo instead of a directory tree.
	Zip     bool
	Workers int
	Logger  *slog.Logger
	// Loader decodes one logo. Defaults to source.Open.
	Loader func(path string, lim source.Limits) (*source.Source, error)
}

func (o Options) loader() func(string, source.Limits) (*source.Source, error) {
	if o.Loader != nil {
		return o.Loader
	}
	return source.Open
}

type Job struct {
	Path    string
	RelPath string
	Display string
}

type Result struct {
	Path      string
	RelPath   string
	Display   string
	Supported bool
	Err       error
}

type Summary struct {
	Total        int
	Processed    int
	Errors       int
	Icons        int
	Failures     int
	BytesWritten int64
}

// LogoReport is the outcome for one logo.
type LogoReport struct {
	Path     string
	Output   string
	Icons    int
	Failures []pipeline.SizeFailure
	Err      error
}

// ProgressUpdate carries deltas plus the current overall percentage.
type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	ErrorDelta     int
	IconDelta      int
	BytesDelta     int64
	Percent        float64
	Step           string
}
