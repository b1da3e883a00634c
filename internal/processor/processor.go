// Package processor generates icon sets for every logo under a directory.
package processor

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"appicon/internal/archive"
	apperrors "appicon/internal/errors"
	"appicon/internal/logging"
	"appicon/internal/pipeline"
	"appicon/pkg/imgutil"
)

// Run finds every supported image under root, exports each one through a
// pipeline.Exporter and writes the results below opts.OutputDir. Logos are
// decoded inside their export job, so at most opts.Workers sources are
// resident at once.
func Run(ctx context.Context, root string, opts Options, updates chan<- ProgressUpdate) (Summary, []LogoReport, error) {
	summary := Summary{}
	logger := logging.OrDiscard(opts.Logger)

	if opts.OutputDir == "" {
		return summary, nil, apperrors.New(apperrors.KindInvalidInput, "processor.run", "output directory required")
	}

	info, err := os.Stat(root)
	if err != nil {
		return summary, nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, nil, err
	}

	var outputAbs string
	var outputInsideRoot bool
	if absOut, outErr := filepath.Abs(opts.OutputDir); outErr == nil {
		outputAbs = absOut
		absRootClean := filepath.Clean(absRoot)
		outputClean := filepath.Clean(outputAbs)
		if outputClean != absRootClean && isWithin(outputClean, absRootClean) {
			outputInsideRoot = true
		}
	}

	jobs := make(chan Job)
	results := make(chan Result)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results, updates)
		}()
	}

	var found []Result
	var reports []LogoReport
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			if !res.Supported {
				continue
			}
			summary.Total++
			if res.Err != nil {
				summary.Errors++
				reports = append(reports, LogoReport{Path: res.Display, Err: res.Err})
				logger.Warn("logo unreadable", "path", res.Display, "error", res.Err)
				send(updates, ProgressUpdate{ErrorDelta: 1, Step: "Rejected " + res.Display})
				continue
			}
			found = append(found, res)
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)

		sendJob := func(job Job) error {
			select {
			case jobs <- job:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !info.IsDir() {
			producerErr <- sendJob(Job{
				Path:    absRoot,
				RelPath: filepath.Base(absRoot),
				Display: filepath.Base(absRoot),
			})
			return
		}

		fsys := os.DirFS(absRoot)
		producerErr <- fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if outputInsideRoot && isWithin(filepath.Join(absRoot, path), outputAbs) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return sendJob(Job{
				Path:    filepath.Join(absRoot, path),
				RelPath: path,
				Display: path,
			})
		})
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return summary, reports, err
	}

	exported, err := export(ctx, found, opts, updates)
	for i, job := range exported {
		res := found[i]
		rep := LogoReport{Path: res.Display, Err: job.Err}
		if job.Result != nil {
			rep.Icons = len(job.Result.Icons)
			rep.Failures = job.Result.Failures
		}
		if job.Status != pipeline.JobCompleted {
			summary.Errors++
			reports = append(reports, rep)
			logger.Warn("logo rejected", "path", res.Display, "error", job.Err)
			send(updates, ProgressUpdate{ErrorDelta: 1, Step: "Failed " + res.Display})
			continue
		}

		output, written, werr := writeOutputs(res, job.Result.Icons, opts)
		rep.Output = output
		if werr != nil {
			rep.Err = werr
			summary.Errors++
			reports = append(reports, rep)
			logger.Error("write icons failed", "path", res.Display, "error", werr)
			send(updates, ProgressUpdate{ErrorDelta: 1, Step: "Failed " + res.Display})
			continue
		}

		summary.Processed++
		summary.Icons += rep.Icons
		summary.Failures += len(rep.Failures)
		summary.BytesWritten += written
		reports = append(reports, rep)
		logger.Info("icons written", "path", res.Display, "output", output, "icons", rep.Icons)
		send(updates, ProgressUpdate{ProcessedDelta: 1, IconDelta: rep.Icons, BytesDelta: written, Step: "Wrote " + output})
	}

	if err != nil && !errors.Is(err, context.Canceled) && !apperrors.IsKind(err, apperrors.KindBatchCancelled) {
		return summary, reports, err
	}
	return summary, reports, nil
}

func export(ctx context.Context, found []Result, opts Options, updates chan<- ProgressUpdate) ([]pipeline.Job, error) {
	if len(found) == 0 {
		return nil, nil
	}

	exporter := pipeline.NewExporter(pipeline.ExporterConfig{
		Workers:  opts.Workers,
		Logger:   opts.Logger,
		Pipeline: []pipeline.Option{pipeline.WithLogger(opts.Logger)},
	})

	var mu sync.Mutex
	progress := make(map[string]float64, len(found))
	overall := func(id string, p float64) float64 {
		mu.Lock()
		defer mu.Unlock()
		progress[id] = p
		var sum float64
		for _, v := range progress {
			sum += v
		}
		return sum / float64(len(found))
	}
	_ = exporter.Subscribe(pipeline.TopicProgress, func(j pipeline.Job) {
		send(updates, ProgressUpdate{Percent: overall(j.ID, j.Progress), Step: j.Name + ": " + j.CurrentStep})
	})
	// A finished job, failed or not, no longer holds the bar back.
	_ = exporter.Subscribe(pipeline.TopicFinished, func(j pipeline.Job) {
		send(updates, ProgressUpdate{Percent: overall(j.ID, 100), Step: j.Name + ": " + string(j.Status)})
	})

	load := opts.loader()
	reqs := make([]pipeline.ExportRequest, 0, len(found))
	for _, res := range found {
		res := res
		reqs = append(reqs, pipeline.ExportRequest{
			Name:    res.Display,
			Request: pipeline.NewRequest(nil, opts.Sizes, opts.Pipeline),
			Load: func() (image.Image, error) {
				src, err := load(res.Path, opts.Limits)
				if err != nil {
					return nil, err
				}
				return src.Image, nil
			},
		})
	}
	return exporter.Export(ctx, reqs)
}

func worker(ctx context.Context, jobs <-chan Job, results chan<- Result, updates chan<- ProgressUpdate) {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			return
		}

		res := Result{Path: job.Path, RelPath: job.RelPath, Display: job.Display}

		file, err := os.Open(job.Path)
		if err != nil {
			res.Supported = true
			res.Err = err
			results <- res
			continue
		}

		kind, err := imgutil.SniffReader(file)
		_ = file.Close()
		if err != nil || kind == imgutil.KindUnknown {
			continue
		}

		res.Supported = true
		send(updates, ProgressUpdate{TotalDelta: 1})
		results <- res
	}
}

// writeOutputs places a logo's icons next to its relative path under the
// output directory, as logo/ or logo-icons.zip.
func writeOutputs(res Result, icons []pipeline.ProcessedIcon, opts Options) (string, int64, error) {
	base := strings.TrimSuffix(filepath.Base(res.RelPath), filepath.Ext(res.RelPath))
	destDir := filepath.Join(opts.OutputDir, filepath.Dir(res.RelPath))

	if opts.Zip {
		a, err := archive.Build(icons, archive.Options{Name: base})
		if err != nil {
			return "", 0, err
		}
		dest := filepath.Join(destDir, a.SuggestedFilename)
		if filepath.Clean(dest) == filepath.Clean(res.Path) {
			return "", 0, apperrors.New(apperrors.KindInvalidInput, "processor.write", "output path resolves to input path")
		}
		if err := archive.WriteFile(a, dest); err != nil {
			return "", 0, err
		}
		return dest, int64(len(a.Data)), nil
	}

	dest := filepath.Join(destDir, base)
	if _, err := archive.WriteDir(icons, dest, archive.Options{Name: base}); err != nil {
		return "", 0, err
	}
	var written int64
	for _, icon := range icons {
		written += int64(len(icon.Data))
	}
	return dest, written, nil
}

func send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}

func isWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(rel, "..") {
		return false
	}
	return true
}
