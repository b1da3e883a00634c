package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	apperrors "appicon/internal/errors"
	"appicon/internal/pipeline"
	"appicon/internal/source"
)

const watchDebounce = 300 * time.Millisecond

var watchFlags genFlags

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <logo>",
	Short: "Regenerate icons whenever the logo changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		req, err := watchFlags.build(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w, err := fsnotify.NewWatcher()
		if err != nil {
			return apperrors.Wrap(apperrors.KindIO, "cmd.watch", "create watcher", err)
		}
		defer w.Close()
		// Editors often replace files, so watch the directory.
		if err := w.Add(filepath.Dir(path)); err != nil {
			return apperrors.Wrap(apperrors.KindIO, "cmd.watch", "watch "+filepath.Dir(path), err)
		}

		r := &regenerator{
			path:     path,
			req:      req,
			flags:    &watchFlags,
			pipeline: pipeline.New(pipeline.WithLogger(logger)),
		}
		logger.Info("watching logo", "path", path)
		r.run(ctx)

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				r.shutdown()
				return nil
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() { r.run(ctx) })
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	},
}

// regenerator submits one batch per change to a shared pipeline, so a new
// change supersedes the batch still running for the previous one.
type regenerator struct {
	path     string
	req      pipeline.Request
	flags    *genFlags
	pipeline *pipeline.Pipeline

	writeMu sync.Mutex
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// shutdown stops new runs, cancels the active batch and waits for pending
// writes.
func (r *regenerator) shutdown() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.pipeline.Cancel()
	r.wg.Wait()
}

func (r *regenerator) run(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || ctx.Err() != nil {
		return
	}

	src, err := source.Open(r.path, appConfig.Upload)
	if err != nil {
		logger.Warn("logo rejected", "path", r.path, "error", err)
		return
	}

	req := r.req
	req.Payload.Image = src.Image
	handle, err := r.pipeline.Submit(ctx, req)
	if err != nil {
		logger.Error("submit failed", "path", r.path, "error", err)
		return
	}
	logger.Info("regenerating", "batch", handle.ID, "width", src.Width, "height", src.Height)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		result, err := handle.Wait(context.Background())
		switch {
		case apperrors.IsKind(err, apperrors.KindBatchCancelled):
			logger.Debug("batch superseded", "batch", handle.ID)
			return
		case err != nil:
			logger.Error("batch failed", "batch", handle.ID, "error", err)
			return
		}

		r.writeMu.Lock()
		defer r.writeMu.Unlock()
		dest, written, err := r.flags.write(logoName(r.path), result.Icons)
		if err != nil {
			logger.Error("write icons failed", "batch", handle.ID, "error", err)
			return
		}
		for _, f := range result.Failures {
			logger.Warn("size failed", "size", f.Size.Dimensions(), "error", f.Error)
		}
		logger.Info("icons written", "batch", handle.ID, "output", dest, "icons", len(result.Icons), "bytes", written)
	}()
}

func init() {
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
