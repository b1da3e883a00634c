package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"appicon/internal/archive"
	"appicon/internal/catalog"
	"appicon/internal/crop"
	"appicon/internal/encode"
	apperrors "appicon/internal/errors"
	"appicon/internal/pipeline"
	"appicon/internal/source"
	"appicon/internal/tui"
)

// genFlags are the generation flags shared by generate and watch.
type genFlags struct {
	platforms  []string
	sizes      []string
	padding    float64
	background string
	format     string
	quality    int
	crop       string
	output     string
	zip        string
}

// registerOptions adds the flags that shape the icons themselves.
func (f *genFlags) registerOptions(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.platforms, "platform", "p", nil, "target platform: ios, android, watchos, web (repeatable)")
	fl.StringArrayVar(&f.sizes, "size", nil, "extra custom size as WxH (repeatable)")
	fl.Float64Var(&f.padding, "padding", 0, "inset in pixels, 0-100")
	fl.StringVar(&f.background, "background", "", "background color as #RGB or #RRGGBB")
	fl.StringVarP(&f.format, "format", "f", "", "output format: png, jpeg, webp")
	fl.IntVarP(&f.quality, "quality", "q", 0, "quality for lossy formats, 0-100")
}

func (f *genFlags) register(cmd *cobra.Command) {
	f.registerOptions(cmd)
	fl := cmd.Flags()
	fl.StringVar(&f.crop, "crop", "", "square crop as x,y,size in source pixels")
	fl.StringVarP(&f.output, "output", "o", "", "write icons into this directory")
	fl.StringVar(&f.zip, "zip", "", "write icons into this zip archive")
}

// build resolves flags on top of the loaded config into a pipeline request
// template. The request image is filled in by the caller.
func (f *genFlags) build(cmd *cobra.Command) (pipeline.Request, error) {
	fl := cmd.Flags()

	var platforms []catalog.Platform
	switch {
	case fl.Changed("platform"):
		for _, name := range f.platforms {
			p, err := catalog.ParsePlatform(name)
			if err != nil {
				return pipeline.Request{}, apperrors.Wrap(apperrors.KindInvalidInput, "cmd.generate", "platform", err)
			}
			platforms = append(platforms, p)
		}
	case len(f.sizes) == 0:
		ps, err := appConfig.Platforms()
		if err != nil {
			return pipeline.Request{}, err
		}
		platforms = ps
	}

	sizes := catalog.ForPlatforms(platforms...)
	sizes = append(sizes, appConfig.CustomSizes()...)
	for _, raw := range f.sizes {
		w, h, err := catalog.ParseDimensions(raw)
		if err != nil {
			return pipeline.Request{}, apperrors.Wrap(apperrors.KindInvalidInput, "cmd.generate", "size", err)
		}
		sizes = append(sizes, catalog.NewCustomSize(w, h, ""))
	}

	batchPlatform := catalog.PlatformCustom
	if len(platforms) == 1 {
		batchPlatform = platforms[0]
	}

	opts := appConfig.PipelineOptions(batchPlatform)
	if fl.Changed("padding") {
		opts.Padding = f.padding
	}
	if fl.Changed("background") {
		opts.BackgroundColor = f.background
	}
	if fl.Changed("format") {
		opts.Format = encode.Format(f.format)
	}
	if fl.Changed("quality") {
		opts.Quality = f.quality
	}

	req := pipeline.NewRequest(nil, sizes, opts)
	if f.crop != "" {
		region, err := parseCrop(f.crop)
		if err != nil {
			return pipeline.Request{}, err
		}
		req.Payload.Crop = region
	}
	return req, nil
}

// destination reports where icons go: a zip path or a directory.
func (f *genFlags) destination(name string) (path string, zip bool) {
	switch {
	case f.zip != "":
		return f.zip, true
	case f.output != "":
		return f.output, false
	case appConfig.Output.Zip:
		return filepath.Join(appConfig.Output.Dir, archive.SuggestedFilename(name)), true
	default:
		return filepath.Join(appConfig.Output.Dir, name), false
	}
}

// write stores icons at the destination and returns the path and bytes written.
func (f *genFlags) write(name string, icons []pipeline.ProcessedIcon) (string, int64, error) {
	dest, zip := f.destination(name)
	if zip {
		a, err := archive.Build(icons, archive.Options{Name: name})
		if err != nil {
			return "", 0, err
		}
		if err := archive.WriteFile(a, dest); err != nil {
			return "", 0, err
		}
		return dest, int64(len(a.Data)), nil
	}

	if _, err := archive.WriteDir(icons, dest, archive.Options{Name: name}); err != nil {
		return "", 0, err
	}
	var n int64
	for _, icon := range icons {
		n += int64(len(icon.Data))
	}
	return dest, n, nil
}

func parseCrop(s string) (*crop.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, apperrors.Newf(apperrors.KindInvalidCropRegion, "cmd.crop", "expected x,y,size, got %q", s)
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInvalidCropRegion, "cmd.crop", fmt.Sprintf("parse %q", p), err)
		}
		vals[i] = v
	}
	return &crop.Region{X: vals[0], Y: vals[1], Size: vals[2]}, nil
}

func logoName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

var generateFlags genFlags

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <logo>",
	Short: "Generate platform icon sets from one logo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		req, err := generateFlags.build(cmd)
		if err != nil {
			return err
		}

		src, err := source.Open(path, appConfig.Upload)
		if err != nil {
			return err
		}
		req.Payload.Image = src.Image
		logger.Debug("source loaded", "path", path, "format", src.Format, "width", src.Width, "height", src.Height, "orientation", src.Orientation)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		uiLogger, flushLogs := deferredLogger(os.Stderr)
		defer flushLogs()

		started := time.Now()
		p := pipeline.New(pipeline.WithLogger(uiLogger))
		handle, err := p.Submit(ctx, req)
		if err != nil {
			return err
		}

		uiDone := make(chan struct{})
		go func() {
			defer close(uiDone)
			showProgress("appicon "+logoName(path), tui.FromPipeline(handle.Messages()), handle.Cancel)
		}()

		result, err := handle.Wait(context.Background())
		<-uiDone
		flushLogs()
		if err != nil {
			return err
		}

		dest, written, err := generateFlags.write(logoName(path), result.Icons)
		if err != nil {
			return err
		}

		rows := []tui.SummaryRow{
			{Label: "Icons generated", Value: strconv.Itoa(len(result.Icons))},
			{Label: "Sizes failed", Value: strconv.Itoa(len(result.Failures)), Warn: len(result.Failures) > 0},
			{Label: "Bytes written", Value: tui.HumanBytes(written)},
			{Label: "Elapsed", Value: time.Since(started).Round(time.Millisecond).String()},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		for _, f := range result.Failures {
			fmt.Fprintf(os.Stdout, "  %s %s: %s\n", f.Size.Name, f.Size.Dimensions(), f.Error)
		}

		outPath := dest
		if abs, absErr := filepath.Abs(dest); absErr == nil {
			outPath = abs
		}
		fmt.Fprintf(os.Stdout, "Icons written to: %s\n", outPath)
		return nil
	},
}

func init() {
	generateFlags.register(generateCmd)
	rootCmd.AddCommand(generateCmd)
}
