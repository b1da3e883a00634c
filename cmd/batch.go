package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"appicon/internal/processor"
	"appicon/internal/tui"
)

var (
	batchFlags     genFlags
	batchOutputDir string
	batchZip       bool
	batchWorkers   int
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <path>",
	Short: "Generate icon sets for every logo in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		req, err := batchFlags.build(cmd)
		if err != nil {
			return err
		}
		if err := req.Payload.Options.Validate(); err != nil {
			return err
		}

		outputDir := batchOutputDir
		if outputDir == "" {
			outputDir = appConfig.Output.Dir
		}
		zip := appConfig.Output.Zip
		if cmd.Flags().Changed("zip") {
			zip = batchZip
		}
		workers := appConfig.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers = batchWorkers
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		uiLogger, flushLogs := deferredLogger(os.Stderr)
		defer flushLogs()

		updates := make(chan processor.ProgressUpdate, 64)
		uiDone := make(chan struct{})
		go func() {
			defer close(uiDone)
			showProgress("appicon batch", updates, cancel)
		}()

		started := time.Now()
		summary, reports, err := processor.Run(ctx, path, processor.Options{
			Sizes:     req.Payload.Sizes,
			Pipeline:  req.Payload.Options,
			Limits:    appConfig.Upload,
			OutputDir: outputDir,
			Zip:       zip,
			Workers:   workers,
			Logger:    uiLogger,
		}, updates)

		close(updates)
		<-uiDone
		flushLogs()
		if err != nil {
			return err
		}

		rows := []tui.SummaryRow{
			{Label: "Logos found", Value: strconv.Itoa(summary.Total)},
			{Label: "Logos processed", Value: strconv.Itoa(summary.Processed)},
			{Label: "Logos failed", Value: strconv.Itoa(summary.Errors), Warn: summary.Errors > 0},
			{Label: "Icons generated", Value: strconv.Itoa(summary.Icons)},
			{Label: "Sizes failed", Value: strconv.Itoa(summary.Failures), Warn: summary.Failures > 0},
			{Label: "Bytes written", Value: tui.HumanBytes(summary.BytesWritten)},
			{Label: "Elapsed", Value: time.Since(started).Round(time.Millisecond).String()},
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(rows))
		for _, rep := range reports {
			if rep.Err != nil {
				fmt.Fprintf(os.Stdout, "  %s: %v\n", rep.Path, rep.Err)
			}
		}

		outPath := outputDir
		if abs, absErr := filepath.Abs(outputDir); absErr == nil {
			outPath = abs
		}
		fmt.Fprintf(os.Stdout, "Icons written to: %s\n", outPath)
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stdout, "Batch interrupted; remaining logos were skipped.")
		}
		return nil
	},
}

func init() {
	batchFlags.registerOptions(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", "", "destination folder for generated icons")
	batchCmd.Flags().BoolVar(&batchZip, "zip", true, "write one zip archive per logo")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "logos exported concurrently")

	rootCmd.AddCommand(batchCmd)
}
