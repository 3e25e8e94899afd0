package scan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/internal/language"
	"github.com/skipfinder/skipfinder/internal/metrics"
	"github.com/skipfinder/skipfinder/internal/renderer"
	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
	"github.com/skipfinder/skipfinder/internal/watch"
)

func scanOnce(ctx context.Context, scanner *scan.Scanner, opts *options) (*report.Report, error) {
	result, err := scanner.Scan(ctx, opts.dir)
	if err != nil {
		return nil, err
	}
	r := report.New(result)
	slog.InfoContext(ctx, "scan finished",
		slog.String("id", r.ID.String()),
		slog.String("root", r.Root),
		slog.Int("files", r.Files),
		slog.Int("tests", len(r.Tests)),
		slog.Int("skipped", len(r.Skipped())),
	)

	if opts.metricsFile != "" {
		if err := metrics.Write(opts.metricsFile, r); err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "metrics written", slog.String("path", opts.metricsFile))
	}
	return r, nil
}

func writeOutput(cmd *cobra.Command, r *report.Report, opts *options) error {
	out := cmd.OutOrStdout()
	if opts.console {
		console := report.NewConsole(report.Static(r), report.WithColor(opts.color))
		return renderer.RenderOnce(cmd.Context(), console, renderer.WithWriter(out))
	}

	if len(r.Skipped()) == 0 {
		_, err := fmt.Fprintf(out, "No skipped tests found in %s. No report written.\n", r.Root)
		return err
	}
	path, err := report.WriteFile(r, opts.outputDir, opts.format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Results written to: %s\n", path)
	return err
}

// watchDirectory scans once and then rescans on every change below the
// scanned directory until the command context is cancelled. The console is
// refreshed in place, file formats are rewritten after every scan.
func watchDirectory(cmd *cobra.Command, scanner *scan.Scanner, opts *options) error {
	ctx := cmd.Context()

	watcher, err := watch.New(opts.dir, watch.WithExclude(watchExclude(scanner, opts)))
	if err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			slog.WarnContext(ctx, "could not close watcher", slog.Any("error", err))
		}
	}()

	var latest atomic.Pointer[report.Report]
	rescan := func(ctx context.Context) error {
		r, err := scanOnce(ctx, scanner, opts)
		if err != nil {
			return err
		}
		latest.Store(r)
		if opts.console {
			return nil
		}
		return writeOutput(cmd, r, opts)
	}
	if err := rescan(ctx); err != nil {
		return err
	}

	if !opts.console {
		return watcher.Run(ctx, rescan)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	console := report.NewConsole(latest.Load, report.WithColor(opts.color))
	wait := renderer.RunRenderLoop(ctx, console, renderer.WithRenderOptions(renderer.WithWriter(cmd.OutOrStdout())))
	watchErr := watcher.Run(ctx, rescan)
	cancel()
	if err := wait(); err != nil {
		return err
	}
	return watchErr
}

// watchExclude ignores everything a rescan cannot pick up: excluded paths,
// files of unknown languages and the files written by the scan itself.
func watchExclude(scanner *scan.Scanner, opts *options) watch.ExcludeFunc {
	var written []string
	if !opts.console {
		written = append(written, absPath(filepath.Join(opts.outputDir, opts.format.FileName())))
	}
	if opts.metricsFile != "" {
		written = append(written, absPath(opts.metricsFile))
	}
	return func(path string, isDir bool) bool {
		if scanner.Excluded(opts.dir, path, isDir) {
			return true
		}
		if isDir {
			return false
		}
		if slices.Contains(written, absPath(path)) {
			return true
		}
		_, known := language.ForPath(path)
		return !known
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
