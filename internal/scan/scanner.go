// Package scan walks source trees and classifies the tests found in them as
// runnable or skipped.
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/skipfinder/skipfinder/internal/language"
	"github.com/skipfinder/skipfinder/internal/rules"
)

var (
	// ErrNotFound is returned when the scan root does not exist.
	ErrNotFound = errors.New("the directory does not exist")
	// ErrNotDirectory is returned when the scan root is not a directory.
	ErrNotDirectory = errors.New("the path is not a directory")
)

// DefaultExcludeDirs are directory names that are never descended into.
var DefaultExcludeDirs = []string{".git", ".hg", ".svn", "node_modules", "vendor", "dist", "build", "target", ".venv", "__pycache__"}

// DefaultMaxFileSize is the largest file that is scanned.
const DefaultMaxFileSize int64 = 1 << 20

// Options configures a Scanner.
type Options struct {
	// ExcludeDirs are directory base names that are skipped entirely.
	ExcludeDirs []string
	// Exclude are glob patterns matched against the slash separated path
	// relative to the scan root. "**" matches across directories.
	Exclude []string
	// IncludeComments enables the SKIP/TODO/FIXME comment rules.
	IncludeComments bool
	// Concurrency is the number of files scanned in parallel.
	Concurrency int
	// MaxFileSize is the largest file size in bytes that is scanned.
	MaxFileSize int64
}

// Option modifies Options.
type Option func(*Options)

// WithExcludeDirs replaces the excluded directory names.
func WithExcludeDirs(dirs ...string) Option {
	return func(o *Options) {
		o.ExcludeDirs = dirs
	}
}

// WithExclude adds glob patterns of excluded paths.
func WithExclude(patterns ...string) Option {
	return func(o *Options) {
		o.Exclude = append(o.Exclude, patterns...)
	}
}

// WithComments enables the comment rules.
func WithComments(enabled bool) Option {
	return func(o *Options) {
		o.IncludeComments = enabled
	}
}

// WithConcurrency sets the number of parallel workers. Values below one
// are ignored.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithMaxFileSize sets the largest scanned file size. Values below one are
// ignored.
func WithMaxFileSize(size int64) Option {
	return func(o *Options) {
		if size > 0 {
			o.MaxFileSize = size
		}
	}
}

// Result is the outcome of a scan.
type Result struct {
	// Root is the scanned directory as given by the caller.
	Root string
	// Files is the number of files that were scanned.
	Files int
	// Tests are all tests found, ordered by path and line.
	Tests []Test
	// ScannedAt is the time the scan finished.
	ScannedAt time.Time
}

// Skipped returns the skipped tests.
func (r *Result) Skipped() []Test {
	return r.filter(StatusSkipped)
}

// Runnable returns the runnable tests.
func (r *Result) Runnable() []Test {
	return r.filter(StatusRunnable)
}

func (r *Result) filter(status Status) []Test {
	if r == nil {
		return nil
	}
	var out []Test
	for _, t := range r.Tests {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Scanner finds tests in directory trees.
type Scanner struct {
	opts    Options
	exclude []glob.Glob
}

// New creates a Scanner. Invalid exclude patterns are reported as error.
func New(opts ...Option) (*Scanner, error) {
	options := Options{
		ExcludeDirs: DefaultExcludeDirs,
		Concurrency: runtime.NumCPU(),
		MaxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Scanner{opts: options}
	for _, pattern := range options.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		s.exclude = append(s.exclude, g)
	}
	return s, nil
}

// Options returns the effective options of the scanner.
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan walks root and classifies the tests of every supported source file.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	} else if err != nil {
		return nil, fmt.Errorf("an error occurred while accessing the directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	files, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "collected source files", slog.String("root", root), slog.Int("files", len(files)))

	found := make([][]Test, len(files))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Concurrency)
	for i, file := range files {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			tests, err := s.ScanFile(egctx, file)
			if err != nil {
				return err
			}
			found[i] = tests
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Root: root, Files: len(files), ScannedAt: time.Now()}
	for _, tests := range found {
		result.Tests = append(result.Tests, tests...)
	}
	slog.DebugContext(ctx, "directory scanned",
		slog.String("root", root),
		slog.Int("tests", len(result.Tests)),
		slog.Int("skipped", len(result.Skipped())),
	)
	return result, nil
}

// collect returns the sorted paths of all scannable files below root.
func (s *Scanner) collect(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("an error occurred while accessing the directory: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if s.Excluded(root, path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := language.ForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Excluded reports whether path below root is excluded from scanning.
func (s *Scanner) Excluded(root, path string, isDir bool) bool {
	if isDir && slices.Contains(s.opts.ExcludeDirs, filepath.Base(path)) {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range s.exclude {
		if g.Match(rel) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}

// ScanFile classifies the tests of a single file. Files of unknown
// languages, oversized files and binary files yield no tests.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]Test, error) {
	lang, ok := language.ForPath(path)
	if !ok {
		return nil, nil
	}
	set, ok := rules.For(lang.Name, rules.WithComments(s.opts.IncludeComments))
	if !ok || !set.AppliesTo(path) {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat %q: %w", path, err)
	}
	if info.Size() > s.opts.MaxFileSize {
		slog.DebugContext(ctx, "skipping oversized file", slog.String("path", path), slog.Int64("size", info.Size()))
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	if bytes.IndexByte(data[:min(len(data), 8000)], 0) >= 0 {
		slog.DebugContext(ctx, "skipping binary file", slog.String("path", path))
		return nil, nil
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	tests := Classify(set, content)
	for i := range tests {
		tests[i].Path = path
		tests[i].Language = lang.Name
	}
	return tests, nil
}
