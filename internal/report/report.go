// Package report turns scan results into reports that can be printed to a
// console or written to files in several formats.
package report

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/skipfinder/skipfinder/internal/scan"
)

// UnnamedTest is shown for skipped tests whose name could not be determined.
const UnnamedTest = "(unnamed test)"

// Report is a snapshot of a scan prepared for output.
type Report struct {
	// ID identifies the report so exported files can be correlated.
	ID uuid.UUID
	// GeneratedAt is the time the report was created.
	GeneratedAt time.Time
	// Root is the scanned directory.
	Root string
	// Files is the number of scanned files.
	Files int
	// Tests are all tests of the scan, ordered by path and line.
	Tests []scan.Test
}

// Options configures New.
type Options struct {
	ID  uuid.UUID
	Now func() time.Time
}

// Option modifies Options.
type Option func(*Options)

// WithID sets a fixed report ID.
func WithID(id uuid.UUID) Option {
	return func(o *Options) {
		o.ID = id
	}
}

// WithClock sets the function used to determine the generation time.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}

// New creates a report from a scan result.
func New(result *scan.Result, opts ...Option) *Report {
	options := &Options{Now: time.Now}
	for _, opt := range opts {
		opt(options)
	}
	if options.ID == uuid.Nil {
		options.ID = uuid.New()
	}

	r := &Report{ID: options.ID, GeneratedAt: options.Now()}
	if result != nil {
		r.Root = result.Root
		r.Files = result.Files
		r.Tests = slices.Clone(result.Tests)
	}
	return r
}

// Skipped returns the skipped tests of the report.
func (r *Report) Skipped() []scan.Test {
	var skipped []scan.Test
	for _, t := range r.Tests {
		if t.Skipped() {
			skipped = append(skipped, t)
		}
	}
	return skipped
}

// RelPath returns path relative to the report root in slash notation. If
// that is not possible the path is returned unchanged.
func (r *Report) RelPath(path string) string {
	if r.Root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(r.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// LanguageCount holds the number of tests of one language.
type LanguageCount struct {
	Language string
	Skipped  int
	Runnable int
}

// FileCount holds the skipped tests of one file.
type FileCount struct {
	Path     string
	Language string
	Tests    []scan.Test
}

// Summary aggregates a report.
type Summary struct {
	TotalTests   int
	TotalSkipped int
	// Languages is sorted by language name.
	Languages []LanguageCount
	// Files lists only files with skipped tests, sorted by path.
	Files []FileCount
}

// LanguagesAffected returns the number of languages with skipped tests.
func (s Summary) LanguagesAffected() int {
	n := 0
	for _, l := range s.Languages {
		if l.Skipped > 0 {
			n++
		}
	}
	return n
}

// Summary computes the aggregated counts of the report.
func (r *Report) Summary() Summary {
	s := Summary{TotalTests: len(r.Tests)}
	languages := make(map[string]*LanguageCount)
	files := make(map[string]*FileCount)
	for _, t := range r.Tests {
		lc, ok := languages[t.Language]
		if !ok {
			lc = &LanguageCount{Language: t.Language}
			languages[t.Language] = lc
		}
		if !t.Skipped() {
			lc.Runnable++
			continue
		}
		lc.Skipped++
		s.TotalSkipped++

		fc, ok := files[t.Path]
		if !ok {
			fc = &FileCount{Path: t.Path, Language: t.Language}
			files[t.Path] = fc
		}
		fc.Tests = append(fc.Tests, t)
	}

	for _, lc := range languages {
		s.Languages = append(s.Languages, *lc)
	}
	slices.SortFunc(s.Languages, func(a, b LanguageCount) int {
		return cmp.Compare(a.Language, b.Language)
	})
	for _, fc := range files {
		s.Files = append(s.Files, *fc)
	}
	slices.SortFunc(s.Files, func(a, b FileCount) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return s
}

// DisplayName returns the test name or UnnamedTest.
func DisplayName(t scan.Test) string {
	if t.Name == "" {
		return UnnamedTest
	}
	return t.Name
}
