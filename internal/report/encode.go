package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/skipfinder/skipfinder/internal/language"
)

// Document is the serialized form of a report used by the json and yaml
// formats.
type Document struct {
	ID                    string                  `json:"id"`
	GeneratedAt           string                  `json:"generatedAt"`
	Root                  string                  `json:"root"`
	TotalSkippedTests     int                     `json:"totalSkippedTests"`
	FilesWithSkippedTests int                     `json:"filesWithSkippedTests"`
	Summary               map[string]FileDocument `json:"summary"`
}

// FileDocument lists the skipped tests of one file.
type FileDocument struct {
	FilePath          string         `json:"filePath"`
	Language          string         `json:"language"`
	SkippedTestsCount int            `json:"skippedTestsCount"`
	Tests             []TestDocument `json:"tests"`
}

// TestDocument is one skipped test. Reason is null when no reason was given.
type TestDocument struct {
	TestName   string  `json:"testName"`
	LineNumber int     `json:"lineNumber"`
	Line       string  `json:"line"`
	Reason     *string `json:"reason"`
	Framework  string  `json:"framework,omitempty"`
}

// Document converts the report into its serialized form. Files are keyed by
// their slash separated path relative to the report root.
func (r *Report) Document() Document {
	summary := r.Summary()
	doc := Document{
		ID:                    r.ID.String(),
		GeneratedAt:           r.GeneratedAt.UTC().Format(time.RFC3339),
		Root:                  r.Root,
		TotalSkippedTests:     summary.TotalSkipped,
		FilesWithSkippedTests: len(summary.Files),
		Summary:               make(map[string]FileDocument, len(summary.Files)),
	}
	for _, f := range summary.Files {
		fd := FileDocument{
			FilePath:          f.Path,
			Language:          f.Language,
			SkippedTestsCount: len(f.Tests),
			Tests:             make([]TestDocument, 0, len(f.Tests)),
		}
		for _, t := range f.Tests {
			td := TestDocument{
				TestName:   DisplayName(t),
				LineNumber: t.Line,
				Line:       t.Snippet,
				Framework:  t.Framework,
			}
			if t.Reason != "" {
				reason := t.Reason
				td.Reason = &reason
			}
			fd.Tests = append(fd.Tests, td)
		}
		doc.Summary[r.RelPath(f.Path)] = fd
	}
	return doc
}

// Encode writes the report to w in the given format.
func Encode(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return encodeText(w, r)
	case FormatJSON:
		data, err := json.MarshalIndent(r.Document(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		data, err := yaml.Marshal(r.Document())
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatMarkdown:
		return encodeMarkdown(w, r)
	default:
		return fmt.Errorf("%w %q: supported formats: %s", ErrInvalidFormat, format, strings.Join(FormatNames(), ", "))
	}
}

func encodeText(w io.Writer, r *Report) error {
	skipped := r.Skipped()
	var b strings.Builder
	fmt.Fprintf(&b, "Total skipped tests: %d\n\n", len(skipped))
	b.WriteString("Skipped Tests:\n\n")
	for _, t := range skipped {
		fmt.Fprintf(&b, "- %s (%s:%d)", DisplayName(t), filepath.Base(t.Path), t.Line)
		if t.Reason != "" {
			fmt.Fprintf(&b, ": %s", t.Reason)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func encodeMarkdown(w io.Writer, r *Report) error {
	summary := r.Summary()
	var b strings.Builder

	b.WriteString("# Skipped Tests Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total skipped tests:** %d\n", summary.TotalSkipped)
	fmt.Fprintf(&b, "- **Files with skipped tests:** %d\n", len(summary.Files))
	fmt.Fprintf(&b, "- **Languages affected:** %d\n\n", summary.LanguagesAffected())

	if len(summary.Files) == 0 {
		b.WriteString("No skipped tests found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString("## Summary by File\n\n")
	b.WriteString("| File | Language | Skipped Tests |\n")
	b.WriteString("|------|----------|---------------|\n")
	for _, f := range summary.Files {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", markdownCell(r.RelPath(f.Path)), f.Language, len(f.Tests))
	}

	b.WriteString("\n## Detailed Results\n")
	for _, f := range summary.Files {
		fmt.Fprintf(&b, "\n### %s\n\n", r.RelPath(f.Path))
		fence := ""
		if lang, ok := language.ByName(f.Language); ok {
			fence = lang.Fence
		}
		for _, t := range f.Tests {
			fmt.Fprintf(&b, "- **%s** (line %d)\n", DisplayName(t), t.Line)
			if t.Reason != "" {
				fmt.Fprintf(&b, "  - Reason: %s\n", t.Reason)
			}
			if t.Snippet != "" {
				fmt.Fprintf(&b, "  ```%s\n  %s\n  ```\n", fence, t.Snippet)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteFile writes the report into dir using the file name of the format and
// returns the path of the written file.
func WriteFile(r *Report, dir string, format Format) (string, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create output directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, format.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create report file: %w", err)
	}
	if err := Encode(f, r, format); err != nil {
		return "", errors.Join(err, f.Close(), os.Remove(path))
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not write report file: %w", err)
	}
	return path, nil
}
