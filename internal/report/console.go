package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

const consoleWidth = 70

// Source returns the report to render. Live renderers call it on every
// refresh.
type Source func() *Report

// Static returns a Source that always yields r.
func Static(r *Report) Source {
	return func() *Report { return r }
}

// Console renders a report for humans. It implements renderer.Renderer.
//
// The output looks like this:
//
//	══════════════════════════════════════════════════════════════════════
//	  SKIPPED TESTS FINDER - SCAN RESULTS
//	══════════════════════════════════════════════════════════════════════
//	Found 4 skipped tests (of 5 tests) in 1 file.
//
//	┌──────────┬─────────┬──────────┐
//	│ LANGUAGE │ SKIPPED │ RUNNABLE │
//	...
//	── Java (4)
//	   ╰─ JavaTestExample.java
//	      ├─ junit4IgnoredTest (line 14): This test is ignored in JUnit 4
//	      ...
type Console struct {
	source Source
	color  bool
}

// ConsoleOption modifies a Console.
type ConsoleOption func(*Console)

// WithColor enables colored output.
func WithColor(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.color = enabled
	}
}

// NewConsole creates a console renderer for the reports yielded by source.
func NewConsole(source Source, opts ...ConsoleOption) *Console {
	c := &Console{source: source}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ColorEnabled reports whether colored output should be written to w. Colors
// are only used for terminals and never when NO_COLOR is set.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) paint(s string, colors ...text.Color) string {
	if !c.color {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

// Render writes the report to writer.
func (c *Console) Render(_ context.Context, writer io.Writer) error {
	r := c.source()
	if r == nil {
		_, err := fmt.Fprintln(writer, "Waiting for scan results...")
		return err
	}

	var b strings.Builder
	rule := strings.Repeat("═", consoleWidth)
	b.WriteString(c.paint(rule, text.FgCyan) + "\n")
	b.WriteString(c.paint("  SKIPPED TESTS FINDER - SCAN RESULTS", text.Bold) + "\n")
	b.WriteString(c.paint(rule, text.FgCyan) + "\n")

	summary := r.Summary()
	if summary.TotalSkipped == 0 {
		fmt.Fprintf(&b, "%s No skipped tests found in %s (%s in %s).\n",
			c.paint("✔", text.FgGreen), r.Root, plural(summary.TotalTests, "test"), plural(r.Files, "file"))
		_, err := io.WriteString(writer, b.String())
		return err
	}

	fmt.Fprintf(&b, "Found %s (of %d tests) in %s.\n\n",
		c.paint(plural(summary.TotalSkipped, "skipped test"), text.FgYellow, text.Bold),
		summary.TotalTests,
		plural(len(summary.Files), "file"),
	)
	if _, err := io.WriteString(writer, b.String()); err != nil {
		return err
	}

	c.renderTable(writer, summary)
	if _, err := io.WriteString(writer, "\n"); err != nil {
		return err
	}
	c.renderList(writer, r, summary)

	_, err := fmt.Fprintf(writer, "\n%s %d skipped, %d languages affected, %s with skipped tests.\n",
		c.paint("Summary:", text.Bold), summary.TotalSkipped, summary.LanguagesAffected(), plural(len(summary.Files), "file"))
	return err
}

func (c *Console) renderTable(writer io.Writer, summary Summary) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(writer)
	t.AppendHeader(table.Row{"Language", "Skipped", "Runnable"})
	runnable := 0
	for _, l := range summary.Languages {
		t.AppendRow(table.Row{l.Language, l.Skipped, l.Runnable})
		runnable += l.Runnable
	}
	t.AppendFooter(table.Row{"Total", summary.TotalSkipped, runnable})
	t.Render()
}

func (c *Console) renderList(writer io.Writer, r *Report, summary Summary) {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	l.SetOutputMirror(writer)

	for _, lang := range summary.Languages {
		if lang.Skipped == 0 {
			continue
		}
		l.AppendItem(c.paint(fmt.Sprintf("%s (%d)", lang.Language, lang.Skipped), text.Bold))
		l.Indent()
		for _, f := range summary.Files {
			if f.Language != lang.Language {
				continue
			}
			l.AppendItem(c.paint(r.RelPath(f.Path), text.FgCyan))
			l.Indent()
			for _, t := range f.Tests {
				item := fmt.Sprintf("%s (line %d)", c.paint(DisplayName(t), text.FgYellow), t.Line)
				if t.Reason != "" {
					item += ": " + t.Reason
				}
				l.AppendItem(item)
			}
			l.UnIndent()
		}
		l.UnIndent()
	}
	l.Render()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
