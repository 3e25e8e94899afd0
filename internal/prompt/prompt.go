// Package prompt implements the interactive questions asked when scan is run
// without a directory or output selection.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

// ErrAborted is returned when the input ends or the user quits.
var ErrAborted = errors.New("aborted by user")

// Selection is the result of the output question. Format is empty when the
// console was chosen.
type Selection struct {
	Console bool
	Format  report.Format
}

// Prompter asks questions on out and reads the answers line by line from in.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer, color bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, color: color}
}

func (p *Prompter) paint(s string, colors ...text.Color) string {
	if !p.color {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "\n%s", p.paint(question, text.FgCyan, text.Bold)); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line == "" {
		return "", ErrAborted
	} else if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	switch strings.ToLower(answer) {
	case "q", "quit", "exit":
		return "", ErrAborted
	}
	return answer, nil
}

// Directory asks for the directory to scan. The directory must exist.
func (p *Prompter) Directory() (string, error) {
	fmt.Fprintln(p.out, p.paint("DIRECTORY SELECTION:", text.FgBlue, text.Bold))
	fmt.Fprintln(p.out, "   Please specify the directory to scan for skipped tests (q to quit).")

	dir, err := p.ask("Enter the path to your tests directory: ")
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil || dir == "" {
		return "", fmt.Errorf("%w: %q", scan.ErrNotFound, dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %q", scan.ErrNotDirectory, dir)
	}
	fmt.Fprintf(p.out, "%s %s\n", p.paint("Directory confirmed:", text.FgGreen), dir)
	return dir, nil
}

// Output asks how the results should be delivered until a valid answer is
// given.
func (p *Prompter) Output() (Selection, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint("OUTPUT FORMAT SELECTION:", text.FgMagenta, text.Bold))
	for _, option := range []struct{ key, name, desc string }{
		{"c", "Console", "Display results in the terminal"},
		{"t", "Text", "Save as plain text file (skipped_tests.txt)"},
		{"j", "JSON", "Save as structured JSON file (skipped_tests.json)"},
		{"y", "YAML", "Save as YAML file (skipped_tests.yaml)"},
		{"m", "Markdown", "Save as formatted Markdown report (skipped_tests.md)"},
	} {
		fmt.Fprintf(p.out, "   %s - %s: %s\n", p.paint(option.key, text.Bold), option.name, option.desc)
	}

	for {
		answer, err := p.ask("Choose your output preference: ")
		if err != nil {
			return Selection{}, err
		}
		switch strings.ToLower(answer) {
		case "c", "console":
			fmt.Fprintln(p.out, p.paint("Console output selected.", text.FgGreen))
			return Selection{Console: true}, nil
		case "t", "text":
			return p.selected(report.FormatText), nil
		case "j", "json":
			return p.selected(report.FormatJSON), nil
		case "y", "yaml":
			return p.selected(report.FormatYAML), nil
		case "m", "markdown":
			return p.selected(report.FormatMarkdown), nil
		default:
			fmt.Fprintln(p.out, p.paint("Invalid choice. Please enter one of the valid options (c/t/j/y/m).", text.FgRed))
		}
	}
}

func (p *Prompter) selected(format report.Format) Selection {
	fmt.Fprintf(p.out, "%s Results will be saved as %s\n", p.paint(strings.ToUpper(string(format))+" output selected.", text.FgGreen), format.FileName())
	return Selection{Format: format}
}

// OutputDir asks where the report file should be written. A blank answer
// selects scanDir. Directories that cannot be written fall back to scanDir.
func (p *Prompter) OutputDir(scanDir string) (string, error) {
	dir, err := p.ask("Output directory (leave blank for tests directory): ")
	if err != nil {
		return "", err
	}
	if dir == "" {
		fmt.Fprintf(p.out, "%s %s\n", p.paint("Using tests directory:", text.FgGreen), scanDir)
		return scanDir, nil
	}
	if !Writable(dir) {
		fmt.Fprintf(p.out, "%s Unable to write to %s, using tests directory %s instead.\n",
			p.paint("Warning:", text.FgYellow, text.Bold), dir, scanDir)
		return scanDir, nil
	}
	fmt.Fprintf(p.out, "%s %s\n", p.paint("Custom directory confirmed:", text.FgGreen), dir)
	return dir, nil
}

// Writable reports whether dir is an existing directory files can be
// created in.
func Writable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := os.CreateTemp(dir, ".skipfinder-*")
	if err != nil {
		return false
	}
	name := f.Name()
	return errors.Join(f.Close(), os.Remove(name)) == nil
}
