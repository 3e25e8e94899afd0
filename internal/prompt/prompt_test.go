package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, false), out
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "existing directory", input: "  " + dir + "  \n", want: dir},
		{name: "answer without newline", input: dir, want: dir},
		{name: "missing directory", input: filepath.Join(dir, "missing") + "\n", err: scan.ErrNotFound},
		{name: "blank answer", input: "\n", err: scan.ErrNotFound},
		{name: "file", input: file + "\n", err: scan.ErrNotDirectory},
		{name: "end of input", input: "", err: ErrAborted},
		{name: "quit", input: "q\n", err: ErrAborted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newPrompter(tt.input)
			got, err := p.Directory()
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Contains(t, out.String(), "Enter the path to your tests directory: ")
		})
	}
}

func TestOutput(t *testing.T) {
	tests := []struct {
		input string
		want  Selection
	}{
		{input: "c\n", want: Selection{Console: true}},
		{input: "Console\n", want: Selection{Console: true}},
		{input: "t\n", want: Selection{Format: report.FormatText}},
		{input: "json\n", want: Selection{Format: report.FormatJSON}},
		{input: "y\n", want: Selection{Format: report.FormatYAML}},
		{input: "M\n", want: Selection{Format: report.FormatMarkdown}},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, _ := newPrompter(tt.input)
			got, err := p.Output()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOutput_InvalidAnswersRepeatTheQuestion(t *testing.T) {
	r := require.New(t)
	p, out := newPrompter("x\nhtml\nj\n")
	got, err := p.Output()
	r.NoError(err)
	r.Equal(Selection{Format: report.FormatJSON}, got)
	r.Equal(2, strings.Count(out.String(), "Invalid choice."))
	r.Equal(3, strings.Count(out.String(), "Choose your output preference: "))
	r.Contains(out.String(), "skipped_tests.json")
}

func TestOutput_EndOfInput(t *testing.T) {
	p, _ := newPrompter("x\n")
	_, err := p.Output()
	require.ErrorIs(t, err, ErrAborted)
}

func TestOutputDir(t *testing.T) {
	scanDir := t.TempDir()
	custom := t.TempDir()

	tests := []struct {
		name    string
		input   string
		want    string
		warning bool
	}{
		{name: "blank selects scan directory", input: "\n", want: scanDir},
		{name: "custom directory", input: custom + "\n", want: custom},
		{name: "missing directory falls back", input: filepath.Join(custom, "missing") + "\n", want: scanDir, warning: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newPrompter(tt.input)
			got, err := p.OutputDir(scanDir)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.warning, strings.Contains(out.String(), "Warning:"))
		})
	}
}

func TestWritable(t *testing.T) {
	dir := t.TempDir()
	require.True(t, Writable(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "the probe file must be removed")
	require.False(t, Writable(filepath.Join(dir, "missing")))
}
