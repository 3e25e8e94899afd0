// Package test provides utilities for testing the skipfinder CLI commands.
// It includes helpers for executing commands in an isolated environment and
// parsing JSON log output.
package test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/cmd"
	"github.com/skipfinder/skipfinder/cmd/configuration"
	v1 "github.com/skipfinder/skipfinder/configuration/v1"
	"github.com/skipfinder/skipfinder/internal/flags/log"
)

// Options holds configuration for executing skipfinder commands in tests
type Options struct {
	args   []string  // Command line arguments, normalized like in the binary
	in     io.Reader // Input for interactive prompts
	out    io.Writer // Output writer to capture command output
	logs   io.Writer // Writer receiving the log output
	format string    // Log format to use (e.g., json, text)
	ctx    context.Context
}

// Option is a function that configures Options
type Option func(*Options)

// WithArgs sets the command line arguments
func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.args = args
	}
}

// WithInput sets the input answering interactive prompts
func WithInput(in io.Reader) Option {
	return func(o *Options) {
		o.in = in
	}
}

// WithOutput sets the output writer to capture command output
func WithOutput(out io.Writer) Option {
	return func(o *Options) {
		o.out = out
	}
}

// WithLogs sets the writer receiving log output
func WithLogs(logs io.Writer) Option {
	return func(o *Options) {
		o.logs = logs
	}
}

// WithLogFormat sets the log format
func WithLogFormat(format string) Option {
	return func(o *Options) {
		o.format = format
	}
}

// WithContext sets the context the command runs with, the test context by
// default. Long running commands such as scan --watch stop when it is done.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.ctx = ctx
	}
}

// Run executes the skipfinder root command with the given options and
// returns the executed command and any error. Arguments pass through
// cmd.NormalizeArgs first, so legacy invocations behave like in the binary.
func Run(tb testing.TB, opts ...Option) (*cobra.Command, error) {
	tb.Helper()

	opt := Options{in: bytes.NewReader(nil), out: io.Discard, logs: io.Discard, ctx: tb.Context()}
	for _, o := range opts {
		o(&opt)
	}

	instance := cmd.New()
	instance.SetIn(opt.in)
	instance.SetOut(opt.out)
	instance.SetErr(opt.logs)

	// by default lets test with the json format so its actually easier to read and test against
	if opt.format == "" {
		opt.format = log.FormatJSON
	}
	f := instance.PersistentFlags().Lookup(log.FormatFlagName)
	if err := f.Value.Set(opt.format); err != nil {
		return nil, fmt.Errorf("failed to set format: %w", err)
	}

	instance.SetArgs(cmd.NormalizeArgs(instance, opt.args))
	return instance.ExecuteContextC(opt.ctx)
}

// Isolate points every configuration lookup of the CLI at empty temporary
// locations and changes into a fresh working directory, which is returned.
func Isolate(tb testing.TB) string {
	tb.Helper()
	home := tb.TempDir()
	tb.Setenv("HOME", home)
	tb.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	tb.Setenv(configuration.ConfigEnvironmentKey, "")
	tb.Setenv("NO_COLOR", "1")
	for _, key := range []string{
		v1.EnvExclude, v1.EnvExcludeDirs, v1.EnvIncludeComments, v1.EnvConcurrency,
		v1.EnvMaxFileSize, v1.EnvFormat, v1.EnvOutputDir, v1.EnvMetricsFile,
	} {
		tb.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			tb.Fatalf("could not unset %s: %v", key, err)
		}
	}
	wd := tb.TempDir()
	tb.Chdir(wd)
	return wd
}

// JSONLogReader provides functionality to read and parse JSON-formatted log output
// It maintains both the main log buffer and a buffer for discarded (non-JSON) entries
type JSONLogReader struct {
	*bytes.Buffer
	Discarded *bytes.Buffer
}

// NewJSONLogReader creates a new JSONLogReader with initialized buffers
func NewJSONLogReader() *JSONLogReader {
	return &JSONLogReader{
		Buffer:    bytes.NewBuffer(make([]byte, 0, 1024)),
		Discarded: bytes.NewBuffer(make([]byte, 0, 1024)),
	}
}

// JSONLogEntry represents a single log entry in JSON format
type JSONLogEntry struct {
	Time  string `json:"time"`
	Level string `json:"level"`
	Msg   string `json:"msg"`

	// Extras holds every attribute besides time, level and msg.
	Extras map[string]any `json:"-"`
}

// UnmarshalJSON implements custom JSON unmarshaling for JSONLogEntry
func (l *JSONLogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Time, _ = raw["time"].(string)
	l.Level, _ = raw["level"].(string)
	l.Msg, _ = raw["msg"].(string)

	delete(raw, "time")
	delete(raw, "level")
	delete(raw, "msg")
	l.Extras = raw

	return nil
}

// List parses the log buffer and returns all valid JSON log entries
// Non-JSON entries are written to the Discarded buffer
func (logs *JSONLogReader) List() ([]*JSONLogEntry, error) {
	scanner := bufio.NewScanner(logs.Buffer)
	var entries []*JSONLogEntry
	for scanner.Scan() {
		data := scanner.Bytes()
		entry := JSONLogEntry{}
		if err := json.Unmarshal(data, &entry); err == nil {
			entries = append(entries, &entry)
		} else if _, err := logs.Discarded.Write(append(data, '\n')); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
