// Package log provides the logging flags of the skipfinder CLI.
// It supports different log formats (JSON, text), log levels (debug, info, warn, error),
// and output destinations (stdout, stderr).
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/skipfinder/skipfinder/internal/flags/enum"
)

// Log format constants
const (
	FormatFlagName = "logformat" // Flag name for log format configuration

	FormatJSON = "json" // JSON format for structured logging, suitable for machine processing
	FormatText = "text" // Human-readable text format, suitable for console output
)

// Log level constants
const (
	LevelFlagName = "loglevel" // Flag name for log level configuration

	LevelDebug = "debug" // Debug level, includes every scanned and skipped file
	LevelInfo  = "info"  // Info level for general operational information
	LevelWarn  = "warn"  // Warn level for problems that don't stop a scan
	LevelError = "error" // Error level for conditions that abort a command
)

// Log output constants
const (
	OutputFlagName = "logoutput" // Flag name for log output configuration

	OutputStdout = "stdout" // Standard output destination
	OutputStderr = "stderr" // Standard error destination, keeps reports on stdout clean
)

// RegisterLoggingFlags registers the logging-related flags with the provided flag set.
// The first option of each flag is its default.
//
// Usage examples:
//
//	--logformat json     # Output logs in JSON format for machine processing
//	--loglevel debug     # Show all logs including skipped files
//	--logoutput stdout   # Write logs to standard output
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{
		FormatText,
		FormatJSON,
	}, `set the log output format that is used to print individual logs
   json: Output logs in JSON format, suitable for machine processing
   text: Output logs in human-readable text format, suitable for console output`)

	enum.Var(flagset, LevelFlagName, []string{
		LevelWarn,
		LevelDebug,
		LevelInfo,
		LevelError,
	}, `sets the logging level
   debug: Show all logs including detailed debugging information
   info:  Show informational messages and above
   warn:  Show warnings and errors only (default)
   error: Show errors only`)

	enum.Var(flagset, OutputFlagName, []string{
		OutputStderr,
		OutputStdout,
	}, `set the log output destination
   stderr: Write logs to standard error (default), separating logs from reports
   stdout: Write logs to standard output`)
}

// GetBaseLogger builds the logger selected by the logging flags of cmd.
// Logs go to the writers of cmd so tests and callers can capture them.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := loggerLevelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	writer, err := loggerWriterFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}
	options := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(writer, options)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(writer, options)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

func loggerWriterFromCommand(cmd *cobra.Command) (io.Writer, error) {
	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}
	switch output {
	case OutputStdout:
		return cmd.OutOrStdout(), nil
	case OutputStderr:
		return cmd.ErrOrStderr(), nil
	default:
		return nil, fmt.Errorf("invalid log output: %s", output)
	}
}

// loggerLevelFromCommand maps the level flag onto slog levels. The flag
// values are the lower case slog level names.
func loggerLevelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	name, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}
