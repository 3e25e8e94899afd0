package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoggingFlags(t *testing.T) {
	cmd := &cobra.Command{}
	RegisterLoggingFlags(cmd.PersistentFlags())

	for name, def := range map[string]string{
		FormatFlagName: FormatText,
		LevelFlagName:  LevelWarn,
		OutputFlagName: OutputStderr,
	} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestGetBaseLogger(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		level     string
		output    string
		toStdout  bool
		jsonLines bool
	}{
		{
			name:      "json format with debug level to stdout",
			format:    FormatJSON,
			level:     LevelDebug,
			output:    OutputStdout,
			toStdout:  true,
			jsonLines: true,
		},
		{
			name:   "text format with info level to stderr",
			format: FormatText,
			level:  LevelInfo,
			output: OutputStderr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			var stdout, stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			RegisterLoggingFlags(cmd.Flags())

			r.NoError(cmd.Flags().Set(FormatFlagName, tt.format))
			r.NoError(cmd.Flags().Set(LevelFlagName, tt.level))
			r.NoError(cmd.Flags().Set(OutputFlagName, tt.output))

			logger, err := GetBaseLogger(cmd)
			r.NoError(err)
			logger.Info("scan finished", slog.Int("skipped", 4))

			written, empty := &stderr, &stdout
			if tt.toStdout {
				written, empty = &stdout, &stderr
			}
			r.Empty(empty.String())
			r.Contains(written.String(), "scan finished")
			if tt.jsonLines {
				var entry map[string]any
				r.NoError(json.Unmarshal(written.Bytes(), &entry))
				r.EqualValues(4, entry["skipped"])
			}
		})
	}
}

func TestLoggerLevelFromCommand(t *testing.T) {
	tests := []struct {
		level       string
		expectLevel slog.Level
	}{
		{level: LevelDebug, expectLevel: slog.LevelDebug},
		{level: LevelInfo, expectLevel: slog.LevelInfo},
		{level: LevelWarn, expectLevel: slog.LevelWarn},
		{level: LevelError, expectLevel: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cmd := &cobra.Command{}
			RegisterLoggingFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Set(LevelFlagName, tt.level))

			level, err := loggerLevelFromCommand(cmd)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectLevel, level)
		})
	}
}

func TestDefaultLevelHidesInfo(t *testing.T) {
	var stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&stderr)
	RegisterLoggingFlags(cmd.Flags())

	logger, err := GetBaseLogger(cmd)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "shown")
}
