package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	v1 "github.com/skipfinder/skipfinder/configuration/v1"
)

// isolate points every lookup location to empty temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv(ConfigEnvironmentKey, "")
	for _, key := range []string{v1.EnvExclude, v1.EnvExcludeDirs, v1.EnvIncludeComments, v1.EnvConcurrency, v1.EnvMaxFileSize, v1.EnvFormat, v1.EnvOutputDir, v1.EnvMetricsFile} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	wd := t.TempDir()
	t.Chdir(wd)
	return home
}

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGetConfigPath(t *testing.T) {
	t.Run("no configuration", func(t *testing.T) {
		isolate(t)
		require.Empty(t, GetConfigPath())
	})

	t.Run("working directory", func(t *testing.T) {
		isolate(t)
		writeConfig(t, WorkingDirConfigFileName, "format: json\n")
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(wd, WorkingDirConfigFileName), GetConfigPath())
	})

	t.Run("home before working directory", func(t *testing.T) {
		home := isolate(t)
		writeConfig(t, WorkingDirConfigFileName, "format: json\n")
		path := filepath.Join(home, ".config", ConfigDirectoryName, ConfigFileName)
		writeConfig(t, path, "format: text\n")
		require.Equal(t, path, GetConfigPath())
	})

	t.Run("xdg before home", func(t *testing.T) {
		home := isolate(t)
		writeConfig(t, filepath.Join(home, ".config", ConfigDirectoryName, ConfigFileName), "format: text\n")
		xdg := filepath.Join(home, "xdg", ConfigDirectoryName, ConfigFileName)
		writeConfig(t, xdg, "format: yaml\n")
		require.Equal(t, xdg, GetConfigPath())
	})

	t.Run("environment first", func(t *testing.T) {
		home := isolate(t)
		writeConfig(t, filepath.Join(home, "xdg", ConfigDirectoryName, ConfigFileName), "format: yaml\n")
		env := filepath.Join(home, "custom.yaml")
		writeConfig(t, env, "format: markdown\n")
		t.Setenv(ConfigEnvironmentKey, env)
		require.Equal(t, env, GetConfigPath())
	})
}

func TestGetConfigForCommand(t *testing.T) {
	t.Run("defaults without any configuration", func(t *testing.T) {
		isolate(t)
		cfg, err := GetConfigForCommand(newCommand(t))
		require.NoError(t, err)
		require.Equal(t, &v1.Config{}, cfg)
	})

	t.Run("explicit config flag", func(t *testing.T) {
		home := isolate(t)
		path := filepath.Join(home, "cfg.yaml")
		writeConfig(t, path, "concurrency: 3\nexclude: [\"gen/**\"]\n")
		cfg, err := GetConfigForCommand(newCommand(t, "--config", path))
		require.NoError(t, err)
		require.Equal(t, 3, cfg.Concurrency)
		require.Equal(t, []string{"gen/**"}, cfg.Exclude)
	})

	t.Run("missing explicit config", func(t *testing.T) {
		home := isolate(t)
		_, err := GetConfigForCommand(newCommand(t, "--config", filepath.Join(home, "missing.yaml")))
		require.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("invalid config", func(t *testing.T) {
		isolate(t)
		writeConfig(t, WorkingDirConfigFileName, "concurrency: [1\n")
		_, err := GetConfigForCommand(newCommand(t))
		require.Error(t, err)
	})

	t.Run("env file overrides config file", func(t *testing.T) {
		home := isolate(t)
		writeConfig(t, WorkingDirConfigFileName, "format: text\nconcurrency: 2\n")
		envFile := filepath.Join(home, "ci.env")
		writeConfig(t, envFile, "SKIPFINDER_FORMAT=json\nSKIPFINDER_EXCLUDE=vendor/**\n")

		cfg, err := GetConfigForCommand(newCommand(t, "--env-file", envFile))
		require.NoError(t, err)
		require.Equal(t, "json", cfg.Format)
		require.Equal(t, 2, cfg.Concurrency)
		require.Equal(t, []string{"vendor/**"}, cfg.Exclude)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		home := isolate(t)
		_, err := GetConfigForCommand(newCommand(t, "--env-file", filepath.Join(home, "missing.env")))
		require.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("invalid environment", func(t *testing.T) {
		isolate(t)
		t.Setenv(v1.EnvConcurrency, "lots")
		_, err := GetConfigForCommand(newCommand(t))
		require.ErrorContains(t, err, "invalid environment configuration")
	})
}
