package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	v1 "github.com/skipfinder/skipfinder/configuration/v1"
	"github.com/skipfinder/skipfinder/internal/flags/file"
)

// Configuration file and flag constants
const (
	ConfigDirectoryName      = "skipfinder"
	ConfigFileName           = "config.yaml"
	WorkingDirConfigFileName = ".skipfinder.yaml"
	ConfigEnvironmentKey     = "SKIPFINDER_CONFIG"
	ConfigCommandArgument    = "config"
	EnvFileCommandArgument   = "env-file"
	DefaultEnvFile           = ".env"
)

// ErrConfigNotFound is returned when an explicitly requested file is missing.
var ErrConfigNotFound = errors.New("configuration file not found")

func RegisterConfigFlags(cmd *cobra.Command) {
	file.Var(cmd.PersistentFlags(), ConfigCommandArgument, "", `supply configuration by a given configuration file.
By default (without specifying custom locations with this flag), the first file found in the following locations is used:
1. The path specified in the SKIPFINDER_CONFIG environment variable
2. $XDG_CONFIG_HOME/skipfinder/config.yaml
3. $HOME/.config/skipfinder/config.yaml
4. $PWD/.skipfinder.yaml`)
	file.Var(cmd.PersistentFlags(), EnvFileCommandArgument, DefaultEnvFile, `load SKIPFINDER_* environment variables from a dotenv file.
The default file is only read if it exists. Variables already set in the environment take precedence.`)
}

// GetConfigForCommand loads the configuration of cmd. The env file is loaded
// first, then the configuration file, and finally SKIPFINDER_* variables
// override the file.
func GetConfigForCommand(cmd *cobra.Command) (*v1.Config, error) {
	if err := LoadEnvFile(cmd); err != nil {
		return nil, err
	}

	var fromFile *v1.Config
	configFlag, err := file.Get(cmd.Flags(), ConfigCommandArgument)
	if err != nil {
		return nil, err
	}
	if path := configFlag.Path(); path != "" {
		if !configFlag.Exists() {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		if fromFile, err = GetConfigFromPath(path); err != nil {
			return nil, err
		}
	} else if path := GetConfigPath(); path != "" {
		if fromFile, err = GetConfigFromPath(path); err != nil {
			return nil, err
		}
		slog.DebugContext(cmd.Context(), "configuration was loaded successfully", slog.String("path", path))
	}

	fromEnv, err := v1.FromEnv(os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return v1.Merge(fromFile, fromEnv), nil
}

// LoadEnvFile loads the dotenv file selected by the env-file flag. A missing
// default file is ignored, a missing explicit file is an error.
func LoadEnvFile(cmd *cobra.Command) error {
	flag, err := file.Get(cmd.Flags(), EnvFileCommandArgument)
	if err != nil {
		return err
	}
	path := flag.Path()
	if path == "" {
		return nil
	}
	if !flag.Exists() {
		if cmd.Flags().Changed(EnvFileCommandArgument) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("could not load env file %q: %w", path, err)
	}
	slog.DebugContext(cmd.Context(), "env file was loaded successfully", slog.String("path", path))
	return nil
}

// GetConfigFromPath reads and decodes the YAML configuration file at path.
func GetConfigFromPath(path string) (_ *v1.Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	cfg, err := v1.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the first existing configuration file of the well
// known locations, or an empty string.
func GetConfigPath() string {
	for _, candidate := range []func() string{
		getFromEnvironment,
		getFromXDGOrHomeDir,
		getFromWorkingDir,
	} {
		if path := candidate(); path != "" {
			return path
		}
	}
	return ""
}

func getFromEnvironment() string {
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		if exists(env) {
			return env
		}
		slog.Warn("configuration file from environment does not exist", slog.String("path", env))
	}
	return ""
}

func getFromXDGOrHomeDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if path := filepath.Join(xdg, ConfigDirectoryName, ConfigFileName); exists(path) {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := filepath.Join(home, ".config", ConfigDirectoryName, ConfigFileName); exists(path) {
			return path
		}
	}
	return ""
}

func getFromWorkingDir() string {
	if wd, err := os.Getwd(); err == nil {
		if path := filepath.Join(wd, WorkingDirConfigFileName); exists(path) {
			return path
		}
	}
	return ""
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
