package v1

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// Environment variables read by FromEnv.
const (
	EnvExclude         = "SKIPFINDER_EXCLUDE"
	EnvExcludeDirs     = "SKIPFINDER_EXCLUDE_DIRS"
	EnvIncludeComments = "SKIPFINDER_INCLUDE_COMMENTS"
	EnvConcurrency     = "SKIPFINDER_CONCURRENCY"
	EnvMaxFileSize     = "SKIPFINDER_MAX_FILE_SIZE"
	EnvFormat          = "SKIPFINDER_FORMAT"
	EnvOutputDir       = "SKIPFINDER_OUTPUT_DIR"
	EnvMetricsFile     = "SKIPFINDER_METRICS_FILE"
)

// Config holds the settings loaded from configuration files and the
// environment. Unset fields keep the built-in defaults.
type Config struct {
	// Exclude are glob patterns of paths that are not scanned.
	Exclude []string `json:"exclude,omitempty"`
	// ExcludeDirs replaces the default list of skipped directory names.
	ExcludeDirs []string `json:"excludeDirs,omitempty"`
	// IncludeComments enables the SKIP/TODO/FIXME comment markers.
	IncludeComments *bool `json:"includeComments,omitempty"`
	// Concurrency is the number of files scanned in parallel.
	Concurrency int `json:"concurrency,omitempty"`
	// MaxFileSize is the largest scanned file in bytes.
	MaxFileSize int64 `json:"maxFileSize,omitempty"`
	// Format is the default output format.
	Format string `json:"format,omitempty"`
	// OutputDir is the default directory for report files.
	OutputDir string `json:"outputDir,omitempty"`
	// MetricsFile is the default Prometheus textfile path.
	MetricsFile string `json:"metricsFile,omitempty"`
}

// Decode reads a YAML configuration. Unknown fields are rejected.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a configuration from SKIPFINDER_* variables. List values
// are comma separated.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	var errs []error
	if v, ok := lookup(EnvExclude); ok {
		cfg.Exclude = splitList(v)
	}
	if v, ok := lookup(EnvExcludeDirs); ok {
		cfg.ExcludeDirs = splitList(v)
	}
	if v, ok := lookup(EnvIncludeComments); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvIncludeComments, err))
		} else {
			cfg.IncludeComments = &b
		}
	}
	if v, ok := lookup(EnvConcurrency); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvConcurrency, err))
		}
		cfg.Concurrency = n
	}
	if v, ok := lookup(EnvMaxFileSize); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxFileSize, err))
		}
		cfg.MaxFileSize = n
	}
	if v, ok := lookup(EnvFormat); ok {
		cfg.Format = v
	}
	if v, ok := lookup(EnvOutputDir); ok {
		cfg.OutputDir = v
	}
	if v, ok := lookup(EnvMetricsFile); ok {
		cfg.MetricsFile = v
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Merge combines configs in order. Set values of later configs override
// earlier ones, exclude patterns accumulate.
func Merge(configs ...*Config) *Config {
	merged := new(Config)
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		for _, pattern := range cfg.Exclude {
			if !slices.Contains(merged.Exclude, pattern) {
				merged.Exclude = append(merged.Exclude, pattern)
			}
		}
		if cfg.ExcludeDirs != nil {
			merged.ExcludeDirs = slices.Clone(cfg.ExcludeDirs)
		}
		if cfg.IncludeComments != nil {
			v := *cfg.IncludeComments
			merged.IncludeComments = &v
		}
		if cfg.Concurrency != 0 {
			merged.Concurrency = cfg.Concurrency
		}
		if cfg.MaxFileSize != 0 {
			merged.MaxFileSize = cfg.MaxFileSize
		}
		if cfg.Format != "" {
			merged.Format = cfg.Format
		}
		if cfg.OutputDir != "" {
			merged.OutputDir = cfg.OutputDir
		}
		if cfg.MetricsFile != "" {
			merged.MetricsFile = cfg.MetricsFile
		}
	}
	return merged
}
