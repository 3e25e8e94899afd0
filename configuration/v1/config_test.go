package v1

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDecode(t *testing.T) {
	r := require.New(t)
	cfg, err := Decode(strings.NewReader(`
exclude:
  - "generated/**"
excludeDirs: [".git"]
includeComments: true
concurrency: 4
maxFileSize: 2048
format: markdown
outputDir: reports
`))
	r.NoError(err)
	expected := &Config{
		Exclude:         []string{"generated/**"},
		ExcludeDirs:     []string{".git"},
		IncludeComments: ptr(true),
		Concurrency:     4,
		MaxFileSize:     2048,
		Format:          "markdown",
		OutputDir:       "reports",
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	_, err = Decode(strings.NewReader("unknownField: 1\n"))
	r.Error(err)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvExclude:         "a/**, b.go,",
		EnvIncludeComments: "false",
		EnvConcurrency:     "2",
		EnvFormat:          "json",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := FromEnv(lookup)
	require.NoError(t, err)
	expected := &Config{
		Exclude:         []string{"a/**", "b.go"},
		IncludeComments: ptr(false),
		Concurrency:     2,
		Format:          "json",
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	env[EnvConcurrency] = "many"
	env[EnvMaxFileSize] = "big"
	_, err = FromEnv(lookup)
	require.ErrorContains(t, err, EnvConcurrency)
	require.ErrorContains(t, err, EnvMaxFileSize)
}

func TestMerge(t *testing.T) {
	file := &Config{
		Exclude:     []string{"generated/**"},
		ExcludeDirs: []string{".git", "vendor"},
		Concurrency: 8,
		Format:      "text",
	}
	env := &Config{
		Exclude:         []string{"generated/**", "*.pb.go"},
		IncludeComments: ptr(true),
		Format:          "json",
	}

	merged := Merge(file, nil, env)
	expected := &Config{
		Exclude:         []string{"generated/**", "*.pb.go"},
		ExcludeDirs:     []string{".git", "vendor"},
		IncludeComments: ptr(true),
		Concurrency:     8,
		Format:          "json",
	}
	if diff := cmp.Diff(expected, merged); diff != "" {
		t.Errorf("unexpected merge (-want +got):\n%s", diff)
	}

	merged.ExcludeDirs[0] = "changed"
	require.Equal(t, ".git", file.ExcludeDirs[0], "merge must not alias its inputs")
	require.Equal(t, &Config{}, Merge())
}
