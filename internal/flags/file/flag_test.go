package file

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_Set(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("concurrency: 2\n"), 0o644))
	t.Setenv("SKIPFINDER_TEST_DIR", dir)

	tests := []struct {
		name   string
		value  string
		path   string
		exists bool
		isDir  bool
	}{
		{name: "existing file", value: config, path: config, exists: true},
		{name: "missing file", value: filepath.Join(dir, "missing.yaml"), path: filepath.Join(dir, "missing.yaml")},
		{name: "directory", value: dir, path: dir, exists: true, isDir: true},
		{name: "environment variables", value: "$SKIPFINDER_TEST_DIR/config.yaml", path: config, exists: true},
		{name: "empty", value: "", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := &Flag{}
			require.NoError(t, flag.Set(tt.value))
			assert.Equal(t, tt.value, flag.String())
			assert.Equal(t, tt.path, flag.Path())
			assert.Equal(t, tt.exists, flag.Exists())
			if tt.exists {
				assert.Equal(t, tt.isDir, flag.IsDir())
			}
		})
	}
}

func TestExpand_Home(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".skipfinder.yaml"), Expand("~/.skipfinder.yaml"))
	assert.Equal(t, "a~/b", Expand("a~/b"))
}

func TestFlag_Open(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	r.NoError(os.WriteFile(path, []byte("SKIPFINDER_FORMAT=json\n"), 0o644))

	flag := &Flag{}
	r.NoError(flag.Set(path))
	reader, err := flag.Open()
	r.NoError(err)
	content, err := io.ReadAll(reader)
	r.NoError(err)
	r.NoError(reader.Close())
	r.Equal("SKIPFINDER_FORMAT=json\n", string(content))

	r.NoError(flag.Set(filepath.Join(dir, "missing")))
	_, err = flag.Open()
	r.ErrorContains(err, "does not exist")

	r.NoError(flag.Set(dir))
	_, err = flag.Open()
	r.ErrorContains(err, "is a directory")
}

func TestVarAndGet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Var(fs, "config", "", "config file")
	VarP(fs, "env-file", "e", ".env", "env file")
	fs.String("plain", "", "not a path")

	flag, err := Get(fs, "env-file")
	require.NoError(t, err)
	assert.Equal(t, ".env", flag.String())
	assert.Equal(t, "e", fs.Lookup("env-file").Shorthand)

	require.NoError(t, fs.Parse([]string{"--config", "/tmp/x.yaml"}))
	flag, err = Get(fs, "config")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.yaml", flag.Path())

	_, err = Get(fs, "plain")
	assert.Error(t, err)
	_, err = Get(fs, "missing")
	assert.Error(t, err)
}
