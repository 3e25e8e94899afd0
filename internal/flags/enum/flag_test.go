package enum

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("should panic with empty options", func(t *testing.T) {
		assert.Panics(t, func() {
			New()
		})
	})

	t.Run("should default to the first option", func(t *testing.T) {
		flag := New("console", "text", "json")
		assert.Equal(t, "console", flag.String())
		assert.Equal(t, []string{"console", "text", "json"}, flag.Options())
	})

	t.Run("should not modify the given options", func(t *testing.T) {
		options := []string{"console", "text"}
		flag := New(options...)
		require.NoError(t, flag.Set("text"))
		assert.Equal(t, []string{"console", "text"}, options)
		assert.Equal(t, []string{"console", "text"}, flag.Options())
	})
}

func TestFlag_Set(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		expectError bool
		expected    string
	}{
		{
			name:     "valid value",
			value:    "json",
			expected: "json",
		},
		{
			name:        "invalid value keeps the default",
			value:       "xml",
			expectError: true,
			expected:    "console",
		},
		{
			name:        "values are case sensitive",
			value:       "JSON",
			expectError: true,
			expected:    "console",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := New("console", "text", "json")
			err := flag.Set(tt.value)
			if tt.expectError {
				assert.ErrorContains(t, err, "expected one of")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, flag.String())
		})
	}
}

func TestGet(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Var(fs, "format", []string{"console", "text", "json"}, "output format")
	fs.String("plain", "", "not an enum")

	t.Run("should get flag value", func(t *testing.T) {
		require.NoError(t, fs.Set("format", "text"))
		value, err := Get(fs, "format")
		assert.NoError(t, err)
		assert.Equal(t, "text", value)
	})

	t.Run("should error on non-existent flag", func(t *testing.T) {
		_, err := Get(fs, "non-existent")
		assert.Error(t, err)
	})

	t.Run("should error on flags of another type", func(t *testing.T) {
		_, err := Get(fs, "plain")
		assert.ErrorContains(t, err, "trying to get enum value")
	})
}

func TestVarP(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	VarP(fs, "format", "f", []string{"console", "text"}, "output format")

	flag := fs.Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
	assert.Contains(t, flag.Usage, "(must be one of [console text])")

	require.NoError(t, fs.Parse([]string{"-f", "text"}))
	value, err := Get(fs, "format")
	require.NoError(t, err)
	assert.Equal(t, "text", value)
}
