package report

import (
	"errors"
	"fmt"
	"strings"
)

// Format is a file output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists all supported file formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// ErrInvalidFormat is returned for unknown formats.
var ErrInvalidFormat = errors.New("invalid format")

// ParseFormat validates a format name. "md" and "txt" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "txt":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q: supported formats: %s", ErrInvalidFormat, s, strings.Join(FormatNames(), ", "))
	}
}

// FormatNames returns the names of all supported formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// FileName returns the name of the report file for the format.
func (f Format) FileName() string {
	return "skipped_tests" + f.Extension()
}
