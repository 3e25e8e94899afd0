// Package rules defines the lexical rules used to recognise test declarations
// and the markers that skip or disable them.
//
// Rules are plain regular expressions. Data is extracted through named
// capture groups: every group whose name starts with "name" may carry the
// test name and every group whose name starts with "reason" may carry the
// skip reason. The first non-empty group of each kind wins, which allows a
// single rule to accept several quoting styles.
package rules

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Binding describes how a marker is associated with a test declaration.
type Binding int

const (
	// BindNext associates the marker with the next declaration, as for
	// annotations, decorators and attributes.
	BindNext Binding = iota
	// BindEnclosing associates the marker with the closest declaration before
	// it, as for skip statements inside a test body.
	BindEnclosing
	// BindInline means the marker itself declares the test, e.g. it.skip('x').
	// Inline markers without a name are reported on their own.
	BindInline
)

func (b Binding) String() string {
	switch b {
	case BindNext:
		return "next"
	case BindEnclosing:
		return "enclosing"
	case BindInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Match is a single occurrence of a pattern in a piece of content.
type Match struct {
	// Start and End are byte offsets of the whole match.
	Start, End int
	// Name is the extracted test name, if any.
	Name string
	// NameOffset is the byte offset of Name, -1 if there is no name.
	NameOffset int
	// Reason is the extracted skip reason, if any.
	Reason string
	// Text is the matched source text.
	Text string
}

// Pattern wraps a compiled expression and knows how to extract names and
// reasons from its capture groups.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr and panics if it is invalid.
func NewPattern(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

// String returns the source expression.
func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

// FindAll returns all non-overlapping matches in content.
func (p Pattern) FindAll(content string) []Match {
	if p.re == nil {
		return nil
	}
	names := p.re.SubexpNames()
	locs := p.re.FindAllStringSubmatchIndex(content, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		m := Match{
			Start:      loc[0],
			End:        loc[1],
			NameOffset: -1,
			Text:       content[loc[0]:loc[1]],
		}
		for i := 1; i < len(names); i++ {
			if loc[2*i] < 0 || loc[2*i] == loc[2*i+1] {
				continue
			}
			value := content[loc[2*i]:loc[2*i+1]]
			switch {
			case strings.HasPrefix(names[i], "name") && m.NameOffset < 0:
				m.Name = strings.TrimSpace(value)
				m.NameOffset = loc[2*i]
			case strings.HasPrefix(names[i], "reason") && m.Reason == "":
				m.Reason = strings.TrimSpace(value)
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// Declaration recognises constructs that declare a test.
type Declaration struct {
	Pattern
	// Framework is the test framework the declaration belongs to.
	Framework string
	// Anchor declarations only name the markers that bind to them and are
	// never reported as runnable tests on their own.
	Anchor bool
	// Container declarations (classes, fixtures) span a brace block. A
	// marker binding to a container skips every declaration inside it.
	Container bool
	// Boundary declarations end the body of the declaration before them,
	// e.g. helper functions. Markers inside a boundary bind to no
	// declaration.
	Boundary bool
}

// Rule recognises a marker that skips or disables a test.
type Rule struct {
	Pattern
	// Name identifies the rule, e.g. "junit5-disabled".
	Name string
	// Framework is the test framework the rule belongs to.
	Framework string
	// Binding controls how the marker is associated with a declaration.
	Binding Binding
}

// Set is the collection of declarations and rules for one language.
type Set struct {
	Language     string
	Declarations []Declaration
	Rules        []Rule
	// FileSuffixes limits the set to files whose name ends with one of the
	// suffixes. An empty list applies to every file of the language.
	FileSuffixes []string
}

// AppliesTo reports whether the set is used for the file at path.
func (s Set) AppliesTo(path string) bool {
	if len(s.FileSuffixes) == 0 {
		return true
	}
	name := filepath.Base(path)
	return slices.ContainsFunc(s.FileSuffixes, func(suffix string) bool {
		return strings.HasSuffix(name, suffix)
	})
}

// Options controls which rules are returned by For.
type Options struct {
	// IncludeComments adds the SKIP/TODO/FIXME comment rules.
	IncludeComments bool
}

// Option modifies Options.
type Option func(*Options)

// WithComments enables or disables the comment rules.
func WithComments(enabled bool) Option {
	return func(o *Options) {
		o.IncludeComments = enabled
	}
}

// For returns the rule set of the given language. The second return value
// is false if the language has no rules.
func For(language string, opts ...Option) (Set, bool) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	set, ok := sets[language]
	if !ok {
		return Set{}, false
	}
	set.Language = language
	if options.IncludeComments {
		set.Rules = append(append([]Rule(nil), set.Rules...), commentRules...)
	}
	return set, true
}

// Languages returns the names of all languages that have rules.
func Languages() []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	return names
}
