package scan

import (
	"slices"
	"sort"
	"strings"

	"github.com/skipfinder/skipfinder/internal/rules"
)

// Status is the classification of a discovered test.
type Status string

const (
	StatusRunnable Status = "runnable"
	StatusSkipped  Status = "skipped"
)

// Test is a single test found in a source file.
type Test struct {
	// Name of the test, empty if it could not be determined.
	Name string `json:"name"`
	// Path of the file the test was found in.
	Path string `json:"path"`
	// Language of the file.
	Language string `json:"language"`
	// Line is the 1-based line of the skip marker for skipped tests and of
	// the declaration for runnable tests.
	Line int `json:"line"`
	// Status is either StatusRunnable or StatusSkipped.
	Status Status `json:"status"`
	// Reason is the verbatim skip reason, if the marker carries one.
	Reason string `json:"reason,omitempty"`
	// Framework is the test framework that recognised the test or marker.
	Framework string `json:"framework,omitempty"`
	// Rule is the name of the marker rule for skipped tests.
	Rule string `json:"rule,omitempty"`
	// Snippet is the matched source text.
	Snippet string `json:"snippet"`
}

// Skipped reports whether the test is skipped.
func (t Test) Skipped() bool {
	return t.Status == StatusSkipped
}

type declaration struct {
	rules.Match
	framework string
	anchor    bool
	container bool
	boundary  bool
	// end is the offset after the brace block of a container.
	end     int
	skipped bool
	marker  *marker
	// inherited is set while the marker is the one of the container.
	inherited bool
	// members counts the declarations skipped through a container marker.
	members int
}

// skip marks d as skipped by m. A declaration keeps its first own marker,
// later markers only contribute a missing reason.
func (d *declaration) skip(m *marker) {
	if !d.skipped || d.inherited {
		own := *m
		d.skipped, d.inherited = true, false
		d.marker = &own
		return
	}
	if d.marker.Reason == "" && m.Reason != "" {
		d.marker.Reason = m.Reason
	}
}

// inherit marks d as skipped by the marker of its container unless it is
// skipped already.
func (d *declaration) inherit(m *marker) {
	if !d.skipped {
		d.skip(m)
		d.inherited = true
	}
}

type marker struct {
	rules.Match
	rule rules.Rule
}

// Classify finds all tests in content using the given rule set. Every
// declaration is reported as runnable unless a marker binds to it; markers
// that bind to no declaration are reported as skipped tests on their own.
// A marker binding to a container skips all declarations inside it.
// The returned tests are ordered by line. Path and Language of the returned
// tests are left empty.
func Classify(set rules.Set, content string) []Test {
	decls := findDeclarations(set, content)
	markers := findMarkers(set, content)
	lines := newLineIndex(content)

	var standalone []Test
	for i := range markers {
		m := &markers[i]
		idx := bind(decls, m)
		if idx < 0 {
			standalone = append(standalone, Test{
				Name:      m.Name,
				Line:      lines.line(m.Start),
				Status:    StatusSkipped,
				Reason:    m.Reason,
				Framework: m.rule.Framework,
				Rule:      m.rule.Name,
				Snippet:   snippet(m.Text),
			})
			continue
		}
		d := &decls[idx]
		d.skip(m)
		if !d.container {
			continue
		}
		for j := idx + 1; j < len(decls) && decls[j].NameOffset < d.end; j++ {
			if member := &decls[j]; !member.anchor {
				member.inherit(m)
				d.members++
			}
		}
	}

	tests := make([]Test, 0, len(decls)+len(standalone))
	for _, d := range decls {
		switch {
		case d.skipped && d.members > 0:
			// reported through its members
		case d.skipped:
			name := d.Name
			if d.marker.Name != "" && d.marker.NameOffset != d.NameOffset {
				name = d.marker.Name
			}
			tests = append(tests, Test{
				Name:      name,
				Line:      lines.line(d.marker.Start),
				Status:    StatusSkipped,
				Reason:    d.marker.Reason,
				Framework: d.marker.rule.Framework,
				Rule:      d.marker.rule.Name,
				Snippet:   snippet(d.marker.Text),
			})
		case !d.anchor:
			tests = append(tests, Test{
				Name:      d.Name,
				Line:      lines.line(d.NameOffset),
				Status:    StatusRunnable,
				Framework: d.framework,
				Snippet:   snippet(lines.text(d.NameOffset)),
			})
		}
	}
	tests = append(tests, standalone...)

	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].Line < tests[j].Line
	})
	return tests
}

// bind returns the index of the declaration the marker applies to, or -1.
// A declaration whose name lies within the marker always wins, so that
// markers spanning a declaration (TEST(Suite, DISABLED_x), rspec metadata)
// never produce a second entry.
func bind(decls []declaration, m *marker) int {
	for i, d := range decls {
		if d.NameOffset >= m.Start && d.NameOffset < m.End {
			return i
		}
	}
	next := sort.Search(len(decls), func(i int) bool {
		return decls[i].NameOffset >= m.Start
	})
	switch m.rule.Binding {
	case rules.BindNext:
		if next < len(decls) && !decls[next].boundary {
			return next
		}
	case rules.BindEnclosing:
		for i := next - 1; i >= 0; i-- {
			switch d := decls[i]; {
			case d.boundary:
				return -1
			case !d.container:
				return i
			}
		}
	}
	return -1
}

// findDeclarations returns the declarations of all patterns ordered by the
// offset of their name, with duplicates removed.
func findDeclarations(set rules.Set, content string) []declaration {
	var decls []declaration
	seen := make(map[int]struct{})
	for _, d := range set.Declarations {
		for _, m := range d.FindAll(content) {
			if m.NameOffset < 0 {
				continue
			}
			if _, ok := seen[m.NameOffset]; ok {
				continue
			}
			seen[m.NameOffset] = struct{}{}
			decl := declaration{Match: m, framework: d.Framework, anchor: d.Anchor, container: d.Container, boundary: d.Boundary}
			if d.Container {
				decl.end = blockEnd(content, m.End)
			}
			decls = append(decls, decl)
		}
	}
	slices.SortFunc(decls, func(a, b declaration) int {
		return a.NameOffset - b.NameOffset
	})
	return decls
}

// findMarkers returns the markers of all rules ordered by offset. A marker
// overlapping an earlier one is dropped.
func findMarkers(set rules.Set, content string) []marker {
	var all []marker
	for _, r := range set.Rules {
		for _, m := range r.FindAll(content) {
			all = append(all, marker{Match: m, rule: r})
		}
	}
	slices.SortStableFunc(all, func(a, b marker) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		// prefer the longer match at the same offset
		return b.End - a.End
	})

	markers := all[:0]
	end := -1
	for _, m := range all {
		if m.Start < end {
			continue
		}
		markers = append(markers, m)
		end = m.End
	}
	return markers
}

// blockEnd returns the offset after the brace block opened by the first '{'
// at or after from, or len(content) if the block is never closed. Braces in
// string literals and comments are ignored.
func blockEnd(content string, from int) int {
	depth := 0
	for i := from; i < len(content); i++ {
		switch c := content[i]; {
		case c == '"' || c == '\'':
			i = quoteEnd(content, i)
		case strings.HasPrefix(content[i:], "//"):
			next := strings.IndexByte(content[i:], '\n')
			if next < 0 {
				return len(content)
			}
			i += next
		case strings.HasPrefix(content[i:], "/*"):
			next := strings.Index(content[i+2:], "*/")
			if next < 0 {
				return len(content)
			}
			i += next + 3
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(content)
}

// quoteEnd returns the offset of the quote closing the literal that starts
// at start. Literals end at the line end at the latest.
func quoteEnd(content string, start int) int {
	quote := content[start]
	for i := start + 1; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case quote, '\n':
			return i
		}
	}
	return len(content)
}

// snippet returns the first line of text, trimmed.
func snippet(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	content string
	starts  []int
}

func newLineIndex(content string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{content: content, starts: starts}
}

func (l lineIndex) line(offset int) int {
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	})
}

// text returns the full line containing offset.
func (l lineIndex) text(offset int) string {
	n := l.line(offset)
	start := l.starts[n-1]
	end := len(l.content)
	if n < len(l.starts) {
		end = l.starts[n] - 1
	}
	return l.content[start:end]
}
