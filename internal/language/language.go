// Package language holds the registry of source languages skipfinder knows
// how to scan, keyed by file extension.
package language

import (
	"path/filepath"
	"slices"
	"strings"
)

// Language describes a scannable source language.
type Language struct {
	// Name is the human readable name, e.g. "Java" or "C#".
	Name string
	// Extensions lists the lower-case file extensions including the dot.
	Extensions []string
	// Fence is the identifier used for Markdown code fences.
	Fence string
}

// Well known language names.
const (
	JavaScript = "JavaScript"
	TypeScript = "TypeScript"
	Python     = "Python"
	Ruby       = "Ruby"
	Java       = "Java"
	Kotlin     = "Kotlin"
	Scala      = "Scala"
	Groovy     = "Groovy"
	CSharp     = "C#"
	CPP        = "C++"
	Go         = "Go"
	PHP        = "PHP"
	Rust       = "Rust"
	Swift      = "Swift"
	Dart       = "Dart"
	Perl       = "Perl"
	Elixir     = "Elixir"
	Clojure    = "Clojure"
	Robot      = "Robot Framework"
)

var registry = []Language{
	{Name: JavaScript, Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".coffee"}, Fence: "javascript"},
	{Name: TypeScript, Extensions: []string{".ts", ".tsx", ".mts", ".cts"}, Fence: "typescript"},
	{Name: Python, Extensions: []string{".py", ".pyi", ".pyw"}, Fence: "python"},
	{Name: Ruby, Extensions: []string{".rb", ".rbw"}, Fence: "ruby"},
	{Name: Java, Extensions: []string{".java"}, Fence: "java"},
	{Name: Kotlin, Extensions: []string{".kt", ".kts"}, Fence: "kotlin"},
	{Name: Scala, Extensions: []string{".scala"}, Fence: "scala"},
	{Name: Groovy, Extensions: []string{".groovy", ".gradle"}, Fence: "groovy"},
	{Name: CSharp, Extensions: []string{".cs", ".csx"}, Fence: "csharp"},
	{Name: CPP, Extensions: []string{".c", ".cpp", ".cxx", ".cc", ".c++", ".h", ".hpp", ".hxx"}, Fence: "cpp"},
	{Name: Go, Extensions: []string{".go"}, Fence: "go"},
	{Name: PHP, Extensions: []string{".php", ".phtml", ".php3", ".php4", ".php5", ".phps"}, Fence: "php"},
	{Name: Rust, Extensions: []string{".rs"}, Fence: "rust"},
	{Name: Swift, Extensions: []string{".swift"}, Fence: "swift"},
	{Name: Dart, Extensions: []string{".dart"}, Fence: "dart"},
	{Name: Perl, Extensions: []string{".pl", ".pm", ".t"}, Fence: "perl"},
	{Name: Elixir, Extensions: []string{".ex", ".exs"}, Fence: "elixir"},
	{Name: Clojure, Extensions: []string{".clj", ".cljs", ".cljc", ".edn"}, Fence: "clojure"},
	{Name: Robot, Extensions: []string{".robot", ".resource"}, Fence: "robotframework"},
}

var byExtension = func() map[string]Language {
	m := make(map[string]Language)
	for _, l := range registry {
		for _, ext := range l.Extensions {
			m[ext] = l
		}
	}
	return m
}()

// ForPath resolves the language of a file by its extension.
func ForPath(path string) (Language, bool) {
	l, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return l, ok
}

// ByName returns the language registered under name.
func ByName(name string) (Language, bool) {
	for _, l := range registry {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

// All returns every registered language sorted by name.
func All() []Language {
	all := slices.Clone(registry)
	slices.SortFunc(all, func(a, b Language) int {
		return strings.Compare(a.Name, b.Name)
	})
	return all
}
