package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skipfinder/skipfinder/internal/language"
)

func TestPatternFindAll(t *testing.T) {
	r := require.New(t)

	p := NewPattern(`skip\((?:'(?P<reason1>[^']*)'|"(?P<reason2>[^"]*)")\)`)
	matches := p.FindAll(`skip("double") skip('single')`)
	r.Len(matches, 2)
	r.Equal("double", matches[0].Reason)
	r.Equal("single", matches[1].Reason)
	r.Equal(-1, matches[0].NameOffset)
	r.Equal(`skip("double")`, matches[0].Text)
	r.Equal(0, matches[0].Start)
}

func TestPatternName(t *testing.T) {
	r := require.New(t)

	p := NewPattern(`func (?P<name>Test\w*)`)
	matches := p.FindAll("package x\nfunc TestSkipped(t *testing.T) {}")
	r.Len(matches, 1)
	r.Equal("TestSkipped", matches[0].Name)
	r.Equal(15, matches[0].NameOffset)
}

func TestFor(t *testing.T) {
	r := require.New(t)

	set, ok := For(language.Java)
	r.True(ok)
	r.Equal(language.Java, set.Language)
	r.NotEmpty(set.Declarations)

	withComments, ok := For(language.Java, WithComments(true))
	r.True(ok)
	r.Len(withComments.Rules, len(set.Rules)+len(commentRules))

	again, _ := For(language.Java)
	r.Len(again.Rules, len(set.Rules), "comment rules must not leak into the shared set")

	_, ok = For("COBOL")
	r.False(ok)
}

func TestEveryLanguageHasRules(t *testing.T) {
	r := require.New(t)
	for _, l := range language.All() {
		set, ok := For(l.Name)
		r.True(ok, l.Name)
		r.NotEmpty(set.Rules, l.Name)
	}
	r.Len(Languages(), len(language.All()))
}

func TestBindingString(t *testing.T) {
	r := require.New(t)
	r.Equal("next", BindNext.String())
	r.Equal("enclosing", BindEnclosing.String())
	r.Equal("inline", BindInline.String())
	r.Equal("unknown", Binding(42).String())
}

func TestSetAppliesTo(t *testing.T) {
	r := require.New(t)

	goSet, ok := For(language.Go)
	r.True(ok)
	r.True(goSet.AppliesTo("pkg/reader_test.go"))
	r.False(goSet.AppliesTo("pkg/reader.go"))
	r.False(goSet.AppliesTo("pkg/test.go"))

	javaSet, ok := For(language.Java)
	r.True(ok)
	r.True(javaSet.AppliesTo("src/Reader.java"))
}

func TestJavaArgumentsWithParentheses(t *testing.T) {
	r := require.New(t)
	set, ok := For(language.Java)
	r.True(ok)

	var names []string
	for _, d := range set.Declarations {
		if d.Container {
			continue
		}
		for _, m := range d.FindAll("@Test\n@Disabled(\"see (JIRA-1)\")\nvoid a() {}\n") {
			names = append(names, m.Name)
		}
	}
	r.Equal([]string{"a"}, names)
}
