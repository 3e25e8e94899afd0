package rules

import (
	"github.com/skipfinder/skipfinder/internal/language"
)

// q matches a single, double or backtick quoted string literal and captures
// its content in groups prefixed with group.
func q(group string) string {
	return `(?:"(?P<` + group + `_dq>(?:\\.|[^"\\\n])*)"` +
		`|'(?P<` + group + `_sq>(?:\\.|[^'\\\n])*)'` +
		"|`(?P<" + group + "_bt>(?:\\\\.|[^`\\\\])*)`)"
}

// dq matches a double quoted string literal only.
func dq(group string) string {
	return `"(?P<` + group + `>(?:\\.|[^"\\\n])*)"`
}

// arg matches one item of an argument list. String literals are consumed
// whole so that parentheses inside them do not end the list.
const arg = `(?:"(?:\\.|[^"\\])*"|[^)"])`

// args matches a parenthesised argument list.
const args = `\(` + arg + `*\)`

func decl(framework, expr string) Declaration {
	return Declaration{Pattern: NewPattern(expr), Framework: framework}
}

func anchor(framework, expr string) Declaration {
	return Declaration{Pattern: NewPattern(expr), Framework: framework, Anchor: true}
}

func container(framework, expr string) Declaration {
	return Declaration{Pattern: NewPattern(expr), Framework: framework, Anchor: true, Container: true}
}

func boundary(framework, expr string) Declaration {
	return Declaration{Pattern: NewPattern(expr), Framework: framework, Anchor: true, Boundary: true}
}

func rule(name, framework string, binding Binding, expr string) Rule {
	return Rule{Pattern: NewPattern(expr), Name: name, Framework: framework, Binding: binding}
}

// goReceiver matches the usual names of *testing.T, *testing.B, *testing.F
// and testing.TB values and the T() accessor of testify suites.
const goReceiver = `\b(?:t|b|f|tb|\w+\.T\(\))`

var javaScriptSet = Set{
	Declarations: []Declaration{
		decl("Jest/Mocha", `\b(?:it|test|specify)\(\s*`+q("name")),
	},
	Rules: []Rule{
		rule("js-skip", "Jest/Mocha", BindInline, `\b(?:it|test|specify|describe|context|suite)\.(?:skip|todo|fixme)\(\s*`+q("name")),
		rule("js-x-prefix", "Jest/Jasmine", BindInline, `\bx(?:it|test|describe|context|specify)\(\s*`+q("name")),
		rule("js-skip-attribute", "Mocha", BindEnclosing, `\.skip\s*=\s*true\b`),
		rule("mocha-this-skip", "Mocha", BindEnclosing, `\bthis\.skip\(\s*\)`),
		rule("playwright-conditional-skip", "Playwright", BindEnclosing,
			`\btest\.(?:skip|fixme)\((?:[^'"`+"`"+`)\n][^,)\n]*(?:,\s*`+q("reason")+`)?)?\s*\)`),
	},
}

var sets = map[string]Set{
	language.JavaScript: javaScriptSet,
	language.TypeScript: javaScriptSet,

	language.Python: {
		Declarations: []Declaration{
			decl("unittest/pytest", `(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+(?P<name>test\w*)\s*\(`),
		},
		Rules: []Rule{
			rule("unittest-skip", "unittest", BindNext, `@unittest\.skip\(\s*(?:reason\s*=\s*)?`+q("reason")+`\s*\)`),
			rule("unittest-skip-if", "unittest", BindNext, `@unittest\.skip(?:If|Unless)\([^,\n]*,\s*(?:reason\s*=\s*)?`+q("reason")+`\s*\)`),
			rule("unittest-expected-failure", "unittest", BindNext, `@unittest\.expectedFailure\b`),
			rule("pytest-skip", "pytest", BindNext, `@pytest\.mark\.skip\b(?:\(\s*(?:(?:reason\s*=\s*)?`+q("reason")+`)?\s*\))?`),
			rule("pytest-skipif", "pytest", BindNext, `@pytest\.mark\.skipif\((?:[^\n]*?reason\s*=\s*`+q("reason")+`)?[^\n]*\)`),
			rule("pytest-xfail", "pytest", BindNext, `@pytest\.mark\.xfail\b(?:\((?:[^\n]*?reason\s*=\s*`+q("reason")+`)?[^\n]*\))?`),
			rule("nose-skip", "nose", BindNext, `(?m)^[ \t]*@skip\(\s*`+q("reason")+`\s*\)`),
			rule("nose-skip-if", "nose", BindNext, `(?m)^[ \t]*@skip(?:If|Unless)\([^,\n]*,\s*`+q("reason")+`\s*\)`),
			rule("unittest-skip-test", "unittest", BindEnclosing, `\bself\.skipTest\(\s*`+q("reason")+`\s*\)`),
			rule("pytest-skip-call", "pytest", BindEnclosing, `\bpytest\.skip\(\s*(?:(?:reason\s*=\s*)?`+q("reason")+`)?[^)\n]*\)`),
		},
	},

	language.Ruby: {
		Declarations: []Declaration{
			decl("RSpec", `(?m)^[ \t]*(?:it|specify|scenario)[ \t]*\(?[ \t]*`+q("name")),
			decl("Minitest", `(?m)^[ \t]*def[ \t]+(?P<name>test_\w*)`),
		},
		Rules: []Rule{
			rule("rspec-skip-metadata", "RSpec", BindInline,
				`(?m)^[ \t]*(?:it|specify|scenario)[ \t]*\(?[ \t]*`+q("name")+`\s*,\s*skip:\s*(?:true\b|`+q("reason")+`)`),
			rule("rspec-x-prefix", "RSpec", BindInline, `\bx(?:it|specify|describe|context|scenario|feature)[ \t]*\(?[ \t]*`+q("name")),
			rule("rspec-pending", "RSpec", BindEnclosing, `(?m)^[ \t]*pending\b(?:[ \t]*\(?[ \t]*`+q("reason")+`)?`),
			rule("ruby-skip", "Minitest/RSpec", BindEnclosing, `(?m)^[ \t]*skip\b(?:[ \t]*\(?[ \t]*`+q("reason")+`)?[ \t]*\)?[ \t]*$`),
		},
	},

	language.Java: {
		Declarations: []Declaration{
			decl("JUnit/TestNG", `@(?:[\w.]+\.)?(?:Test|ParameterizedTest|RepeatedTest|TestFactory|TestTemplate)\b(?:`+args+`)?`+
				`(?:\s*@[\w.]+(?:`+args+`)?)*\s*(?:(?:public|protected|private|static|final|synchronized)\s+)*`+
				`(?:<[^>]*>\s*)?[\w<>\[\],.?]+\s+(?P<name>\w+)\s*\(`),
			container("JUnit/TestNG", `(?m)^[ \t]*(?:@[\w.]+(?:`+args+`)?\s*)*`+
				`(?:(?:public|protected|private|abstract|static|final|sealed|non-sealed|strictfp)\s+)*(?:class|interface|enum|record)\s+(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("junit4-ignore", "JUnit 4", BindNext, `@(?:org\.junit\.)?Ignore\b(?:\(\s*(?:(?:value\s*=\s*)?`+dq("reason")+`)?\s*\))?`),
			rule("junit5-disabled", "JUnit 5", BindNext, `@(?:org\.junit\.jupiter\.api\.)?Disabled\b(?:\(\s*(?:(?:value\s*=\s*)?`+dq("reason")+`)?\s*\))?`),
			rule("junit5-disabled-conditional", "JUnit 5", BindNext,
				`@(?:org\.junit\.jupiter\.api\.(?:condition\.)?)?Disabled(?:If|On|For|In)\w*(?:\((?:`+arg+`*?disabledReason\s*=\s*`+dq("reason")+`)?`+arg+`*\))?`),
			rule("testng-disabled", "TestNG", BindNext, `@(?:[\w.]+\.)?Test\s*\(`+arg+`*?\benabled\s*=\s*false\b`+arg+`*\)`),
		},
	},

	language.Kotlin: {
		Declarations: []Declaration{
			decl("JUnit", `@(?:[\w.]+\.)?(?:Test|ParameterizedTest|RepeatedTest)\b(?:`+args+`)?(?:\s*@[\w.]+(?:`+args+`)?)*\s*`+
				`(?:(?:public|private|internal|open|override|suspend)\s+)*fun\s+(?:`+"`(?P<name>[^`\\n]+)`"+`|(?P<name_id>\w+))`),
			decl("Kotest/Spek", `\b(?:test|it|should)\(\s*`+dq("name")),
			container("JUnit", `(?m)^[ \t]*(?:@[\w.]+(?:`+args+`)?\s*)*`+
				`(?:(?:public|private|internal|open|abstract|sealed|inner|data)\s+)*(?:class|object)\s+(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("junit4-ignore", "JUnit 4", BindNext, `@(?:org\.junit\.)?Ignore\b(?:\(\s*(?:(?:value\s*=\s*)?`+dq("reason")+`)?\s*\))?`),
			rule("junit5-disabled", "JUnit 5", BindNext, `@(?:org\.junit\.jupiter\.api\.)?Disabled\b(?:\(\s*(?:(?:value\s*=\s*)?`+dq("reason")+`)?\s*\))?`),
			rule("kotest-x-prefix", "Kotest/Spek", BindInline, `\bx(?:it|test|should|describe|context|given|on)\(\s*`+dq("name")),
			rule("spek-skip", "Spek", BindEnclosing, `\bskip\s*=\s*Skip\.Yes\(\s*(?:`+dq("reason")+`)?\s*\)`),
		},
	},

	language.Scala: {
		Declarations: []Declaration{
			decl("ScalaTest/MUnit", `\btest\(\s*`+dq("name")),
			decl("ScalaTest", `\b(?:it|they)\s*\(\s*`+dq("name")+`\s*\)\s*in\b`),
		},
		Rules: []Rule{
			rule("scalatest-ignore", "ScalaTest", BindInline, `\bignore\s*\(\s*`+dq("name")),
			rule("munit-ignore", "MUnit", BindInline, `\btest\(\s*`+dq("name")+`\.ignore\b`),
			rule("scalatest-pending", "ScalaTest", BindEnclosing, `(?m)^[ \t]*pending\b`),
			rule("scalatest-cancel", "ScalaTest", BindEnclosing, `\bcancel\(\s*(?:`+dq("reason")+`)?\s*\)`),
		},
	},

	language.Groovy: {
		Declarations: []Declaration{
			decl("Spock", `\bdef\s+`+q("name")+`\s*\(\s*\)`),
			decl("JUnit", `@(?:[\w.]+\.)?Test\b(?:`+args+`)?(?:\s*@[\w.]+(?:`+args+`)?)*\s*(?:(?:public|protected|private|static|final)\s+)*(?:void|def)\s+(?P<name>\w+)\s*\(`),
			container("Spock", `(?m)^[ \t]*(?:@[\w.]+(?:`+args+`)?\s*)*(?:(?:public|abstract|final)\s+)*class\s+(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("spock-ignore", "Spock", BindNext, `@(?:spock\.lang\.)?Ignore\b(?:\(\s*(?:(?:value\s*=\s*)?`+q("reason")+`)?\s*\))?`),
			rule("spock-ignore-if", "Spock", BindNext, `@(?:spock\.lang\.)?IgnoreIf\b(?:\([^\n]*\))?`),
			rule("spock-pending-feature", "Spock", BindNext, `@(?:spock\.lang\.)?PendingFeature\b(?:\((?:[^)]*?reason\s*=\s*`+q("reason")+`)?[^)]*\))?`),
			rule("junit5-disabled", "JUnit 5", BindNext, `@Disabled\b(?:\(\s*(?:`+q("reason")+`)?\s*\))?`),
		},
	},

	language.CSharp: {
		Declarations: []Declaration{
			decl("NUnit/MSTest/xUnit", `\[(?:[\w.]*\.)?(?:Test|TestMethod|Fact|Theory|TestCase|TestCaseSource)\b[^\]\n]*\]`+
				`(?:\s*\[[^\]\n]*\])*\s*(?:(?:public|private|protected|internal|static|async|virtual|override)\s+)*`+
				`[\w<>\[\],.?]+\s+(?P<name>\w+)\s*\(`),
			container("NUnit/MSTest/xUnit", `(?m)^[ \t]*(?:\[[^\]\n]*\]\s*)*`+
				`(?:(?:public|internal|private|protected|static|sealed|abstract|partial)\s+)*class\s+(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("nunit-ignore", "NUnit/MSTest", BindNext, `[\[,]\s*(?:[\w.]*\.)?Ignore(?:Attribute)?\b(?:\(\s*(?:`+dq("reason")+`)?[^)\n]*\))?`),
			rule("xunit-skip", "xUnit", BindNext, `\[(?:[\w.]*\.)?(?:Fact|Theory)\s*\([^\]\n]*?\bSkip\s*=\s*`+dq("reason")+`[^\]\n]*\]`),
			rule("nunit-explicit", "NUnit", BindNext, `[\[,]\s*Explicit\b(?:\(\s*(?:`+dq("reason")+`)?\s*\))?`),
		},
	},

	language.CPP: {
		Declarations: []Declaration{
			decl("GoogleTest", `\b(?:TEST|TEST_F|TEST_P|TYPED_TEST|TYPED_TEST_P)\(\s*\w+\s*,\s*(?P<name>\w+)\s*\)`),
			decl("Catch2", `\b(?:TEST_CASE|SCENARIO)\(\s*`+dq("name")),
		},
		Rules: []Rule{
			rule("gtest-disabled-macro", "GoogleTest", BindInline, `\bDISABLED_TEST(?:_F|_P)?\(\s*\w+\s*,\s*(?P<name>\w+)\s*\)`),
			rule("gtest-disabled-prefix", "GoogleTest", BindInline,
				`\b(?:TEST|TEST_F|TEST_P|TYPED_TEST|TYPED_TEST_P)\(\s*(?:DISABLED_\w+\s*,\s*\w+|\w+\s*,\s*DISABLED_\w+)\s*\)`),
			rule("gtest-skip", "GoogleTest", BindEnclosing, `\bGTEST_SKIP\(\s*\)(?:\s*<<\s*`+dq("reason")+`)?`),
			rule("skip-test-macro", "GoogleTest", BindEnclosing, `\bSKIP_TEST\(\s*`+dq("reason")+`\s*\)`),
			rule("catch2-hidden", "Catch2", BindInline, `\b(?:TEST_CASE|SCENARIO)\(\s*`+dq("name")+`[^)\n]*\[(?:\.|!hide|\.(?:skip|hide)|hide)\]`),
			rule("catch2-skip", "Catch2", BindEnclosing, `\bSKIP\(\s*(?:`+dq("reason")+`)?[^)\n]*\)`),
		},
	},

	language.Go: {
		FileSuffixes: []string{"_test.go"},
		Declarations: []Declaration{
			decl("testing", `(?m)^func[ \t]+(?P<name>(?:Test|Benchmark|Fuzz)\w*)\s*\(`),
			decl("testify/suite", `(?m)^func[ \t]+\([ \t]*\w+[ \t]+\*?\w+[ \t]*\)[ \t]*(?P<name>Test\w*)\s*\(`),
			boundary("testing", `(?m)^func[ \t]+(?:\([^)\n]*\)[ \t]*)?(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("go-skip", "testing", BindEnclosing, goReceiver+`\.Skip\(\s*(?:`+q("reason")+`)?[^)\n]*\)`),
			rule("go-skipf", "testing", BindEnclosing, goReceiver+`\.Skipf\(\s*`+q("reason")),
			rule("go-skipnow", "testing", BindEnclosing, goReceiver+`\.SkipNow\(\s*\)`),
		},
	},

	language.PHP: {
		Declarations: []Declaration{
			decl("PHPUnit", `\bfunction\s+(?P<name>test\w*)\s*\(`),
			decl("PHPUnit", `(?:@test\b|#\[Test\])[\s\S]{0,200}?\bfunction\s+(?P<name>\w+)\s*\(`),
		},
		Rules: []Rule{
			rule("phpunit-skipped", "PHPUnit", BindEnclosing, `(?:\$this->|self::|static::)markTestSkipped\(\s*(?:`+q("reason")+`)?[^)\n]*\)`),
			rule("phpunit-incomplete", "PHPUnit", BindEnclosing, `(?:\$this->|self::|static::)markTestIncomplete\(\s*(?:`+q("reason")+`)?[^)\n]*\)`),
			rule("phpunit-skip-annotation", "PHPUnit", BindNext, `@skip\b[ \t]*(?P<reason>[^\n*]*)`),
		},
	},

	language.Rust: {
		Declarations: []Declaration{
			decl("libtest", `#\[(?:\w+::)?test\](?:\s*#\[[^\]]*\])*\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(?P<name>\w+)`),
		},
		Rules: []Rule{
			rule("rust-ignore", "libtest", BindNext, `#\[ignore(?:\s*=\s*`+dq("reason")+`)?\]`),
		},
	},

	language.Swift: {
		Declarations: []Declaration{
			decl("XCTest", `\bfunc\s+(?P<name>test\w*)\s*\(`),
			decl("Swift Testing", `@Test\b(?:\([^\n]*\))?\s*(?:(?:public|private|internal|static|mutating)\s+)*func\s+(?P<name>\w+)\s*\(`),
		},
		Rules: []Rule{
			rule("xctest-skip", "XCTest", BindEnclosing, `\bXCTSkip(?:If|Unless)?\((?:[^"\n]*`+dq("reason")+`)?[^\n]*\)`),
			rule("swift-testing-disabled", "Swift Testing", BindNext, `@Test\([^\n]*\.disabled\(\s*(?:`+dq("reason")+`)?`),
		},
	},

	language.Dart: {
		Declarations: []Declaration{
			decl("package:test", `\b(?:test|testWidgets)\(\s*`+q("name")),
		},
		Rules: []Rule{
			rule("dart-skip", "package:test", BindEnclosing, `\bskip:\s*(?:true\b|`+q("reason")+`)`),
		},
	},

	language.Perl: {
		Declarations: []Declaration{
			decl("Test::More", `(?m)^[ \t]*subtest[ \t]+`+q("name")),
		},
		Rules: []Rule{
			rule("perl-skip-block", "Test::More", BindEnclosing, `\bSKIP:\s*\{[^}]*?\bskip\s*\(?\s*`+q("reason")),
			rule("perl-todo-block", "Test::More", BindEnclosing, `\bTODO:\s*\{\s*local\s+\$TODO\s*=\s*`+q("reason")),
		},
	},

	language.Elixir: {
		Declarations: []Declaration{
			decl("ExUnit", `(?m)^[ \t]*test[ \t]+`+dq("name")),
		},
		Rules: []Rule{
			rule("exunit-skip-tag", "ExUnit", BindNext, `@tag\s+:skip\b`),
			rule("exunit-skip-reason", "ExUnit", BindNext, `@tag\s+skip:\s*`+dq("reason")),
		},
	},

	language.Clojure: {
		Declarations: []Declaration{
			decl("clojure.test", `\(deftest\s+(?:\^[:\w/{}\s-]+?\s+)*(?P<name>[\w\-?!*<>+]+)`),
		},
		Rules: []Rule{
			rule("clojure-skip-meta", "clojure.test", BindNext, `\^:(?:kaocha/)?(?:skip|pending)\b`),
		},
	},

	language.Robot: {
		Declarations: []Declaration{
			anchor("Robot Framework", `(?m)^(?P<name>[A-Za-z][^\n]*?)[ \t]*$`),
		},
		Rules: []Rule{
			rule("robot-skip-tag", "Robot Framework", BindEnclosing, `(?im)^[ \t]+\[Tags\][^\n]*\bskip\b[^\n]*$`),
			rule("robot-skip", "Robot Framework", BindEnclosing, `(?m)^[ \t]+Skip(?: If)?(?:[ \t]{2,}(?P<reason>[^\n]+?))?[ \t]*$`),
		},
	},
}

// commentRules match SKIP/TODO/FIXME comments that mention tests.
var commentRules = []Rule{
	rule("comment-marker", "comment", BindInline, `(?im)(?://|#)[ \t]*(?:skip|todo|fixme)\b:?(?P<reason>[^\n]*\btests?\b[^\n]*)$`),
}
