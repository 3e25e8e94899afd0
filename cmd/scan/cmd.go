package scan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sfcmd "github.com/skipfinder/skipfinder/cmd/internal/cmd"
	"github.com/skipfinder/skipfinder/internal/flags/file"
	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

// ErrSkippedTestsFound is returned with --fail-on-skipped when the scan found
// skipped tests.
var ErrSkippedTestsFound = errors.New("skipped tests found")

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Find skipped and disabled tests in a source tree",
		Args:  cobra.MaximumNArgs(1),
		Long: fmt.Sprintf(`Scan a directory tree for tests that are skipped, ignored or disabled.

Test files of many languages and frameworks are recognized, for example JUnit 4 @Ignore,
JUnit 5 @Disabled, TestNG @Test(enabled = false), pytest and unittest skips, Jest/Mocha
.skip and x-prefixed blocks, RSpec, Go t.Skip, xUnit/NUnit/MSTest and GoogleTest.
Run "skipfinder languages" for the full list.

Results are shown on the console or written as a report file named skipped_tests.<ext>.
Supported formats are {%[1]s}.

Without a directory, the directory and the output format are asked for interactively.
When the input is a terminal, the output format is also asked for if no format was given.`,
			strings.Join(append([]string{sfcmd.FormatConsole}, report.FormatNames()...), "|"),
		),
		Example: strings.TrimSpace(`
Scanning the current directory:

skipfinder scan .

Writing a Markdown report into the reports directory:

skipfinder scan ./tests --format markdown --output-dir reports

Failing a CI job when tests are skipped, excluding generated code:

skipfinder scan . --exclude "generated/**" --fail-on-skipped

Legacy invocation:

skipfinder -d=./tests -txt -o=./out
`),
		RunE:              Run,
		DisableAutoGenTag: true,
	}

	flags := cmd.Flags()
	flags.StringP(sfcmd.DirFlag, "d", "", "directory to scan, the positional argument takes precedence")
	flags.StringP(sfcmd.FormatFlag, "f", "", fmt.Sprintf("output format (one of %s), defaults to %s",
		strings.Join(append([]string{sfcmd.FormatConsole}, report.FormatNames()...), ", "), sfcmd.FormatConsole))
	flags.StringP(sfcmd.OutputDirFlag, "o", "", "directory for report files, defaults to the scanned directory")
	flags.StringSlice(sfcmd.ExcludeFlag, nil, `glob pattern of paths to skip, relative to the scanned directory ("**" crosses directories)`)
	flags.StringSlice(sfcmd.ExcludeDirFlag, nil, fmt.Sprintf("directory names that are never scanned (default %s)", strings.Join(scan.DefaultExcludeDirs, ",")))
	flags.Bool(sfcmd.IncludeCommentsFlag, false, "also report SKIP/TODO/FIXME comments that mention tests")
	flags.Int(sfcmd.ConcurrencyFlag, 0, "number of files scanned in parallel (default number of CPUs)")
	flags.Int64(sfcmd.MaxFileSizeFlag, scan.DefaultMaxFileSize, "files larger than this many bytes are not scanned")
	flags.Bool(sfcmd.FailOnSkippedFlag, false, "exit with an error if skipped tests were found")
	file.Var(flags, sfcmd.MetricsFileFlag, "", "write Prometheus metrics for the node exporter textfile collector to this file")
	flags.Bool(sfcmd.WatchFlag, false, "rescan whenever files change until interrupted")
	flags.Bool(sfcmd.NoColorFlag, false, "disable colored console output")
	flags.Bool(sfcmd.CLIFlag, false, "show results on the console without prompting")
	flags.Bool(sfcmd.TxtFlag, false, "write a text report, same as --format text")
	cmd.MarkFlagsMutuallyExclusive(sfcmd.CLIFlag, sfcmd.TxtFlag)

	return cmd
}

// Run executes the scan command.
func Run(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}

	scanner, err := scan.New(opts.scanOptions...)
	if err != nil {
		return err
	}

	if opts.watch {
		return watchDirectory(cmd, scanner, opts)
	}

	r, err := scanOnce(cmd.Context(), scanner, opts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, r, opts); err != nil {
		return err
	}
	if opts.failOnSkipped && len(r.Skipped()) > 0 {
		return fmt.Errorf("%w: %d", ErrSkippedTestsFound, len(r.Skipped()))
	}
	return nil
}
