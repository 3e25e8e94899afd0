package cmd

const (
	// DirFlag Flag to specify the directory to scan. A positional argument takes precedence.
	DirFlag = "dir"
	// FormatFlag Flag to select console output or a report file format.
	FormatFlag = "format"
	// OutputDirFlag Flag to specify the directory report files are written to.
	OutputDirFlag = "output-dir"
	// ExcludeFlag Flag to exclude paths by glob pattern.
	ExcludeFlag = "exclude"
	// ExcludeDirFlag Flag to replace the default list of skipped directory names.
	ExcludeDirFlag = "exclude-dir"
	// IncludeCommentsFlag Flag to report SKIP/TODO/FIXME comments mentioning tests.
	IncludeCommentsFlag = "include-comments"
	// ConcurrencyFlag Flag to set the number of files scanned in parallel.
	ConcurrencyFlag = "concurrency"
	// MaxFileSizeFlag Flag to set the largest file size that is scanned.
	MaxFileSizeFlag = "max-file-size"
	// FailOnSkippedFlag Flag to exit with an error when skipped tests are found.
	FailOnSkippedFlag = "fail-on-skipped"
	// MetricsFileFlag Flag to write Prometheus metrics to a textfile.
	MetricsFileFlag = "metrics-file"
	// WatchFlag Flag to rescan whenever files change.
	WatchFlag = "watch"
	// NoColorFlag Flag to disable colored console output.
	NoColorFlag = "no-color"
	// CLIFlag Legacy flag forcing console output without prompting.
	CLIFlag = "cli"
	// TxtFlag Legacy flag selecting the text format.
	TxtFlag = "txt"

	// FormatConsole selects the console renderer instead of a report file.
	FormatConsole = "console"
)
