package scan

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	sfcmd "github.com/skipfinder/skipfinder/cmd/internal/cmd"
	v1 "github.com/skipfinder/skipfinder/configuration/v1"
	sfctx "github.com/skipfinder/skipfinder/internal/context"
	"github.com/skipfinder/skipfinder/internal/flags/file"
	"github.com/skipfinder/skipfinder/internal/prompt"
	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

// options is the effective configuration of one scan command run. Flags
// take precedence over the configuration from the command context.
type options struct {
	dir           string
	console       bool
	format        report.Format
	outputDir     string
	metricsFile   string
	failOnSkipped bool
	watch         bool
	color         bool
	scanOptions   []scan.Option
}

func resolveOptions(cmd *cobra.Command, args []string) (*options, error) {
	cfg := sfctx.ConfigurationFrom(cmd.Context())
	flags := cmd.Flags()
	o := &options{}

	noColor, err := flags.GetBool(sfcmd.NoColorFlag)
	if err != nil {
		return nil, fmt.Errorf("getting no-color flag failed: %w", err)
	}
	o.color = report.ColorEnabled(cmd.OutOrStdout(), noColor)

	if len(args) > 0 {
		o.dir = args[0]
	} else if o.dir, err = flags.GetString(sfcmd.DirFlag); err != nil {
		return nil, fmt.Errorf("getting dir flag failed: %w", err)
	}

	var questions *prompt.Prompter
	asker := func() *prompt.Prompter {
		if questions == nil {
			questions = prompt.New(cmd.InOrStdin(), cmd.OutOrStdout(), o.color)
		}
		return questions
	}

	interactive := false
	if o.dir == "" {
		if o.dir, err = asker().Directory(); err != nil {
			return nil, err
		}
		interactive = true
	}

	format, explicit, err := selectedFormat(flags, cfg)
	if err != nil {
		return nil, err
	}
	askForOutputDir := false
	if !explicit && (interactive || isTerminal(cmd.InOrStdin())) {
		selection, err := asker().Output()
		if err != nil {
			return nil, err
		}
		if selection.Console {
			format = sfcmd.FormatConsole
		} else {
			format = string(selection.Format)
			askForOutputDir = true
		}
	}
	if format == sfcmd.FormatConsole {
		o.console = true
	} else {
		o.format = report.Format(format)
	}

	switch outputDir, err := flags.GetString(sfcmd.OutputDirFlag); {
	case err != nil:
		return nil, fmt.Errorf("getting output-dir flag failed: %w", err)
	case outputDir != "":
		o.outputDir = outputDir
	case cfg.OutputDir != "":
		o.outputDir = cfg.OutputDir
	case askForOutputDir:
		if o.outputDir, err = asker().OutputDir(o.dir); err != nil {
			return nil, err
		}
	default:
		o.outputDir = o.dir
	}

	metricsFlag, err := file.Get(flags, sfcmd.MetricsFileFlag)
	if err != nil {
		return nil, err
	}
	o.metricsFile = metricsFlag.Path()
	if o.metricsFile == "" {
		o.metricsFile = file.Expand(cfg.MetricsFile)
	}

	if o.failOnSkipped, err = flags.GetBool(sfcmd.FailOnSkippedFlag); err != nil {
		return nil, fmt.Errorf("getting fail-on-skipped flag failed: %w", err)
	}
	if o.watch, err = flags.GetBool(sfcmd.WatchFlag); err != nil {
		return nil, fmt.Errorf("getting watch flag failed: %w", err)
	}

	if o.scanOptions, err = scanOptions(flags, cfg); err != nil {
		return nil, err
	}
	return o, nil
}

// selectedFormat returns the format chosen by flags or configuration and
// whether such a choice was made at all.
func selectedFormat(flags *pflag.FlagSet, cfg *v1.Config) (string, bool, error) {
	if cli, _ := flags.GetBool(sfcmd.CLIFlag); cli {
		return sfcmd.FormatConsole, true, nil
	}
	if txt, _ := flags.GetBool(sfcmd.TxtFlag); txt {
		return string(report.FormatText), true, nil
	}
	name, err := flags.GetString(sfcmd.FormatFlag)
	if err != nil {
		return "", false, fmt.Errorf("getting format flag failed: %w", err)
	}
	if name == "" {
		name = cfg.Format
	}
	if name == "" {
		return sfcmd.FormatConsole, false, nil
	}
	format, err := parseFormat(name)
	return format, true, err
}

func parseFormat(name string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(name), sfcmd.FormatConsole) {
		return sfcmd.FormatConsole, nil
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w %q: supported formats: %s", report.ErrInvalidFormat, name,
			strings.Join(append([]string{sfcmd.FormatConsole}, report.FormatNames()...), ", "))
	}
	return string(format), nil
}

func scanOptions(flags *pflag.FlagSet, cfg *v1.Config) ([]scan.Option, error) {
	excludes, err := flags.GetStringSlice(sfcmd.ExcludeFlag)
	if err != nil {
		return nil, fmt.Errorf("getting exclude flag failed: %w", err)
	}
	opts := []scan.Option{scan.WithExclude(append(cfg.Exclude, excludes...)...)}

	if flags.Changed(sfcmd.ExcludeDirFlag) {
		dirs, err := flags.GetStringSlice(sfcmd.ExcludeDirFlag)
		if err != nil {
			return nil, fmt.Errorf("getting exclude-dir flag failed: %w", err)
		}
		opts = append(opts, scan.WithExcludeDirs(dirs...))
	} else if cfg.ExcludeDirs != nil {
		opts = append(opts, scan.WithExcludeDirs(cfg.ExcludeDirs...))
	}

	comments := cfg.IncludeComments != nil && *cfg.IncludeComments
	if flags.Changed(sfcmd.IncludeCommentsFlag) {
		if comments, err = flags.GetBool(sfcmd.IncludeCommentsFlag); err != nil {
			return nil, fmt.Errorf("getting include-comments flag failed: %w", err)
		}
	}
	opts = append(opts, scan.WithComments(comments))

	concurrency := cfg.Concurrency
	if flags.Changed(sfcmd.ConcurrencyFlag) {
		if concurrency, err = flags.GetInt(sfcmd.ConcurrencyFlag); err != nil {
			return nil, fmt.Errorf("getting concurrency flag failed: %w", err)
		}
	}
	opts = append(opts, scan.WithConcurrency(concurrency))

	maxFileSize := cfg.MaxFileSize
	if flags.Changed(sfcmd.MaxFileSizeFlag) || maxFileSize == 0 {
		if maxFileSize, err = flags.GetInt64(sfcmd.MaxFileSizeFlag); err != nil {
			return nil, fmt.Errorf("getting max-file-size flag failed: %w", err)
		}
	}
	opts = append(opts, scan.WithMaxFileSize(maxFileSize))

	return opts, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
