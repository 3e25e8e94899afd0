package cmd

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/cmd/configuration"
	"github.com/skipfinder/skipfinder/cmd/generate"
	"github.com/skipfinder/skipfinder/cmd/languages"
	"github.com/skipfinder/skipfinder/cmd/scan"
	"github.com/skipfinder/skipfinder/cmd/setup/hooks"
	"github.com/skipfinder/skipfinder/cmd/version"
	"github.com/skipfinder/skipfinder/internal/flags/log"
)

// Execute runs the root command with the process arguments and exits with
// status 1 on error. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := New()
	root.SetArgs(NormalizeArgs(root, os.Args[1:]))
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skipfinder [sub-command]",
		Short: "Find skipped and disabled tests across languages and test frameworks",
		Long: `skipfinder scans source trees for tests that are skipped, ignored or disabled
  and reports them on the console or as text, JSON, YAML or Markdown report.

  Invoked without a sub-command, skipfinder behaves like "skipfinder scan".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlags(cmd)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(scan.New())
	cmd.AddCommand(languages.New())
	cmd.AddCommand(generate.New())
	cmd.AddCommand(version.New())
	return cmd
}

// legacyFlags maps single dash long options of older releases to their
// current spelling.
var legacyFlags = map[string]string{
	"-txt":    "--txt",
	"-cli":    "--cli",
	"-format": "--format",
	"-dir":    "--dir",
}

// NormalizeArgs rewrites legacy invocations such as
//
//	skipfinder -d=./tests -txt -o=./out
//
// into their current form
//
//	skipfinder scan -d=./tests --txt -o=./out
//
// Arguments that name a sub-command of root are left alone.
func NormalizeArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return []string{"scan"}
	}

	out := make([]string, 0, len(args)+1)
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if replacement, ok := legacyFlags[name]; ok {
			arg = replacement
			if hasValue {
				arg += "=" + value
			}
		}
		out = append(out, arg)
	}

	if !strings.HasPrefix(out[0], "-") || slices.ContainsFunc(out, func(arg string) bool {
		return arg == "-h" || arg == "--help" || isSubCommand(root, arg)
	}) {
		return out
	}
	return append([]string{"scan"}, out...)
}

func isSubCommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
