package docs

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/skipfinder/skipfinder/internal/flags/enum"
)

const (
	FlagDirectory = "directory"
	FlagMode      = "mode"

	ModeMarkdown = "markdown"
	ModeMan      = "man"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the command reference of skipfinder",
		Long: `Generate the command reference of skipfinder for every command.
One file per command is written into the target directory.`,
		Example:           "skipfinder generate docs --directory docs/reference --mode markdown",
		Args:              cobra.NoArgs,
		RunE:              Generate,
		DisableAutoGenTag: true,
	}
	cmd.Flags().StringP(FlagDirectory, "d", "docs/reference", "target directory of the generated files")
	enum.Var(cmd.Flags(), FlagMode, []string{ModeMarkdown, ModeMan}, "format of the generated documentation")
	return cmd
}

func Generate(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString(FlagDirectory)
	if err != nil {
		return fmt.Errorf("getting directory flag failed: %w", err)
	}
	mode, err := enum.Get(cmd.Flags(), FlagMode)
	if err != nil {
		return fmt.Errorf("getting mode flag failed: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create documentation directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true
	switch mode {
	case ModeMarkdown:
		err = doc.GenMarkdownTree(root, dir)
	case ModeMan:
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "SKIPFINDER", Section: "1"}, dir)
	default:
		err = fmt.Errorf("unknown documentation mode %q", mode)
	}
	if err != nil {
		return fmt.Errorf("generating documentation failed: %w", err)
	}
	slog.InfoContext(cmd.Context(), "documentation generated", slog.String("directory", dir), slog.String("mode", mode))
	return nil
}
