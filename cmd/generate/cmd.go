package generate

import (
	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/cmd/generate/docs"
)

// New represents the generate command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate {docs}",
		Short: "Generate documentation for the skipfinder CLI",
		Long: `Generate files derived from the command tree of skipfinder,
such as the Markdown reference documentation or man pages.`,
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(docs.New())
	return cmd
}
