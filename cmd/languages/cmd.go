package languages

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/internal/flags/enum"
	"github.com/skipfinder/skipfinder/internal/language"
	"github.com/skipfinder/skipfinder/internal/rules"
)

const (
	FlagOutput = "output"

	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Entry describes one supported language.
type Entry struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Frameworks []string `json:"frameworks"`
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List the languages and test frameworks skipfinder recognizes",
		Args:    cobra.NoArgs,
		Example: strings.TrimSpace(`
skipfinder languages
skipfinder languages -o yaml
`),
		RunE:              ListLanguages,
		DisableAutoGenTag: true,
	}

	enum.VarP(cmd.Flags(), FlagOutput, "o", []string{OutputTable, OutputYAML, OutputJSON}, "output format of the language list")

	return cmd
}

func ListLanguages(cmd *cobra.Command, _ []string) error {
	output, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}

	reader, size, err := encodeEntries(output, Entries())
	if err != nil {
		return fmt.Errorf("generating output failed: %w", err)
	}
	if _, err := io.CopyN(cmd.OutOrStdout(), reader, size); err != nil {
		return fmt.Errorf("writing language list failed: %w", err)
	}
	return nil
}

// Entries returns all scannable languages sorted by name together with the
// frameworks their rules cover.
func Entries() []Entry {
	var entries []Entry
	for _, l := range language.All() {
		set, ok := rules.For(l.Name)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Name:       l.Name,
			Extensions: slices.Clone(l.Extensions),
			Frameworks: frameworks(set),
		})
	}
	return entries
}

func frameworks(set rules.Set) []string {
	var names []string
	for _, d := range set.Declarations {
		names = append(names, d.Framework)
	}
	for _, r := range set.Rules {
		names = append(names, r.Framework)
	}
	names = slices.DeleteFunc(names, func(name string) bool { return name == "" })
	slices.Sort(names)
	return slices.Compact(names)
}
