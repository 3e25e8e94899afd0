package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/skipfinder/skipfinder/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatJSON            = "json"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version detected from the go build info.
// It is set at build time with
//
//	-ldflags "-X github.com/skipfinder/skipfinder/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version of skipfinder",
		Long: fmt.Sprintf(`Print the build version of skipfinder.

With %[1]q (default) the version is printed as JSON, split into its semantic
version parts. For go pseudo versions the build date and the git commit are
taken from the pre-release part.

With %[2]q the go build information is printed as text, with %[3]q as JSON.`,
			FlagFormatJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example:           fmt.Sprintf(`skipfinder version --format %s`, FlagFormatGoBuildInfo),
		Args:              cobra.NoArgs,
		RunE:              PrintVersion,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand,
		[]string{FlagFormatJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON}, "format of the version output")
	return cmd
}

func PrintVersion(cmd *cobra.Command, _ []string) error {
	format, err := enum.Get(cmd.Flags(), FlagFormat)
	if err != nil {
		return fmt.Errorf("getting format flag failed: %w", err)
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("no build info available")
	}
	if BuildVersion != "n/a" {
		bi.Main.Version = BuildVersion
	}

	out := cmd.OutOrStdout()
	switch format {
	case FlagFormatJSON:
		return json.NewEncoder(out).Encode(GetInfo(bi))
	case FlagFormatGoBuildInfo:
		_, err = io.WriteString(out, bi.String())
		return err
	case FlagFormatGoBuildInfoJSON:
		return json.NewEncoder(out).Encode(bi)
	default:
		return fmt.Errorf("unknown version format %q", format)
	}
}
