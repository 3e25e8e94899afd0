package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/mod/module"
)

// Info is the build information of the binary with the version split into
// its semantic version parts.
type Info struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	Patch      string `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// GetInfo derives Info from the module version of bi. Versions that are not
// semantic versions are kept as GitVersion with 0.0.0 as parts. Only go
// pseudo versions like v0.0.0-20250101120000-abcdef123456 yield a build date
// and a commit.
func GetInfo(bi *debug.BuildInfo) Info {
	info := Info{
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		info.GitVersion = bi.Main.Version
		info.Major, info.Minor, info.Patch = "0", "0", "0"
		return info
	}

	info.GitVersion = v.String()
	info.Meta = strings.TrimPrefix(v.Metadata(), "+")
	info.PreRelease = v.Prerelease()
	if pseudo := "v" + strings.TrimPrefix(bi.Main.Version, "v"); module.IsPseudoVersion(pseudo) {
		if ts, err := module.PseudoVersionTime(pseudo); err == nil {
			info.BuildDate = ts.UTC().Format(time.RFC3339)
		}
		info.GitCommit, _ = module.PseudoVersionRev(pseudo)
	}
	info.Major = strconv.FormatUint(v.Major(), 10)
	info.Minor = strconv.FormatUint(v.Minor(), 10)
	info.Patch = strconv.FormatUint(v.Patch(), 10)
	return info
}
