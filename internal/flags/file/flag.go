package file

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// Type is the type name for the path flag.
const Type = "path"

// Flag holds a file path. A leading "~/" and environment variables are
// expanded. The path does not need to exist.
type Flag struct {
	raw  string
	path string
	fs.FileInfo
}

func (f *Flag) String() string {
	return f.raw
}

// Path returns the expanded path.
func (f *Flag) Path() string {
	return f.path
}

func (f *Flag) Exists() bool {
	return f.FileInfo != nil
}

func (f *Flag) Open() (io.ReadCloser, error) {
	if !f.Exists() {
		return nil, fmt.Errorf("file %q does not exist", f.path)
	}
	if f.IsDir() {
		return nil, fmt.Errorf("path %q is a directory", f.path)
	}
	return os.Open(f.path)
}

func (f *Flag) Set(s string) error {
	f.raw = s
	f.path = Expand(s)
	f.FileInfo = nil
	if f.path == "" {
		return nil
	}
	info, err := os.Stat(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to stat path %q: %w", f.path, err)
	}
	f.FileInfo = info
	return nil
}

func (f *Flag) Type() string {
	return Type
}

// Expand replaces environment variables and a leading "~/" in path.
func Expand(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func Var(f *pflag.FlagSet, name string, value string, usage string) {
	flag := &Flag{}
	_ = flag.Set(value)
	f.Var(flag, name, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, value string, usage string) {
	flag := &Flag{}
	_ = flag.Set(value)
	f.VarP(flag, name, shorthand, usage)
}

func Get(f *pflag.FlagSet, name string) (*Flag, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}
	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return val, nil
}
