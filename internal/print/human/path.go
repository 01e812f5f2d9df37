package human

import (
	"encoding"
	"flag"
	"os"
	"os/user"
	"path/filepath"
)

// Path represents a path on the file system.
//
// The type interprets the special prefix "~/" as representing the home
// directory of the user that the program is running as. The prefix is kept
// in the value and expanded by Resolve, so paths are printed back the way
// they were written in configuration files.
type Path string

func (p Path) String() string {
	return string(p)
}

func (p *Path) Set(s string) error {
	*p = Path(s)
	return nil
}

func (p *Path) UnmarshalText(b []byte) error {
	return p.Set(string(b))
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// Resolve returns the path with the "~/" prefix expanded.
func (p Path) Resolve() (string, error) {
	s := string(p)
	switch {
	case s == "~" || (len(s) >= 2 && s[0] == '~' && s[1] == os.PathSeparator):
		home, ok := os.LookupEnv("HOME")
		if !ok {
			u, err := user.Current()
			if err != nil {
				return "", err
			}
			home = u.HomeDir
		}
		return filepath.Join(home, s[1:]), nil
	default:
		return s, nil
	}
}

var (
	_ encoding.TextMarshaler   = Path("")
	_ encoding.TextUnmarshaler = (*Path)(nil)
	_ flag.Value               = (*Path)(nil)
)
