package main

// Notes on program structure
// --------------------------
//
// filecraft uses subcommands to invoke specific functionalities of the program.
// Each subcommand is implemented by a function named after the command, in a
// file of the same name (e.g. the "serve" command is implemented by the serve
// function in serve.go).
//
// The usage message for each command is declared by a constant starting with
// the command name and followed by the suffix "Usage". For example, the usage
// message for the "serve" command is declared by the constant serveUsage.
//
// The usage message contains a "Usage:	filecraft <command>" section presenting
// the structure of the command. Note the tabulation separating "Usage:" and
// "filecraft".

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stealthrocket/filecraft/internal/filecraft"
	"github.com/stealthrocket/filecraft/internal/print/human"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const rootUsage = `filecraft - Static File Server

   filecraft serves the files of a local directory over HTTP/1.1, one request
   per connection.

Example:

   $ filecraft serve --port 8080 --root ./www
   ...

   $ curl http://localhost:8080/
   ...

For a list of commands available, run 'filecraft help'.`

// root is the filecraft entrypoint.
func root(args ...string) int {
	if path := os.Getenv("FILECRAFTCONFIG"); path != "" {
		filecraft.ConfigPath = human.Path(path)
	}

	flagSet := newFlagSet("filecraft", helpUsage)
	_ = flagSet.Parse(args)

	if args = flagSet.Args(); len(args) == 0 {
		fmt.Println(rootUsage)
		return 0
	}

	ctx := context.Background()
	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case "config":
		err = config(ctx, args)
	case "help":
		err = help(ctx, args)
	case "serve":
		err = serve(ctx, args)
	case "types":
		err = types(ctx, args)
	case "version":
		err = version(ctx, args)
	default:
		err = unknown(ctx, cmd)
	}

	switch e := err.(type) {
	case nil:
		return 0
	case exitCode:
		return int(e)
	case usage:
		fmt.Fprintf(os.Stderr, "%s\n", e)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "ERR: filecraft %s: %s\n", cmd, err)
		return 1
	}
}

// exitCode is an error type returned from command functions to indicate the
// exit code that should be returned by the program.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit: %d", e)
}

// usage is an error type returned from command functions to indicate a usage
// error.
//
// Usage errors cause the program to exit with status code 2.
type usage string

func usageError(msg string, args ...any) error {
	return usage(fmt.Sprintf(msg, args...))
}

func (e usage) Error() string {
	return string(e)
}

func setEnum[T ~string](enum *T, typ string, value string, options ...string) error {
	for _, option := range options {
		if option == value {
			*enum = T(option)
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %q (not one of %s)", typ, value, strings.Join(options, ", "))
}

type outputFormat string

func (o outputFormat) String() string {
	return string(o)
}

func (o *outputFormat) Set(value string) error {
	return setEnum(o, "output format", value, "text", "json", "yaml")
}

type stringMap map[string]string

func (m stringMap) String() string {
	b := new(strings.Builder)
	keys := maps.Keys(m)
	slices.Sort(keys)
	for i, k := range keys {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(m[k])
	}
	return b.String()
}

func (m stringMap) Set(value string) error {
	k, v, ok := strings.Cut(value, ":")
	if !ok {
		return fmt.Errorf("malformed mapping: %q (expected ext:type)", value)
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)
	m[k] = v
	return nil
}

func newFlagSet(cmd, usage string) *flag.FlagSet {
	usage = strings.TrimSpace(usage)
	flagSet := flag.NewFlagSet(cmd, flag.ExitOnError)
	flagSet.Usage = func() { fmt.Println(usage) }
	customVar(flagSet, &filecraft.ConfigPath, "c", "config")
	return flagSet
}

// parseFlags is a greedy parser which consumes all options known to f and
// returns the remaining arguments.
func parseFlags(f *flag.FlagSet, args []string) []string {
	var unknownArgs []string
	for {
		// The flag set is constructed with ExitOnError, it should never error.
		if err := f.Parse(args); err != nil {
			panic(err)
		}
		if args = f.Args(); len(args) == 0 {
			return unknownArgs
		}
		i := slices.IndexFunc(args, func(s string) bool {
			return strings.HasPrefix(s, "-")
		})
		if i < 0 {
			i = len(args)
		} else if args[i] == "-" {
			i++
		}
		if i == 0 {
			panic("parsing command line arguments did not error on " + args[0])
		}
		unknownArgs = append(unknownArgs, args[:i]...)
		args = args[i:]
	}
}

func boolVar(f *flag.FlagSet, dst *bool, name string, alias ...string) {
	f.BoolVar(dst, name, *dst, "")
	for _, name := range alias {
		f.BoolVar(dst, name, *dst, "")
	}
}

func stringVar(f *flag.FlagSet, dst *string, name string, alias ...string) {
	f.StringVar(dst, name, *dst, "")
	for _, name := range alias {
		f.StringVar(dst, name, *dst, "")
	}
}

func intVar(f *flag.FlagSet, dst *int, name string, alias ...string) {
	f.IntVar(dst, name, *dst, "")
	for _, name := range alias {
		f.IntVar(dst, name, *dst, "")
	}
}

func customVar(f *flag.FlagSet, dst flag.Value, name string, alias ...string) {
	f.Var(dst, name, "")
	for _, name := range alias {
		f.Var(dst, name, "")
	}
}
