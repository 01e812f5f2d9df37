package main

import (
	"context"
	"fmt"
	"strings"
)

const helpUsage = `
Usage:	filecraft <command> [options]

Server Commands:
   serve    Serve the files of a directory over HTTP

Other Commands:
   config   View or edit the filecraft configuration
   help     Show usage information about filecraft commands
   types    List the content types associated with file extensions
   version  Show the filecraft version information

For a description of each command, run 'filecraft help <command>'.`

func help(ctx context.Context, args []string) error {
	flagSet := newFlagSet("filecraft help", helpUsage)
	args = parseFlags(flagSet, args)

	var cmd string
	var msg string

	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "config":
		msg = configUsage
	case "help", "":
		msg = helpUsage
	case "serve":
		msg = serveUsage
	case "types":
		msg = typesUsage
	case "version":
		msg = versionUsage
	default:
		return usageError("filecraft help %s: unknown command", cmd)
	}

	fmt.Println(strings.TrimSpace(msg))
	return nil
}
