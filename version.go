package main

import (
	"context"
	"fmt"
	"runtime/debug"
)

const versionUsage = `
Usage:	filecraft version

Options:
   -h, --help  Show this usage information
`

func version(ctx context.Context, args []string) error {
	flagSet := newFlagSet("filecraft version", versionUsage)
	if args := parseFlags(flagSet, args); len(args) != 0 {
		return usageError("filecraft version: unexpected arguments: %q", args)
	}
	fmt.Printf("filecraft %s\n", currentVersion())
	return nil
}

func currentVersion() string {
	version := "devel"
	if info, ok := debug.ReadBuildInfo(); ok {
		switch info.Main.Version {
		case "":
		case "(devel)":
		default:
			version = info.Main.Version
		}
	}
	return version
}
