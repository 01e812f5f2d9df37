package main

import (
	"context"
	"os"

	"github.com/stealthrocket/filecraft/internal/filecraft"
	"github.com/stealthrocket/filecraft/internal/print/jsonprint"
	"github.com/stealthrocket/filecraft/internal/print/textprint"
	"github.com/stealthrocket/filecraft/internal/print/yamlprint"
	"github.com/stealthrocket/filecraft/internal/stream"
)

const typesUsage = `
Usage:	filecraft types [options]

   List the content types that filecraft serve associates with file
   extensions, including the entries of the configuration file.

Options:
   -c, --config path    Path to the filecraft configuration file (overrides FILECRAFTCONFIG)
   -h, --help           Show this usage information
   -o, --output format  Output format, one of: text, json, yaml
   -q, --quiet          Only display the file extensions
`

type contentType struct {
	Extension   string `json:"extension"    yaml:"extension"    text:"EXTENSION"`
	ContentType string `json:"content-type" yaml:"content-type" text:"CONTENT TYPE"`
}

type extension struct {
	Extension string `text:"EXTENSION"`
}

func types(ctx context.Context, args []string) error {
	var (
		output = outputFormat("text")
		quiet  = false
	)

	flagSet := newFlagSet("filecraft types", typesUsage)
	customVar(flagSet, &output, "o", "output")
	boolVar(flagSet, &quiet, "q", "quiet")

	if args := parseFlags(flagSet, args); len(args) != 0 {
		return usageError("filecraft types: unexpected arguments: %q", args)
	}

	config, err := filecraft.LoadConfig()
	if err != nil {
		return err
	}

	table := config.ContentTypes()
	extensions := table.Extensions()

	if quiet && output == "text" {
		values := make([]extension, len(extensions))
		for i, ext := range extensions {
			values[i] = extension{Extension: ext}
		}
		w := textprint.NewTableWriter[extension](os.Stdout, textprint.Header[extension](false))
		return stream.Copy[extension](w, values)
	}

	values := make([]contentType, len(extensions))
	for i, ext := range extensions {
		values[i] = contentType{Extension: ext, ContentType: table[ext]}
	}

	var w stream.WriteCloser[contentType]
	switch output {
	case "json":
		w = jsonprint.NewWriter[contentType](os.Stdout)
	case "yaml":
		w = yamlprint.NewWriter[contentType](os.Stdout)
	default:
		w = textprint.NewTableWriter[contentType](os.Stdout)
	}
	return stream.Copy(w, values)
}
