package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/stealthrocket/filecraft/internal/filecraft"
	"github.com/stealthrocket/filecraft/internal/httpmsg"
	"github.com/stealthrocket/filecraft/internal/print/human"
	"github.com/stealthrocket/filecraft/internal/server"
	"golang.org/x/sync/errgroup"
)

const serveUsage = `
Usage:	filecraft serve [options]

Options:
   -a, --address addr               Address to listen on (default to all interfaces)
   -c, --config path                Path to the filecraft configuration file (overrides FILECRAFTCONFIG)
       --compression type           Compress responses accepted by clients, one of none, gzip, zstd
       --content-type ext:type      Map a file extension to a content type (may be repeated)
       --debug                      Include error details in internal server error responses
   -h, --help                       Show this usage information
   -p, --port port                  Port to listen on (default to 8080)
   -r, --root dir                   Directory to serve files from (default to www)
       --unsupported-methods policy What to do with methods other than GET, either reject or drop
`

func serve(ctx context.Context, args []string) error {
	var (
		address            string
		port               int
		root               human.Path
		debug              bool
		compression        httpmsg.Encoding
		contentTypes       = stringMap{}
		unsupportedMethods server.MethodPolicy
	)

	flagSet := newFlagSet("filecraft serve", serveUsage)
	stringVar(flagSet, &address, "a", "address")
	intVar(flagSet, &port, "p", "port")
	customVar(flagSet, &root, "r", "root")
	boolVar(flagSet, &debug, "debug")
	customVar(flagSet, &compression, "compression")
	customVar(flagSet, contentTypes, "content-type")
	customVar(flagSet, &unsupportedMethods, "unsupported-methods")

	if args := parseFlags(flagSet, args); len(args) != 0 {
		return usageError("filecraft serve: unexpected arguments: %q", args)
	}

	config, err := filecraft.LoadConfig()
	if err != nil {
		return err
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a", "address":
			config.Server.Address = address
		case "p", "port":
			config.Server.Port = port
		case "r", "root":
			config.Static.Root = root
		case "debug":
			config.Server.Debug = debug
		case "compression":
			config.Server.Compression = compression
		case "unsupported-methods":
			config.Server.UnsupportedMethods = unsupportedMethods
		case "content-type":
			if config.Static.ContentTypes == nil {
				config.Static.ContentTypes = make(map[string]string, len(contentTypes))
			}
			for ext, typ := range contentTypes {
				config.Static.ContentTypes[ext] = typ
			}
		}
	})

	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := config.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	handler, err := config.NewHandler()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := config.NewServer(handler, logger)
	l, err := srv.Listen(ctx)
	if err != nil {
		return err
	}

	logger.Info().
		Str("root", handler.Root()).
		Stringer("addr", l.Addr()).
		Str("version", currentVersion()).
		Msg("filecraft started")

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Serve(ctx, l)
	})
	group.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})

	if err := group.Wait(); err != nil && !errors.Is(err, server.ErrServerClosed) {
		return err
	}
	logger.Info().Msg("filecraft stopped")
	return nil
}
