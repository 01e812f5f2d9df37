package main

import (
	"context"
)

const unknownCommand = `filecraft %s: unknown command
For a list of commands available, run 'filecraft help'.`

func unknown(ctx context.Context, cmd string) error {
	return usageError(unknownCommand, cmd)
}
