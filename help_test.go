package main_test

import (
	"testing"

	"github.com/stealthrocket/filecraft/internal/assert"
)

var help = tests{
	"calling help with an unknown command causes an error": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "whatever")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "filecraft help whatever: unknown command\n")
	},

	"passing an unsupported flag to the command causes an error": func(t *testing.T) {
		_, _, exitCode := filecraft(t, "help", "-_")
		assert.Equal(t, exitCode, 2)
	},

	"show the help command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft <command> ")
		assert.Equal(t, stderr, "")
	},

	"show the help command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft <command> ")
		assert.Equal(t, stderr, "")
	},

	"show the help command help after a command name": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "serve", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft <command> ")
		assert.Equal(t, stderr, "")
	},

	"filecraft help config": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "config")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft config ")
		assert.Equal(t, stderr, "")
	},

	"filecraft help help": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft <command> ")
		assert.Equal(t, stderr, "")
	},

	"filecraft help serve": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "serve")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft serve ")
		assert.Equal(t, stderr, "")
	},

	"filecraft help version": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "help", "version")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft version\n")
		assert.Equal(t, stderr, "")
	},
}
