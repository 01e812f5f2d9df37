package main_test

import (
	"testing"

	"github.com/stealthrocket/filecraft/internal/assert"
)

var unknown = tests{
	"an error is reported when invoking an unknown command": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "whatever")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.HasPrefix(t, stderr, "filecraft whatever: unknown command\n")
	},
}
