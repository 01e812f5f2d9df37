package main_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stealthrocket/filecraft/internal/assert"
)

var config = tests{
	"show the config command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "config", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft config ")
		assert.Equal(t, stderr, "")
	},

	"show the config command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "config", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft config ")
		assert.Equal(t, stderr, "")
	},

	"the text output is the content of the configuration file": func(t *testing.T) {
		b, err := os.ReadFile(configPath(t))
		assert.OK(t, err)

		stdout, stderr, exitCode := filecraft(t, "config")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, stdout, string(b))
		assert.Equal(t, stderr, "")
	},

	"the yaml output includes the default values": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "config", "-o", "yaml")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "address: 127.0.0.1\n")
		assert.Contains(t, stdout, "unsupported-methods: reject\n")
		assert.Contains(t, stdout, "root: "+staticRoot(t)+"\n")
		assert.Equal(t, stderr, "")
	},

	"the json output can be decoded": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "config", "--output", "json")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, stderr, "")

		var c struct {
			Server struct {
				Address     string `json:"address"`
				Port        int    `json:"port"`
				ReadTimeout string `json:"read-timeout"`
			} `json:"server"`
			Static struct {
				Root string `json:"root"`
			} `json:"static"`
			Log struct {
				Format string `json:"format"`
			} `json:"log"`
		}
		assert.OK(t, json.Unmarshal([]byte(stdout), &c))
		assert.Equal(t, c.Server.Address, "127.0.0.1")
		assert.Equal(t, c.Server.Port, 0)
		assert.Equal(t, c.Server.ReadTimeout, "30s")
		assert.Equal(t, c.Static.Root, staticRoot(t))
		assert.Equal(t, c.Log.Format, "json")
	},

	"a missing configuration file shows the defaults": func(t *testing.T) {
		t.Setenv("FILECRAFTCONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

		stdout, stderr, exitCode := filecraft(t, "config")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "port: 8080\n")
		assert.Contains(t, stdout, "root: www\n")
		assert.HasPrefix(t, stderr, "WARN: static root ")
		assert.Contains(t, stderr, "www does not exist\n")
	},

	"the configuration path can be set on the command line": func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.yaml")
		content := fmt.Sprintf("server:\n  port: 4242\nstatic:\n  root: %s\n", t.TempDir())
		assert.OK(t, os.WriteFile(path, []byte(content), 0666))

		stdout, stderr, exitCode := filecraft(t, "config", "-c", path, "-o", "yaml")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "port: 4242\n")
		assert.Equal(t, stderr, "")
	},

	"an invalid configuration file causes an error": func(t *testing.T) {
		assert.OK(t, os.WriteFile(configPath(t), []byte("server:\n  bogus: true\n"), 0666))

		stdout, stderr, exitCode := filecraft(t, "config", "-o", "yaml")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stdout, "")
		assert.HasPrefix(t, stderr, "ERR: filecraft config: ")
	},

	"editing the configuration applies valid updates": func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("editing the configuration requires a unix shell")
		}
		root := t.TempDir()
		t.Setenv("EDITOR", fmt.Sprintf(`printf 'server:\n  port: 9999\nstatic:\n  root: %s\n' >`, root))

		stdout, stderr, exitCode := filecraft(t, "config", "--edit", "-o", "yaml")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "port: 9999\n")
		assert.Equal(t, stderr, "")

		b, err := os.ReadFile(configPath(t))
		assert.OK(t, err)
		assert.Equal(t, string(b), "server:\n  port: 9999\nstatic:\n  root: "+root+"\n")
	},

	"editing the configuration rejects invalid updates": func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("editing the configuration requires a unix shell")
		}
		before, err := os.ReadFile(configPath(t))
		assert.OK(t, err)

		t.Setenv("EDITOR", `printf 'bogus: 1\n' >`)

		_, stderr, exitCode := filecraft(t, "config", "--edit")
		assert.Equal(t, exitCode, 1)
		assert.HasPrefix(t, stderr, "ERR: filecraft config: edited configuration was not applied: ")

		after, err := os.ReadFile(configPath(t))
		assert.OK(t, err)
		assert.Equal(t, string(after), string(before))
	},

	"editing the configuration rejects a static root which is not a directory": func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("editing the configuration requires a unix shell")
		}
		before, err := os.ReadFile(configPath(t))
		assert.OK(t, err)

		file := filepath.Join(t.TempDir(), "index.html")
		assert.OK(t, os.WriteFile(file, []byte("<h1>hi</h1>"), 0666))
		t.Setenv("EDITOR", fmt.Sprintf(`printf 'static:\n  root: %s\n' >`, file))

		_, stderr, exitCode := filecraft(t, "config", "--edit")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stderr, "ERR: filecraft config: edited configuration was not applied: static root "+file+" is not a directory\n")

		after, err := os.ReadFile(configPath(t))
		assert.OK(t, err)
		assert.Equal(t, string(after), string(before))
	},

	"a static root which is not a directory causes an error": func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "index.html")
		assert.OK(t, os.WriteFile(file, []byte("<h1>hi</h1>"), 0666))
		assert.OK(t, os.WriteFile(configPath(t), []byte("static:\n  root: "+file+"\n"), 0666))

		stdout, stderr, exitCode := filecraft(t, "config")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "ERR: filecraft config: static root "+file+" is not a directory\n")
	},

	"a missing static root is reported as a warning": func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "www")
		assert.OK(t, os.WriteFile(configPath(t), []byte("static:\n  root: "+root+"\n"), 0666))

		stdout, stderr, exitCode := filecraft(t, "config", "-o", "yaml")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "root: "+root+"\n")
		assert.Equal(t, stderr, "WARN: static root "+root+" does not exist\n")
	},

	"editing the configuration without an editor causes an error": func(t *testing.T) {
		t.Setenv("EDITOR", "")

		_, stderr, exitCode := filecraft(t, "config", "--edit")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stderr, "ERR: filecraft config: $EDITOR is not set\n")
	},

	"passing an unsupported output format causes an error": func(t *testing.T) {
		_, stderr, exitCode := filecraft(t, "config", "-o", "toml")
		assert.Equal(t, exitCode, 2)
		assert.Contains(t, stderr, `unsupported output format: "toml"`)
	},

	"passing arguments to the command causes an error": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "config", "server")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "filecraft config: unexpected arguments: [\"server\"]\n")
	},
}
