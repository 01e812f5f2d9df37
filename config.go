package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/stealthrocket/filecraft/internal/filecraft"
	"gopkg.in/yaml.v3"
)

const configUsage = `
Usage:	filecraft config [options]

   Show the configuration used by filecraft serve. The static root that
   would be served is checked: a missing directory is reported as a warning,
   a path which is not a directory is an error.

Options:
   -c, --config path    Path to the filecraft configuration file (overrides FILECRAFTCONFIG)
       --edit           Open $EDITOR on a copy of the configuration, applied only if valid
   -h, --help           Show usage information
   -o, --output format  Output format, one of: text, json, yaml
`

func config(ctx context.Context, args []string) error {
	var (
		edit   bool
		output = outputFormat("text")
	)

	flagSet := newFlagSet("filecraft config", configUsage)
	boolVar(flagSet, &edit, "edit")
	customVar(flagSet, &output, "o", "output")

	if args := parseFlags(flagSet, args); len(args) != 0 {
		return usageError("filecraft config: unexpected arguments: %q", args)
	}

	var c *filecraft.Config
	var err error
	if edit {
		c, err = editConfig(ctx)
	} else {
		c, err = filecraft.LoadConfig()
		if err == nil {
			err = checkStaticRoot(c)
		}
	}
	if err != nil {
		return err
	}

	switch output {
	case "json":
		e := json.NewEncoder(os.Stdout)
		e.SetEscapeHTML(false)
		e.SetIndent("", "  ")
		return e.Encode(c)
	case "yaml":
		e := yaml.NewEncoder(os.Stdout)
		e.SetIndent(2)
		if err := e.Encode(c); err != nil {
			return err
		}
		return e.Close()
	default:
		r, _, err := filecraft.OpenConfig()
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(os.Stdout, r)
		return err
	}
}

// checkStaticRoot verifies the directory that filecraft serve would serve
// files from. A missing directory only produces a warning since files answer
// 404 until it is created.
func checkStaticRoot(c *filecraft.Config) error {
	handler, err := c.NewHandler()
	if err != nil {
		return err
	}
	root := handler.Root()
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(os.Stderr, "WARN: static root %s does not exist\n", root)
		return nil
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("static root %s is not a directory", root)
	default:
		return nil
	}
}

// editConfig runs $EDITOR on a temporary copy of the configuration file. The
// copy replaces the file only if it parses and its static root is usable.
func editConfig(ctx context.Context) (*filecraft.Config, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return nil, errors.New(`$EDITOR is not set`)
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	r, path, err := filecraft.OpenConfig()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}
	tmp, err := createTempFile(path, r)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	cmd := exec.CommandContext(ctx, shell, "-c", editor+" "+tmp)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running %s: %w", editor, err)
	}

	c, err := readConfigFile(tmp)
	if err == nil {
		err = checkStaticRoot(c)
	}
	if err != nil {
		return nil, fmt.Errorf("edited configuration was not applied: %w", err)
	}
	return c, os.Rename(tmp, path)
}

func readConfigFile(path string) (*filecraft.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return filecraft.ReadConfig(f)
}

func createTempFile(path string, r io.Reader) (string, error) {
	dir, file := filepath.Split(path)
	w, err := os.CreateTemp(dir, "."+file+".*")
	if err != nil {
		return "", err
	}
	defer w.Close()
	_, err = io.Copy(w, r)
	return w.Name(), err
}
