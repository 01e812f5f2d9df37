package main_test

import (
	"bufio"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stealthrocket/filecraft/internal/assert"
)

var serve = tests{
	"show the serve command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "serve", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft serve ")
		assert.Equal(t, stderr, "")
	},

	"show the serve command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "serve", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\tfilecraft serve ")
		assert.Equal(t, stderr, "")
	},

	"passing arguments to the command causes an error": func(t *testing.T) {
		stdout, stderr, exitCode := filecraft(t, "serve", "www")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "filecraft serve: unexpected arguments: [\"www\"]\n")
	},

	"passing an unsupported compression causes an error": func(t *testing.T) {
		_, stderr, exitCode := filecraft(t, "serve", "--compression", "brotli")
		assert.Equal(t, exitCode, 2)
		assert.Contains(t, stderr, "brotli")
	},

	"passing a malformed content type mapping causes an error": func(t *testing.T) {
		_, stderr, exitCode := filecraft(t, "serve", "--content-type", "text/plain")
		assert.Equal(t, exitCode, 2)
		assert.Contains(t, stderr, "malformed mapping")
	},

	"an invalid configuration file causes an error": func(t *testing.T) {
		assert.OK(t, os.WriteFile(configPath(t), []byte("static:\n  roots: www\n"), 0666))

		stdout, stderr, exitCode := filecraft(t, "serve")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stdout, "")
		assert.HasPrefix(t, stderr, "ERR: filecraft serve: ")
	},

	"files of the configured root are served until the program is interrupted": func(t *testing.T) {
		root := staticRoot(t)
		assert.OK(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>hi</h1>"), 0666))

		s := startServe(t)
		assert.Equal(t, s.started.Root, root)

		res := get(t, s.started.Addr, "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")
		assert.Equal(t, res, "HTTP/1.1 200 OK\r\n"+
			"Connection: close\r\n"+
			"Content-Length: 11\r\n"+
			"Content-Type: text/html\r\n"+
			"\r\n"+
			"<h1>hi</h1>")

		assert.Equal(t, s.stop(t), 0)
	},

	"command line options override the configuration file": func(t *testing.T) {
		root := t.TempDir()
		assert.OK(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# notes"), 0666))

		s := startServe(t,
			"--root", root,
			"--unsupported-methods", "drop",
			"--content-type", ".md:text/markdown",
		)
		assert.Equal(t, s.started.Root, root)

		res := get(t, s.started.Addr, "GET /notes.md HTTP/1.1\r\n\r\n")
		assert.Equal(t, res, "HTTP/1.1 200 OK\r\n"+
			"Connection: close\r\n"+
			"Content-Length: 7\r\n"+
			"Content-Type: text/markdown\r\n"+
			"\r\n"+
			"# notes")

		res = get(t, s.started.Addr, "POST /notes.md HTTP/1.1\r\n\r\n")
		assert.Equal(t, res, "")

		assert.Equal(t, s.stop(t), 0)
	},
}

type serveProcess struct {
	cmd     *exec.Cmd
	stderr  *bufio.Reader
	started logEntry
}

func startServe(t *testing.T, args ...string) *serveProcess {
	if runtime.GOOS == "windows" {
		t.Skip("interrupting the server requires unix signals")
	}

	cmd, cancel := command(t, append([]string{"serve"}, args...)...)
	t.Cleanup(cancel)

	stderr, err := cmd.StderrPipe()
	assert.OK(t, err)
	assert.OK(t, cmd.Start())

	s := &serveProcess{
		cmd:    cmd,
		stderr: bufio.NewReader(stderr),
	}
	s.started = waitForLog(t, s.stderr, "filecraft started")
	return s
}

func (s *serveProcess) stop(t *testing.T) int {
	assert.OK(t, s.cmd.Process.Signal(os.Interrupt))
	waitForLog(t, s.stderr, "filecraft stopped")
	_, _ = io.Copy(io.Discard, s.stderr)

	if err := s.cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatal(err)
		}
		return exitErr.ExitCode()
	}
	return 0
}

func get(t *testing.T, addr, req string) string {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	assert.OK(t, err)
	defer conn.Close()

	assert.OK(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = io.WriteString(conn, req)
	assert.OK(t, err)

	b, err := io.ReadAll(conn)
	assert.OK(t, err)
	return string(b)
}
