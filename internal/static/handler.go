// Package static serves files from a directory on the local file system.
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/stealthrocket/filecraft/internal/fspath"
	"github.com/stealthrocket/filecraft/internal/httpmsg"
)

// IndexFile is the default document served for paths ending with a slash.
const IndexFile = "index.html"

// ErrIsDirectory is returned by Handle when a request resolves to a
// directory; directory listings are not supported.
var ErrIsDirectory = errors.New("is a directory")

// Handler resolves request paths to files under a base directory.
//
// Handlers only read their configuration after construction and are safe to
// use from concurrent goroutines.
type Handler struct {
	root      string // absolute
	canonical string // root with symbolic links resolved, empty if unresolved
	types     ContentTypes
}

// Option configures a Handler.
type Option func(*options)

type options struct {
	installRoot string
	types       ContentTypes
}

// WithInstallRoot sets the directory that relative base directories are
// resolved against. It defaults to the directory of the running executable.
func WithInstallRoot(dir string) Option {
	return func(o *options) { o.installRoot = dir }
}

// WithContentTypes sets the table used to look up the Content-Type of files.
// It defaults to DefaultContentTypes.
func WithContentTypes(types ContentTypes) Option {
	return func(o *options) { o.types = types }
}

// NewHandler constructs a handler serving files from root.
func NewHandler(root string, opts ...Option) (*Handler, error) {
	o := options{types: DefaultContentTypes()}
	for _, opt := range opts {
		opt(&o)
	}

	if !filepath.IsAbs(root) {
		installRoot := o.installRoot
		if installRoot == "" {
			exe, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("resolving installation root: %w", err)
			}
			installRoot = filepath.Dir(exe)
		}
		root = filepath.Join(installRoot, root)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// The directory may be created after the server started, it is
		// resolved by canonicalRoot once it exists.
		canonical = ""
	}

	h := &Handler{
		root:      root,
		canonical: canonical,
		types:     o.types,
	}
	return h, nil
}

// Root returns the absolute path of the base directory.
func (h *Handler) Root() string {
	return h.root
}

// Handle serves the file that req resolves to.
//
// Missing files produce a 404 response and paths escaping the base directory
// a 403 response. Other failures to open or read the file are returned as
// errors.
func (h *Handler) Handle(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error) {
	localPath := req.Path()

	name := localPath
	if strings.HasSuffix(name, "/") {
		name += IndexFile
	}
	name = strings.TrimPrefix(name, "/")

	if !fspath.Contained(name) {
		return forbidden(localPath), nil
	}

	path := filepath.Join(h.root, filepath.FromSlash(name))

	f, err := os.Open(path)
	if err != nil {
		if notFound(err) {
			return notFoundResponse(localPath), nil
		}
		return nil, err
	}
	defer f.Close()

	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		if notFound(err) {
			return notFoundResponse(localPath), nil
		}
		return nil, err
	}
	canonicalRoot, err := h.canonicalRoot()
	if err != nil {
		if notFound(err) {
			return notFoundResponse(localPath), nil
		}
		return nil, err
	}
	if !within(canonicalRoot, canonical) {
		return forbidden(localPath), nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", localPath, ErrIsDirectory)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var header httpmsg.Header
	if contentType := h.types.Lookup(filepath.Ext(path)); strings.TrimSpace(contentType) != "" {
		header.Set("Content-Type", contentType)
	}
	return httpmsg.NewResponseWithHeader(200, header, content), nil
}

// canonicalRoot returns the root with symbolic links resolved. A root which did
// not exist when the handler was created is resolved again on every call.
func (h *Handler) canonicalRoot() (string, error) {
	if h.canonical != "" {
		return h.canonical, nil
	}
	return filepath.EvalSymlinks(h.root)
}

func notFoundResponse(localPath string) *httpmsg.Response {
	return httpmsg.NewResponse(404, []byte("File: "+localPath+" not found"))
}

func forbidden(localPath string) *httpmsg.Response {
	return httpmsg.NewResponse(403, []byte("File: "+localPath+" forbidden"))
}

// notFound reports whether err means the file does not exist, including the
// case where an intermediate path element is a regular file.
func notFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return fspath.Contained(filepath.ToSlash(rel))
}
