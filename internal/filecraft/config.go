package filecraft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/stealthrocket/filecraft/internal/httpmsg"
	"github.com/stealthrocket/filecraft/internal/print/human"
	"github.com/stealthrocket/filecraft/internal/server"
	"github.com/stealthrocket/filecraft/internal/static"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "~/.filecraft/config.yaml"
	defaultPort       = 8080
	defaultRoot       = "www"
)

// ConfigPath is the path to the filecraft configuration.
var ConfigPath human.Path = defaultConfigPath

// LoadConfig opens and reads the configuration file.
func LoadConfig() (*Config, error) {
	r, _, err := OpenConfig()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadConfig(r)
}

// OpenConfig opens the configuration file. When the file does not exist, the
// returned reader produces the default configuration.
func OpenConfig() (io.ReadCloser, string, error) {
	path, err := ConfigPath.Resolve()
	if err != nil {
		return nil, path, err
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
		c := DefaultConfig()
		b, _ := yaml.Marshal(c)
		return io.NopCloser(bytes.NewReader(b)), path, nil
	}
	return f, path, nil
}

// ReadConfig reads and parses configuration.
func ReadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfig is the default configuration.
func DefaultConfig() *Config {
	c := new(Config)
	c.Server.Port = defaultPort
	c.Server.ReadTimeout = 30 * human.Second
	c.Server.WriteTimeout = 30 * human.Second
	c.Server.MaxRequestSize = 1 * human.MiB
	c.Server.UnsupportedMethods = server.Reject
	c.Server.Compression = httpmsg.Identity
	c.Static.Root = defaultRoot
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// Config is filecraft configuration.
type Config struct {
	Server struct {
		Address            string              `json:"address"             yaml:"address"`
		Port               int                 `json:"port"                yaml:"port"`
		MaxConnections     int                 `json:"max-connections"     yaml:"max-connections"`
		AcceptRate         float64             `json:"accept-rate"         yaml:"accept-rate"`
		ReadTimeout        human.Duration      `json:"read-timeout"        yaml:"read-timeout"`
		WriteTimeout       human.Duration      `json:"write-timeout"       yaml:"write-timeout"`
		MaxRequestSize     human.Bytes         `json:"max-request-size"    yaml:"max-request-size"`
		ReusePort          bool                `json:"reuse-port"          yaml:"reuse-port"`
		UnsupportedMethods server.MethodPolicy `json:"unsupported-methods" yaml:"unsupported-methods"`
		Compression        httpmsg.Encoding    `json:"compression"         yaml:"compression"`
		Debug              bool                `json:"debug"               yaml:"debug"`
	} `json:"server" yaml:"server"`
	Static struct {
		Root         human.Path           `json:"root"          yaml:"root"`
		InstallRoot  Nullable[human.Path] `json:"install-root"  yaml:"install-root"`
		ContentTypes map[string]string    `json:"content-types" yaml:"content-types,omitempty"`
	} `json:"static" yaml:"static"`
	Log struct {
		Level  string `json:"level"  yaml:"level"`
		Format string `json:"format" yaml:"format"`
	} `json:"log" yaml:"log"`
}

// Validate checks that values which cannot be validated while decoding are
// within range.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("invalid maximum number of connections: %d", c.Server.MaxConnections)
	}
	if c.Server.AcceptRate < 0 {
		return fmt.Errorf("invalid accept rate: %g", c.Server.AcceptRate)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q (not one of text, json)", c.Log.Format)
	}
	return nil
}

// ContentTypes returns the built-in content type table overlaid with the
// configured entries.
func (c *Config) ContentTypes() static.ContentTypes {
	return static.DefaultContentTypes().Merge(c.Static.ContentTypes)
}

// NewHandler constructs the static file handler described by the
// configuration.
func (c *Config) NewHandler() (*static.Handler, error) {
	root, err := c.Static.Root.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static root: %w", err)
	}
	options := []static.Option{
		static.WithContentTypes(c.ContentTypes()),
	}
	if installRoot, ok := c.Static.InstallRoot.Value(); ok {
		path, err := installRoot.Resolve()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve installation root: %w", err)
		}
		options = append(options, static.WithInstallRoot(filepath.Clean(path)))
	}
	return static.NewHandler(root, options...)
}

// NewServer constructs a server routing requests to handler.
func (c *Config) NewServer(handler server.Handler, logger zerolog.Logger) *server.Server {
	return &server.Server{
		Address:            c.Server.Address,
		Port:               c.Server.Port,
		Handler:            handler,
		Logger:             logger,
		Debug:              c.Server.Debug,
		UnsupportedMethods: c.Server.UnsupportedMethods,
		Encoding:           c.Server.Compression,
		MaxConnections:     c.Server.MaxConnections,
		AcceptRate:         c.Server.AcceptRate,
		ReadTimeout:        time.Duration(c.Server.ReadTimeout),
		WriteTimeout:       time.Duration(c.Server.WriteTimeout),
		MaxRequestSize:     int(c.Server.MaxRequestSize),
		ReusePort:          c.Server.ReusePort,
	}
}
