// Package server implements the connection handling of filecraft: accepting
// TCP connections, reading and parsing one request per connection, routing
// it to a handler and writing the response before closing the connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stealthrocket/filecraft/internal/httpmsg"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
)

// Handler produces the response to a GET request.
//
// Returning an error causes the server to respond with a 500 status.
type Handler interface {
	Handle(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, *httpmsg.Request) (*httpmsg.Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req *httpmsg.Request) (*httpmsg.Response, error) {
	return f(ctx, req)
}

// MethodPolicy controls how the server treats request methods other than GET.
type MethodPolicy string

const (
	// Reject responds with 405 Method Not Allowed.
	Reject MethodPolicy = "reject"
	// Drop closes the connection without writing a response.
	Drop MethodPolicy = "drop"
)

func (p MethodPolicy) String() string {
	return string(p)
}

func (p *MethodPolicy) Set(value string) error {
	switch v := MethodPolicy(value); v {
	case Reject, Drop:
		*p = v
		return nil
	default:
		return fmt.Errorf("unsupported method policy: %q (not one of reject, drop)", value)
	}
}

func (p *MethodPolicy) UnmarshalText(b []byte) error {
	return p.Set(string(b))
}

// InternalErrorMessage is the body of every 500 response.
const InternalErrorMessage = "Internal server error occurred."

// Server is a single-request-per-connection HTTP/1.1 server.
//
// The zero value is not usable, a Handler must be set. Fields must not be
// modified after the server was started.
type Server struct {
	// Address and Port the server listens on. An empty address listens on all
	// interfaces; port zero picks an ephemeral port.
	Address string
	Port    int

	Handler Handler
	Logger  zerolog.Logger

	// When Debug is true, 500 responses include the text of the error that
	// caused them.
	Debug bool

	// UnsupportedMethods selects what happens to requests with a method other
	// than GET; the default is to reject them.
	UnsupportedMethods MethodPolicy

	// Encoding is applied to response bodies when the client accepts it.
	Encoding httpmsg.Encoding

	// Limits; zero values mean unlimited.
	MaxConnections int
	AcceptRate     float64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestSize int

	// ReusePort sets SO_REUSEPORT on the listening socket, where supported.
	ReusePort bool

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// ErrServerClosed is returned by Serve and Start after Close was called.
var ErrServerClosed = errors.New("server closed")

// Listen binds the listening socket of the server.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	address := net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
	l, err := listenConfig(s.ReusePort).Listen(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	if s.MaxConnections > 0 {
		l = netutil.LimitListener(l, s.MaxConnections)
	}
	return l, nil
}

// Start binds the listening socket and starts accepting connections in a
// background goroutine. The method returns as soon as the socket is bound.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	if err := s.track(l); err != nil {
		return err
	}
	go func() {
		if err := s.serve(ctx, l); err != nil && !errors.Is(err, ErrServerClosed) {
			s.Logger.Error().Err(err).Msg("accept loop terminated")
		}
	}()
	return nil
}

// Serve accepts connections on l until the listener fails or the server is
// closed. Each connection is served on its own goroutine.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	if err := s.track(l); err != nil {
		return err
	}
	return s.serve(ctx, l)
}

// Addr returns the address the server is listening on, or nil if it was not
// started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close releases the listening socket. Connections that are being served are
// not interrupted.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) track(l net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) serve(ctx context.Context, l net.Listener) error {
	var limiter *rate.Limiter
	if s.AcceptRate > 0 {
		burst := int(s.AcceptRate)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.AcceptRate), burst)
	}

	s.Logger.Info().Stringer("addr", l.Addr()).Msg("accepting connections")

	var backoff time.Duration
	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				if s.isClosed() {
					return ErrServerClosed
				}
				return err
			}
		}

		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			var te temporary
			if errors.As(err, &te) && te.Temporary() {
				backoff = nextBackoff(backoff)
				s.Logger.Warn().Err(err).Dur("retry", backoff).Msg("accept failed")
				select {
				case <-time.After(backoff):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return err
		}
		backoff = 0

		go s.serveConn(ctx, conn)
	}
}

type temporary interface {
	Temporary() bool
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}
