package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stealthrocket/filecraft/internal/buffer"
	"github.com/stealthrocket/filecraft/internal/httpmsg"
)

// ChunkSize is the size of reads performed on connections.
const ChunkSize = 8192

// ErrRequestTooLarge is returned when a client sends more than the configured
// maximum request size.
var ErrRequestTooLarge = errors.New("request too large")

var chunkPool buffer.Pool

// conn carries the state of a single connection through
// reading, parsing, routing and writing. Connections never go back to
// reading once a response was written.
type conn struct {
	server *Server
	nc     net.Conn
	log    zerolog.Logger
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	c := &conn{
		server: s,
		nc:     nc,
		log: s.Logger.With().
			Stringer("conn", uuid.New()).
			Stringer("remote", nc.RemoteAddr()).
			Logger(),
	}
	defer c.close()
	c.serve(ctx)
}

func (c *conn) serve(ctx context.Context) {
	c.log.Debug().Msg("accepted")

	req, err := c.readRequest()
	if err != nil {
		c.log.Warn().Err(err).Msg("invalid request")
		c.writeInternalError(err)
		return
	}

	log := c.log.With().Str("method", req.Method).Str("path", req.Path()).Logger()

	if req.Method != "GET" {
		switch c.server.UnsupportedMethods {
		case Drop:
			log.Info().Msg("dropped request with unsupported method")
		default:
			res := httpmsg.NewResponseWithHeader(405, httpmsg.Header{
				{Name: "Allow", Value: "GET"},
			}, []byte("Method "+req.Method+" not allowed"))
			c.write(log, res)
		}
		return
	}

	res, err := c.handle(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("handler failed")
		c.writeInternalError(err)
		return
	}

	res, err = httpmsg.Encode(req, res, c.server.Encoding)
	if err != nil {
		log.Error().Err(err).Msg("encoding response")
		c.writeInternalError(err)
		return
	}

	c.write(log, res)
}

func (c *conn) handle(ctx context.Context, req *httpmsg.Request) (res *httpmsg.Response, err error) {
	defer func() {
		if v := recover(); v != nil {
			c.log.Error().Bytes("stack", debug.Stack()).Msg("handler panic")
			res, err = nil, fmt.Errorf("handler panic: %v", v)
		}
	}()
	return c.server.Handler.Handle(ctx, req)
}

func (c *conn) readRequest() (*httpmsg.Request, error) {
	if t := c.server.ReadTimeout; t > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(t)); err != nil {
			return nil, err
		}
	}

	data, err := readMessage(c.nc, c.server.MaxRequestSize)
	if err != nil {
		return nil, err
	}

	addr, port := localEndpoint(c.nc.LocalAddr())
	return httpmsg.Parse(string(data), addr, port)
}

// readMessage reads chunks from r until a whole message was received, the
// peer closed its side of the connection, or limit bytes were exceeded.
//
// A short read does not end the message, only the header terminator and
// Content-Length do.
func readMessage(r io.Reader, limit int) ([]byte, error) {
	chunk := chunkPool.Get(ChunkSize)
	defer buffer.Release(&chunk, &chunkPool)

	var data []byte
	for {
		n, err := r.Read(chunk.Data)
		data = append(data, chunk.Data[:n]...)
		if limit > 0 && len(data) > limit {
			return nil, ErrRequestTooLarge
		}
		if err != nil {
			if err == io.EOF {
				return data, nil
			}
			return nil, err
		}
		if httpmsg.Complete(data) {
			return data, nil
		}
	}
}

func localEndpoint(addr net.Addr) (string, int) {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP.String(), a.Port
	default:
		host, port, _ := net.SplitHostPort(addr.String())
		p, _ := strconv.Atoi(port)
		return host, p
	}
}

func (c *conn) writeInternalError(cause error) {
	message := InternalErrorMessage
	if c.server.Debug {
		message += "\n" + cause.Error()
	}
	c.write(c.log, httpmsg.NewResponse(500, []byte(message)))
}

func (c *conn) write(log zerolog.Logger, res *httpmsg.Response) {
	if t := c.server.WriteTimeout; t > 0 {
		if err := c.nc.SetWriteDeadline(time.Now().Add(t)); err != nil {
			log.Warn().Err(err).Msg("setting write deadline")
		}
	}
	if err := httpmsg.WriteResponse(c.nc, res); err != nil {
		log.Warn().Err(err).Int("status", res.StatusCode()).Msg("writing response")
		return
	}
	log.Info().Int("status", res.StatusCode()).Int("size", len(res.Body())).Msg("served")
}

func (c *conn) close() {
	if err := c.nc.Close(); err != nil {
		c.log.Debug().Err(err).Msg("closing connection")
	}
}
