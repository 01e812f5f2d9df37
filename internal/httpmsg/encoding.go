package httpmsg

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Encoding is a content coding applied to response bodies.
type Encoding string

const (
	Identity Encoding = "none"
	Gzip     Encoding = "gzip"
	Zstd     Encoding = "zstd"
)

func (e Encoding) String() string {
	return string(e)
}

func (e *Encoding) Set(value string) error {
	switch v := Encoding(value); v {
	case Identity, Gzip, Zstd:
		*e = v
		return nil
	default:
		return fmt.Errorf("unsupported compression: %q (not one of none, gzip, zstd)", value)
	}
}

func (e *Encoding) UnmarshalText(b []byte) error {
	return e.Set(string(b))
}

var (
	gzipWriterPool  objectPool[*gzip.Writer]
	zstdEncoderPool objectPool[*zstd.Encoder]
)

type objectPool[T any] struct {
	pool sync.Pool
}

func (p *objectPool[T]) get(newObject func() T) T {
	v, ok := p.pool.Get().(T)
	if ok {
		return v
	}
	return newObject()
}

func (p *objectPool[T]) put(obj T) {
	p.pool.Put(obj)
}

// Encode returns a response with its body compressed using enc, if req
// accepts that coding. Only successful responses with a non-empty body are
// encoded; any other response is returned unchanged.
func Encode(req *Request, res *Response, enc Encoding) (*Response, error) {
	if enc == Identity || enc == "" || res.status != 200 || len(res.body) == 0 {
		return res, nil
	}
	if _, exists := res.header.Get("Content-Encoding"); exists {
		return res, nil
	}
	accept, _ := req.HeaderValue("Accept-Encoding")
	if !Accepts(accept, enc) {
		return res, nil
	}

	var body []byte
	switch enc {
	case Gzip:
		buf := new(bytes.Buffer)
		w := gzipWriterPool.get(func() *gzip.Writer {
			return gzip.NewWriter(nil)
		})
		defer gzipWriterPool.put(w)
		w.Reset(buf)
		if _, err := w.Write(res.body); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		body = buf.Bytes()
	case Zstd:
		e := zstdEncoderPool.get(func() *zstd.Encoder {
			e, _ := zstd.NewWriter(nil,
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderLevel(zstd.SpeedDefault),
			)
			return e
		})
		defer zstdEncoderPool.put(e)
		body = e.EncodeAll(res.body, nil)
	default:
		return nil, fmt.Errorf("unknown content encoding: %q", enc)
	}

	header := res.Header()
	header.Set("Content-Encoding", string(enc))
	return NewResponseWithHeader(res.status, header, body), nil
}

// Accepts reports whether an Accept-Encoding header value lists enc with a
// non-zero quality.
func Accepts(acceptEncoding string, enc Encoding) bool {
	for _, item := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(item), ";")
		if !strings.EqualFold(strings.TrimSpace(name), string(enc)) && strings.TrimSpace(name) != "*" {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		if q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		return true
	}
	return false
}
