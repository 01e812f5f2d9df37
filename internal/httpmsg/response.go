package httpmsg

import (
	"net/http"
	"strings"
)

// Field is a single response header.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered list of response headers; fields are serialized in
// the order they were added.
type Header []Field

// Get returns the value of the first field matching name, ignoring case.
func (h Header) Get(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h[i].Value, true
	}
	return "", false
}

// Set replaces the value of the field matching name in place, or appends a
// new field if none exist yet.
func (h *Header) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		(*h)[i].Value = value
	} else {
		*h = append(*h, Field{Name: name, Value: value})
	}
}

func (h Header) index(name string) int {
	for i, f := range h {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Response is an HTTP response produced by a handler or by the server's error
// path. It is consumed exactly once by WriteResponse.
type Response struct {
	status int
	header Header
	body   []byte
}

// NewResponse constructs a response with an empty header set.
func NewResponse(status int, body []byte) *Response {
	return NewResponseWithHeader(status, nil, body)
}

// NewResponseWithHeader constructs a response carrying the given headers.
//
// Content-Length and Connection are always computed by WriteResponse; values
// for those headers passed here are not serialized.
func NewResponseWithHeader(status int, header Header, body []byte) *Response {
	return &Response{
		status: status,
		header: append(Header(nil), header...),
		body:   body,
	}
}

func (r *Response) StatusCode() int { return r.status }

// Reason returns the standard reason phrase of the status code, as registered
// in net/http ("OK", "Not Found"), rather than a status identifier such as
// "NotFound".
func (r *Response) Reason() string { return http.StatusText(r.status) }

// Header returns a copy of the response headers.
func (r *Response) Header() Header { return append(Header(nil), r.header...) }

func (r *Response) Body() []byte { return r.body }
