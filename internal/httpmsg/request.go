// Package httpmsg implements the subset of HTTP/1.1 messages understood by
// filecraft: parsing a single request from raw text and serializing a single
// response onto a connection.
package httpmsg

import (
	"net/url"
	"strings"
)

// Request is a parsed HTTP request. Values are built once by Parse and must
// not be mutated afterwards.
type Request struct {
	Method  string
	URI     *url.URL
	Version string
	// Header names are kept as they were received; when a header appears more
	// than once the last value wins.
	Header map[string]string
	Body   string
}

// Path returns the unescaped path component of the request URI.
func (r *Request) Path() string {
	return r.URI.Path
}

// HeaderValue looks up a header value, first by exact name, then ignoring
// case.
func (r *Request) HeaderValue(name string) (string, bool) {
	if v, ok := r.Header[name]; ok {
		return v, true
	}
	for k, v := range r.Header {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
