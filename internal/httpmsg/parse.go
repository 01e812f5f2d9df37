package httpmsg

import (
	"bytes"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ParseError is returned by Parse when the input is not a well-formed request.
type ParseError struct {
	Reason string
	Line   string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return "malformed request: " + e.Reason
	}
	return fmt.Sprintf("malformed request: %s: %q", e.Reason, e.Line)
}

func parseError(reason, line string) error {
	return &ParseError{Reason: reason, Line: line}
}

// Parse parses the raw text of a request received on a connection whose local
// endpoint is localAddr:localPort.
//
// The server has no notion of virtual hosts, the authority of the request URI
// is always synthesized from the local endpoint, the Host header is not
// consulted.
func Parse(text string, localAddr string, localPort int) (*Request, error) {
	requestLine, rest, ok := cutLine(text)
	if !ok {
		return nil, parseError("missing request line terminator", requestLine)
	}

	method, target, version, err := parseRequestLine(requestLine)
	if err != nil {
		return nil, err
	}

	uri, err := requestURI(target, localAddr, localPort)
	if err != nil {
		return nil, err
	}

	header := make(map[string]string)
	for rest != "" {
		var line string
		line, rest, _ = cutLine(rest)
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, parseError("header line has no colon", line)
		}
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, parseError("invalid header name", line)
		}
		header[name] = strings.TrimSpace(value)
	}

	req := &Request{
		Method:  method,
		URI:     uri,
		Version: version,
		Header:  header,
		Body:    rest,
	}
	return req, nil
}

func parseRequestLine(line string) (method, target, version string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", "", parseError("request line must have three elements", line)
	}
	method, target, version = parts[0], parts[1], parts[2]
	switch {
	case method == "" || strings.IndexFunc(method, isControl) >= 0:
		err = parseError("invalid method", line)
	case target == "":
		err = parseError("missing request target", line)
	case !strings.HasPrefix(version, "HTTP/"):
		err = parseError("invalid protocol version", line)
	}
	return method, target, version, err
}

func requestURI(target, localAddr string, localPort int) (*url.URL, error) {
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, parseError("invalid request target", target)
	}
	if !u.IsAbs() {
		u.Scheme = "http"
		u.Host = net.JoinHostPort(localAddr, strconv.Itoa(localPort))
	}
	return u, nil
}

func isControl(r rune) bool {
	return r < ' ' || r == 0x7f
}

// cutLine splits text after the first line terminator, which may be either
// LF or CRLF. The returned line has no terminator; ok is false when no
// terminator was found, in which case line holds the whole input.
func cutLine(text string) (line, rest string, ok bool) {
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return text, "", false
	}
	line, rest = text[:i], text[i+1:]
	line = strings.TrimSuffix(line, "\r")
	return line, rest, true
}

// Complete reports whether b holds a whole request message: the header block
// is terminated by a blank line and at least as many body bytes as declared
// by Content-Length were received. A missing or invalid Content-Length counts
// as an empty body.
func Complete(b []byte) bool {
	head, body, ok := cutHead(b)
	if !ok {
		return false
	}
	return len(body) >= contentLength(head)
}

func cutHead(b []byte) (head, body []byte, ok bool) {
	// The first line is the request line, an empty one does not end the head.
	for i, first := 0, true; i < len(b); first = false {
		j := bytes.IndexByte(b[i:], '\n')
		if j < 0 {
			break
		}
		line := bytes.TrimSuffix(b[i:i+j], []byte("\r"))
		if i += j + 1; len(line) == 0 && !first {
			return b[:i], b[i:], true
		}
	}
	return nil, nil, false
}

func contentLength(head []byte) int {
	for _, line := range bytes.Split(head, []byte("\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok || !bytes.EqualFold(name, []byte("Content-Length")) {
			continue
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}
