package httpmsg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// WriteResponse serializes res onto w:
//
//	HTTP/1.1 <code> <reason>
//	Connection: close
//	Content-Length: <len(body)>
//	<headers in insertion order>
//
//	<body>
//
// Lines are terminated by CRLF.
func WriteResponse(w io.Writer, res *Response) error {
	b := bufio.NewWriterSize(w, 4096)
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(res.status))
	b.WriteString(" ")
	b.WriteString(res.Reason())
	b.WriteString("\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.Itoa(len(res.body)))
	b.WriteString("\r\n")
	for _, f := range res.header {
		if computedHeader(f.Name) {
			continue
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(res.body)
	return b.Flush()
}

func computedHeader(name string) bool {
	return strings.EqualFold(name, "Content-Length") ||
		strings.EqualFold(name, "Connection") ||
		strings.EqualFold(name, "Keep-Alive")
}
