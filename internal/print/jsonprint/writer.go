// Package jsonprint writes streams of values as a JSON array.
package jsonprint

import (
	"encoding/json"
	"io"

	"github.com/stealthrocket/filecraft/internal/stream"
)

// NewWriter returns a writer which buffers values and encodes them as an
// indented JSON array when closed.
func NewWriter[T any](w io.Writer) stream.WriteCloser[T] {
	return &writer[T]{output: w}
}

type writer[T any] struct {
	output io.Writer
	values []T
}

func (w *writer[T]) Write(values []T) (int, error) {
	w.values = append(w.values, values...)
	return len(values), nil
}

func (w *writer[T]) Close() error {
	values := w.values
	if values == nil {
		values = []T{}
	}
	e := json.NewEncoder(w.output)
	e.SetEscapeHTML(false)
	e.SetIndent("", "  ")
	return e.Encode(values)
}
