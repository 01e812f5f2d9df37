// Package yamlprint writes streams of values as a YAML sequence.
package yamlprint

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/stealthrocket/filecraft/internal/stream"
)

// NewWriter returns a writer which buffers values and encodes them as a YAML
// sequence when closed.
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
	e := yaml.NewEncoder(w.output)
	e.SetIndent(2)
	if err := e.Encode(values); err != nil {
		return err
	}
	return e.Close()
}
