// Package textprint renders streams of values as human readable text.
package textprint

import (
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/stealthrocket/filecraft/internal/stream"
)

type TableOption[T any] func(*tableWriter[T])

// Header enables or disables the line of column names.
func Header[T any](enable bool) TableOption[T] {
	return func(t *tableWriter[T]) { t.header = enable }
}

// NewTableWriter returns a writer rendering values of the struct type T as
// aligned columns when closed. Column names come from the "text" struct tag,
// or the field name when the tag is absent; fields tagged "-" are skipped.
func NewTableWriter[T any](w io.Writer, opts ...TableOption[T]) stream.WriteCloser[T] {
	t := &tableWriter[T]{
		output: w,
		header: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tableWriter[T any] struct {
	output io.Writer
	values []T
	header bool
}

func (t *tableWriter[T]) Write(values []T) (int, error) {
	t.values = append(t.values, values...)
	return len(values), nil
}

func (t *tableWriter[T]) Close() error {
	valueOf := func(v *T) reflect.Value { return reflect.ValueOf(v).Elem() }

	valueType := reflect.TypeOf((*T)(nil)).Elem()
	if valueType.Kind() == reflect.Pointer {
		valueType = valueType.Elem()
		valueOf = func(v *T) reflect.Value { return reflect.ValueOf(*v).Elem() }
	}

	var columns []string
	var encoders []encodeFunc
	for _, f := range reflect.VisibleFields(valueType) {
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("text"); ok {
			name, _, _ = strings.Cut(tag, ",")
		}
		if name == "-" {
			continue
		}
		columns = append(columns, name)
		encoders = append(encoders, encodeFuncOfStructField(f.Type, f.Index))
	}

	tw := tabwriter.NewWriter(t.output, 0, 4, 2, ' ', 0)
	row := make([]string, len(columns))

	if t.header {
		if err := writeRow(tw, columns); err != nil {
			return err
		}
	}

	for i := range t.values {
		v := valueOf(&t.values[i])
		for j, enc := range encoders {
			row[j] = enc(v)
		}
		if err := writeRow(tw, row); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// writeRow separates cells with tabs; the last cell is not part of a column so
// lines carry no trailing padding.
func writeRow(w io.Writer, cells []string) error {
	_, err := io.WriteString(w, strings.Join(cells, "\t")+"\n")
	return err
}
