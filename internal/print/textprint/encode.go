package textprint

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type encodeFunc func(reflect.Value) string

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

func encodeBool(v reflect.Value) string   { return strconv.FormatBool(v.Bool()) }
func encodeInt(v reflect.Value) string    { return strconv.FormatInt(v.Int(), 10) }
func encodeUint(v reflect.Value) string   { return strconv.FormatUint(v.Uint(), 10) }
func encodeString(v reflect.Value) string { return v.String() }

func encodeStringer(v reflect.Value) string {
	return v.Interface().(fmt.Stringer).String()
}

func encodeFuncOf(t reflect.Type) encodeFunc {
	if t.Implements(stringerType) {
		return encodeStringer
	}
	switch t.Kind() {
	case reflect.Bool:
		return encodeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return encodeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return encodeUint
	case reflect.String:
		return encodeString
	case reflect.Pointer:
		return encodeFuncOfPointer(t.Elem())
	case reflect.Slice:
		return encodeFuncOfSlice(t.Elem())
	default:
		panic("cannot encode values of type " + t.String())
	}
}

func encodeFuncOfPointer(t reflect.Type) encodeFunc {
	encode := encodeFuncOf(t)
	return func(v reflect.Value) string {
		if v.IsNil() {
			return "(none)"
		}
		return encode(v.Elem())
	}
}

func encodeFuncOfSlice(t reflect.Type) encodeFunc {
	encode := encodeFuncOf(t)
	return func(v reflect.Value) string {
		elems := make([]string, v.Len())
		for i := range elems {
			elems[i] = encode(v.Index(i))
		}
		return strings.Join(elems, ", ")
	}
}

func encodeFuncOfStructField(t reflect.Type, index []int) encodeFunc {
	encode := encodeFuncOf(t)
	return func(v reflect.Value) string {
		return encode(v.FieldByIndex(index))
	}
}
