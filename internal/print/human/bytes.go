package human

import (
	"encoding"
	"flag"
	"fmt"
	"math"
	"strconv"
)

// Bytes represents a number of bytes.
//
// The type support parsing values in formats like:
//
//	42 KB
//	8Mi
//	1.5KiB
//
// Two models are supported, using factors of 1000 and factors of 1024 via units
// like KB, MB, GB for the former, or Ki, Mi, MiB for the latter. Formatting is
// always done in factors of 1024.
type Bytes uint64

const (
	B Bytes = 1

	KB Bytes = 1000 * B
	MB Bytes = 1000 * KB
	GB Bytes = 1000 * MB

	KiB Bytes = 1024 * B
	MiB Bytes = 1024 * KiB
	GiB Bytes = 1024 * MiB
)

func ParseBytes(s string) (Bytes, error) {
	value, unit := parseUnit(s)

	var scale Bytes
	switch unit {
	case "", "B":
		scale = B
	case "K", "KB":
		scale = KB
	case "M", "MB":
		scale = MB
	case "G", "GB":
		scale = GB
	case "Ki", "KiB":
		scale = KiB
	case "Mi", "MiB":
		scale = MiB
	case "Gi", "GiB":
		scale = GiB
	default:
		return 0, fmt.Errorf("malformed bytes representation: %q", s)
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed bytes representation: %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid negative byte count: %q", s)
	}
	return Bytes(math.Floor(f * float64(scale))), nil
}

var bytes1024 = [...]struct {
	scale Bytes
	unit  string
}{
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
}

func (b Bytes) String() string {
	for _, u := range bytes1024 {
		if b >= u.scale {
			return strconv.FormatFloat(float64(b)/float64(u.scale), 'f', -1, 64) + " " + u.unit
		}
	}
	return strconv.FormatUint(uint64(b), 10) + " B"
}

func (b *Bytes) Set(s string) error {
	p, err := ParseBytes(s)
	if err != nil {
		return err
	}
	*b = p
	return nil
}

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes) UnmarshalText(t []byte) error {
	return b.Set(string(t))
}

var (
	_ encoding.TextMarshaler   = Bytes(0)
	_ encoding.TextUnmarshaler = (*Bytes)(nil)
	_ flag.Value               = (*Bytes)(nil)
)
