package human

import (
	"encoding"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Nanosecond  Duration = 1
	Microsecond Duration = 1000 * Nanosecond
	Millisecond Duration = 1000 * Microsecond
	Second      Duration = 1000 * Millisecond
	Minute      Duration = 60 * Second
	Hour        Duration = 60 * Minute
	Day         Duration = 24 * Hour
	Week        Duration = 7 * Day
)

// Duration is based on time.Duration, but supports parsing more
// human-friendly representations.
//
// Here are examples of supported values:
//
//	5m30s
//	1d
//	2 weeks
//	1.5 hours
//	250ms
type Duration time.Duration

func ParseDuration(s string) (Duration, error) {
	var d Duration
	var input = s

	if s = strings.TrimSpace(s); s == "0" {
		return 0, nil
	}
	if s == "" {
		return 0, fmt.Errorf("malformed duration: %q", input)
	}

	for s != "" {
		value, rest := parseUnit(s)
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed duration: %s: %w", input, err)
		}
		unit, rest := nextUnit(rest)
		if unit == "" {
			return 0, fmt.Errorf("please include a unit ('weeks', 'h', 'm') in addition to the value (%g)", n)
		}
		scale, err := durationScale(unit)
		if err != nil {
			return 0, fmt.Errorf("malformed duration: %s: %w", input, err)
		}
		d += Duration(n * float64(scale))
		s = strings.TrimSpace(rest)
	}

	return d, nil
}

func nextUnit(s string) (unit, rest string) {
	i := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == '-' || r == '+' || (r >= '0' && r <= '9')
	})
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

func durationScale(unit string) (Duration, error) {
	switch {
	case unit == "ns" || match(unit, "nanoseconds") && len(unit) > 1:
		return Nanosecond, nil
	case unit == "us" || unit == "µs" || match(unit, "microseconds") && len(unit) > 1:
		return Microsecond, nil
	case unit == "ms" || match(unit, "milliseconds") && len(unit) > 2:
		return Millisecond, nil
	case match(unit, "seconds"):
		return Second, nil
	case match(unit, "minutes"):
		return Minute, nil
	case match(unit, "hours"):
		return Hour, nil
	case match(unit, "days"):
		return Day, nil
	case match(unit, "weeks"):
		return Week, nil
	default:
		return 0, fmt.Errorf("unknown time unit %q", unit)
	}
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) Set(s string) error {
	p, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	return d.Set(string(b))
}

var (
	_ encoding.TextMarshaler   = Duration(0)
	_ encoding.TextUnmarshaler = (*Duration)(nil)
	_ flag.Value               = (*Duration)(nil)
)
