// Package human provides types that support parsing and formatting
// human-friendly representations of values in configuration files and on
// the command line, for example:
//
//	server:
//	  read-timeout: 30s
//	  max-request-size: 1 MiB
//	static:
//	  root: ~/www
package human

import (
	"strings"
	"unicode"
)

// match reports whether s is a prefix of the unit name, so "m", "min" and
// "minutes" all match "minutes". Single letter abbreviations are case
// sensitive.
func match(s, unit string) bool {
	if len(s) == 0 {
		return false
	}
	if len(s) == 1 {
		return s == unit[:1]
	}
	return len(s) <= len(unit) && strings.EqualFold(s, unit[:len(s)])
}

// parseUnit splits a leading number from its trailing unit.
func parseUnit(s string) (value, unit string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-' && r != '+'
	})
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
