// Package strings holds the small string and slice helpers modules share
package strings

import (
	"path"
	std "strings"
	"unicode/utf8"
)

// IfEmpty is def when in has no elements
func IfEmpty[T any](in, def []T) []T {
	if len(in) > 0 {
		return in
	}
	return def
}

// MustString panics with "<name> is required" when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix cleans a mount prefix to "/a/b" form; the bare root panics
func MustPrefix(s string) string {
	p := path.Clean("/" + std.TrimSpace(s))
	if p == "/" {
		panic("root path is required")
	}
	return p
}

// FirstNonBlank returns the first trimmed value with content
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if v = std.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Preview trims s and cuts it to n runes for log lines
func Preview(s string, n int) string {
	s = std.TrimSpace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
