package interpret

import (
	"regexp"
	"strings"

	perr "factlens/internal/platform/errors"

	"github.com/tidwall/gjson"
)

var fenceRe = regexp.MustCompile("(?is)```[ \\t]*json[ \\t]*\\n?(.*?)```")

// Payload is a JSON object recovered from provider output
// lookups go through gjson paths so callers can probe alternate field names cheaply
type Payload struct {
	raw string
	res gjson.Result
}

// Raw returns the JSON text that parsed
func (p Payload) Raw() string { return p.raw }

// Map decodes the payload into a generic map
func (p Payload) Map() map[string]any {
	m, _ := p.res.Value().(map[string]any)
	return m
}

// Get runs a gjson path against the payload
func (p Payload) Get(path string) gjson.Result { return p.res.Get(path) }

// String returns the first non-blank string found at any of paths
func (p Payload) String(paths ...string) string {
	for _, path := range paths {
		r := p.res.Get(path)
		if r.Type == gjson.String {
			if s := strings.TrimSpace(r.Str); s != "" {
				return s
			}
		}
	}
	return ""
}

// Float returns the first numeric value at any of paths
// numeric strings like "0.8" count; ok is false when nothing numeric is present
func (p Payload) Float(paths ...string) (v float64, ok bool) {
	for _, path := range paths {
		r := p.res.Get(path)
		switch r.Type {
		case gjson.Number:
			return r.Num, true
		case gjson.String:
			if n := gjson.Parse(strings.TrimSpace(r.Str)); n.Type == gjson.Number {
				return n.Num, true
			}
		}
	}
	return 0, false
}

// Strings returns the string elements of the first array found at any of paths
// non-string elements are skipped
func (p Payload) Strings(paths ...string) []string {
	for _, path := range paths {
		r := p.res.Get(path)
		if !r.IsArray() {
			continue
		}
		var out []string
		for _, el := range r.Array() {
			if el.Type == gjson.String {
				if s := strings.TrimSpace(el.Str); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	}
	return nil
}

// Structured recovers a JSON object from text trying, in order,
// the whole text, the first ```json fenced block, and the span from the first '{' to the last '}'
func Structured(text string) (Payload, error) {
	if p, ok := object(text); ok {
		return p, nil
	}
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		if p, ok := object(m[1]); ok {
			return p, nil
		}
	}
	if i, j := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}'); i >= 0 && j > i {
		if p, ok := object(text[i : j+1]); ok {
			return p, nil
		}
	}
	return Payload{}, perr.Parsef("no structured payload in %d bytes of provider output", len(text))
}

func object(s string) (Payload, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return Payload{}, false
	}
	r := gjson.Parse(s)
	if !r.IsObject() {
		return Payload{}, false
	}
	return Payload{raw: s, res: r}, true
}
