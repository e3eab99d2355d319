// Package normalize prepares text on both sides of the reasoning provider
//
// Content cleans caller input before it reaches any prompt
// 1 drop NUL, control and C1 runes plus invalid UTF-8 (Sanitize)
// 2 strip zero-width and other format runes
// 3 collapse whitespace runs, keeping line breaks, and trim
//
// Fold prepares provider output for pattern extraction
// 1 Sanitize
// 2 Unicode NFKC normalization
// 3 remove format runes
// 4 width fold fullwidth punctuation and letters to ASCII
// 5 CRLF to LF
//
// Fold keeps case and combining marks; extraction patterns are case-insensitive
// and source names should survive unchanged apart from width
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// unwanted marks runes no prompt or parsed field should carry: C0 controls other than
// tab, LF and CR, DEL, C1 controls, and RuneError, which runes.Remove also hands us for invalid UTF-8
func unwanted(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
		return true
	}
	return r == utf8.RuneError
}

// pools of fresh transformer chains, one per pipeline
var (
	sanitizePool = sync.Pool{
		New: func() any { return runes.Remove(runes.Predicate(unwanted)) },
	}
	contentPool = sync.Pool{
		New: func() any {
			return transform.Chain(
				runes.Remove(runes.Predicate(unwanted)),
				runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF and friends
			)
		},
	}
	foldPool = sync.Pool{
		New: func() any {
			return transform.Chain(
				runes.Remove(runes.Predicate(unwanted)),
				norm.NFKC,
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
			)
		},
	}
)

func apply(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Sanitize drops control runes and invalid UTF-8, keeping tab and line breaks
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return apply(&sanitizePool, s)
}

// Content returns caller supplied text cleaned for prompting
// an all-whitespace input yields ""
func Content(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(apply(&contentPool, s))
}

// Fold returns s in the canonical form extraction patterns are written against
// e.g. "置信度：０.８" becomes "置信度:0.8" and "（可信度：高）" becomes "(可信度:高)"
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = apply(&foldPool, s)
	if strings.Contains(s, "\r") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return s
}

// FoldMapped folds s rune by rune and reports where each folded byte came from:
// off[i] is the byte offset in s of the rune that produced folded byte i, and
// off[len(folded)] is len(s). Matching on folded and slicing s through off keeps
// extracted text as written
func FoldMapped(s string) (folded string, off []int) {
	var b strings.Builder
	b.Grow(len(s))
	off = make([]int, 0, len(s)+1)
	for i, r := range s {
		f := Fold(string(r))
		b.WriteString(f)
		for range len(f) {
			off = append(off, i)
		}
	}
	return b.String(), append(off, len(s))
}

// collapseSpaces converts whitespace runs to a single ASCII space, but preserves line breaks
// Runs that contain any newline are collapsed to a single newline. Leading/trailing spaces/newlines are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n\t\r")
}
