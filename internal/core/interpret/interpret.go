// Package interpret recovers structured values from free-form reasoning provider output
//
// Every extractor is total over its input. Confidence and Sources never fail;
// Structured fails with a parse-coded error only after all strategies are exhausted
package interpret

import (
	"regexp"
	"strconv"
	"strings"

	"factlens/internal/core/normalize"
)

// DefaultConfidence is returned when no labeled score can be recovered
const DefaultConfidence = 0.5

// Credibility labels recognized in citation lines
const (
	CredibilityHigh   = "high"
	CredibilityMedium = "medium"
	CredibilityLow    = "low"
)

// Source is one citation recovered from a narrative
type Source struct {
	Name        string `json:"name"`
	Credibility string `json:"credibility"`
	Reference   string `json:"reference"`
}

var (
	// label, optional emphasis or quoting, optional separator, number, optional percent
	confidenceRe = regexp.MustCompile(`(?i)(?:confidence(?:[ _-]?score)?|置信度)[*"'\s]*[:=]?[*"'\s]*(\d+(?:\.\d+)?|\.\d+)(\s*%)?`)

	// "- name (credibility: level): reference" on its own line, bullets or numbered items
	sourceRe = regexp.MustCompile(`(?im)^[ \t]*(?:[-*•]|\d+[.)])[ \t]*(.+?)[ \t]*\([ \t]*(?:credibility|可信度)[ \t]*:[ \t]*([^)]*?)[ \t]*\)[ \t]*:[ \t]*(.+?)[ \t]*$`)
)

// Confidence returns the first labeled score in [0,1] found in text or DefaultConfidence
// out of range candidates are skipped rather than clamped so "confidence: 7" in prose
// does not shadow a later well formed score
func Confidence(text string) float64 {
	if text == "" {
		return DefaultConfidence
	}
	for _, m := range confidenceRe.FindAllStringSubmatch(normalize.Fold(text), -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			v /= 100
		}
		if v >= 0 && v <= 1 {
			return v
		}
	}
	return DefaultConfidence
}

// Sources returns every citation line in order of appearance; an empty slice when none match
// lines are matched in folded form but names and references come back as written
func Sources(text string) []Source {
	out := []Source{}
	if text == "" {
		return out
	}
	folded, off := normalize.FoldMapped(text)
	for _, m := range sourceRe.FindAllStringSubmatchIndex(folded, -1) {
		name := trimFolded(original(text, off, m[2], m[3]), "*_`")
		ref := trimFolded(original(text, off, m[6], m[7]), "<>`")
		if name == "" || ref == "" {
			continue
		}
		out = append(out, Source{
			Name:        name,
			Credibility: Credibility(folded[m[4]:m[5]]),
			Reference:   ref,
		})
	}
	return out
}

// original is the text behind folded span [start,end), widened to whole runes
func original(text string, off []int, start, end int) string {
	if start < 0 || end <= start {
		return ""
	}
	j := end
	for j < len(off)-1 && off[j] == off[end-1] {
		j++
	}
	return text[off[start]:off[j]]
}

// trimFolded trims whitespace and cut from both ends, comparing runes by their folded form
// so fullwidth brackets and spaces go too
func trimFolded(s, cut string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		f := normalize.Fold(string(r))
		return f == "" || strings.TrimSpace(f) == "" || strings.Contains(cut, f)
	})
}

// Credibility maps a free-form level to high, medium or low
// unrecognized labels pass through trimmed
func Credibility(level string) string {
	t := strings.TrimSpace(level)
	switch strings.ToLower(strings.Trim(t, "*_ ")) {
	case "high", "高":
		return CredibilityHigh
	case "medium", "mid", "moderate", "中":
		return CredibilityMedium
	case "low", "低":
		return CredibilityLow
	default:
		return t
	}
}
