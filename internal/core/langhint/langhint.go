// Package langhint tags submitted content with a coarse script and language
package langhint

import (
	"unicode"
)

// Hint is a best-effort script and BCP-47 language guess
// Lang stays empty when the script does not pin a language down
type Hint struct {
	Script string `json:"script,omitempty"`
	Lang   string `json:"lang,omitempty"`
}

// minimum letters before a language is asserted; CJK carries more per rune
const (
	minLetters    = 20
	minCJKLetters = 6
)

var scripts = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Hiragana", unicode.Hiragana},
	{"Katakana", unicode.Katakana},
	{"Hangul", unicode.Hangul},
	{"Han", unicode.Han},
	{"Arabic", unicode.Arabic},
	{"Hebrew", unicode.Hebrew},
	{"Thai", unicode.Thai},
	{"Greek", unicode.Greek},
	{"Cyrillic", unicode.Cyrillic},
	{"Devanagari", unicode.Devanagari},
	{"Latin", unicode.Latin},
}

// Detect returns the predominant script and, when unambiguous, a language
// ties prefer the earlier entry in the script table so specific scripts beat Latin
func Detect(s string) Hint {
	counts := make([]int, len(scripts))
	total := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		for i, sc := range scripts {
			if unicode.Is(sc.table, r) {
				counts[i]++
				break
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return Hint{}
	}

	h := Hint{Script: scripts[best].name}
	count := func(name string) int {
		for i, sc := range scripts {
			if sc.name == name {
				return counts[i]
			}
		}
		return 0
	}
	kana := count("Hiragana") + count("Katakana")

	switch {
	case kana > 0 && total >= minCJKLetters:
		h.Lang = "ja"
	case count("Hangul") > 0 && total >= minCJKLetters:
		h.Lang = "ko"
	case h.Script == "Han" && total >= minCJKLetters:
		// Han without kana is read as Chinese
		h.Lang = "zh"
	case total < minLetters:
	case h.Script == "Arabic":
		h.Lang = "ar"
	case h.Script == "Hebrew":
		h.Lang = "he"
	case h.Script == "Thai":
		h.Lang = "th"
	case h.Script == "Greek":
		h.Lang = "el"
	}
	return h
}
