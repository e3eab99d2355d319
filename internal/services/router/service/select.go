package service

import (
	"math"
	"sort"
	"strings"

	"factlens/internal/core/interpret"

	"github.com/tidwall/gjson"
)

// selection paths in the order they are probed; older prompts used activated_angles
var selectionPaths = []string{"selected_workers", "selected", "workers", "activated_angles"}

type candidate struct {
	name     string
	priority float64
}

// candidates reads the provider's worker list in stated order
// entries may be bare names or objects carrying name|worker|angle and an optional priority
func candidates(p interpret.Payload) []candidate {
	var arr gjson.Result
	for _, path := range selectionPaths {
		if r := p.Get(path); r.IsArray() {
			arr = r
			break
		}
	}
	if !arr.Exists() {
		return nil
	}

	var out []candidate
	ranked := false
	for _, el := range arr.Array() {
		c := candidate{priority: math.Inf(1)}
		switch {
		case el.Type == gjson.String:
			c.name = el.Str
		case el.IsObject():
			for _, k := range []string{"name", "worker", "angle"} {
				if v := el.Get(k); v.Type == gjson.String {
					c.name = v.Str
					break
				}
			}
			if pr := el.Get("priority"); pr.Type == gjson.Number {
				c.priority = pr.Num
				ranked = true
			}
		}
		if c.name = canonical(c.name); c.name != "" {
			out = append(out, c)
		}
	}
	if ranked {
		// unranked entries keep their relative order behind ranked ones
		sort.SliceStable(out, func(i, j int) bool { return out[i].priority < out[j].priority })
	}
	return out
}

// canonical maps "Fact Checker" and "fact-checker" onto the registry form fact_checker
func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
}
