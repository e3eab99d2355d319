package interpret

import (
	"regexp"
	"strings"

	"factlens/internal/core/normalize"
)

// headingRe matches "Label:" style lines with optional markdown heading or emphasis marks
var headingRe = regexp.MustCompile(`^[#*\s]*([\p{L}][\p{L} _]{0,40}?)[*\s]*:[*\s]*(.*)$`)

// report headings that end a section even when they carry an inline value
var reportHeadings = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, h := range []string{
		"confidence", "key sources", "sources", "report", "reasoning",
		"置信度", "关键来源", "报告", "推理过程",
	} {
		m[h] = struct{}{}
	}
	return m
}()

// Section returns the body under the first heading matching any label (case-insensitive)
// the body runs until the next bare heading or report heading; "" when absent
// headings are matched folded, the body is returned as written
func Section(text string, labels ...string) string {
	if text == "" || len(labels) == 0 {
		return ""
	}
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
	}

	var (
		body       []string
		collecting bool
	)
	folded, off := normalize.FoldMapped(text)
	start := 0
	for _, line := range strings.SplitAfter(folded, "\n") {
		ls := start
		start += len(line)
		line = strings.TrimSuffix(line, "\n")
		m := headingRe.FindStringSubmatchIndex(line)
		if m != nil {
			label := strings.ToLower(strings.TrimSpace(line[m[2]:m[3]]))
			_, known := reportHeadings[label]
			if collecting && (known || strings.TrimSpace(line[m[4]:m[5]]) == "") {
				break
			}
			if _, ok := want[label]; ok && !collecting {
				collecting = true
				if inline := strings.TrimSpace(original(text, off, ls+m[4], ls+m[5])); inline != "" {
					body = append(body, inline)
				}
				continue
			}
		}
		if collecting {
			body = append(body, original(text, off, ls, ls+len(line)))
		}
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
