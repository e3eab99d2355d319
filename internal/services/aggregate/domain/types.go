// Package domain defines the aggregated verdict and the synthesizer port
package domain

import (
	"context"
	"strings"

	wdom "factlens/internal/services/workers/domain"
)

// Conclusion is the closed set of verdict labels
type Conclusion string

const (
	ConclusionTrue          Conclusion = "true"
	ConclusionFalse         Conclusion = "false"
	ConclusionUncertain     Conclusion = "uncertain"
	ConclusionUnverifiable  Conclusion = "unverifiable"
	ConclusionPartiallyTrue Conclusion = "partially_true"
	ConclusionMisleading    Conclusion = "misleading"
)

var conclusions = func() map[string]Conclusion {
	m := map[string]Conclusion{
		"true":           ConclusionTrue,
		"false":          ConclusionFalse,
		"uncertain":      ConclusionUncertain,
		"unverifiable":   ConclusionUnverifiable,
		"partially_true": ConclusionPartiallyTrue,
		"partly_true":    ConclusionPartiallyTrue,
		"misleading":     ConclusionMisleading,
	}
	// labels the catalog's Chinese prompts tend to produce
	for _, l := range []struct {
		label string
		c     Conclusion
	}{
		{"真实", ConclusionTrue},
		{"虚假", ConclusionFalse},
		{"存疑", ConclusionUncertain},
		{"无法核实", ConclusionUnverifiable},
		{"部分真实", ConclusionPartiallyTrue},
		{"误导性", ConclusionMisleading},
	} {
		m[l.label] = l.c
	}
	return m
}()

// ParseConclusion normalizes case, spacing and hyphens before matching
func ParseConclusion(s string) (Conclusion, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	c, ok := conclusions[k]
	return c, ok
}

// Verdict is the pipeline's terminal artifact
type Verdict struct {
	Conclusion      Conclusion `json:"conclusion"`
	Confidence      float64    `json:"confidence"`
	Summary         string     `json:"summary"`
	Detail          string     `json:"detailed_judgment"`
	Rationale       string     `json:"rationale"`
	ReasoningChain  []string   `json:"reasoning_chain,omitempty"`
	VerifiedClaims  []string   `json:"verified_claims,omitempty"`
	RefutedClaims   []string   `json:"refuted_claims,omitempty"`
	UncertainClaims []string   `json:"uncertain_claims,omitempty"`
	// Fallback marks a fixed sentinel rather than a provider judgment
	Fallback bool `json:"fallback"`
}

// NoEvidence is the sentinel for an empty report set
func NoEvidence() Verdict {
	return Verdict{
		Conclusion:     ConclusionUnverifiable,
		Confidence:     0,
		Summary:        "No investigation produced a report, so the content cannot be verified.",
		Detail:         "Every selected worker failed, timed out or was unknown.",
		Rationale:      "no worker reports to weigh",
		ReasoningChain: []string{"no worker reports", "no verifiable basis"},
		Fallback:       true,
	}
}

// Undecided is the sentinel for a synthesis that produced nothing usable
func Undecided(reason string) Verdict {
	return Verdict{
		Conclusion: ConclusionUncertain,
		Confidence: 0.5,
		Summary:    "The investigations could not be combined into a judgment.",
		Detail:     reason,
		Rationale:  "synthesis unavailable",
		Fallback:   true,
	}
}

// SynthesizerPort combines worker reports into one verdict; it never fails
type SynthesizerPort interface {
	Synthesize(ctx context.Context, content string, reports []wdom.Report) Verdict
}
