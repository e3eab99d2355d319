// Package service implements the aggregator that turns worker reports into one verdict
package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"factlens/internal/adapters/llm"
	"factlens/internal/core/interpret"
	"factlens/internal/core/promptpack"
	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	"factlens/internal/platform/metrics"
	pstrings "factlens/internal/platform/strings"
	dom "factlens/internal/services/aggregate/domain"
	wdom "factlens/internal/services/workers/domain"
)

// narrativeBudget bounds each report's share of the aggregation prompt, in runes
const narrativeBudget = 3000

// Synthesizer implements dom.SynthesizerPort
type Synthesizer struct {
	llm     llm.Provider
	stage   promptpack.Stage
	metrics *metrics.Metrics
}

var _ dom.SynthesizerPort = (*Synthesizer)(nil)

// New binds the catalog's aggregator prompt to a provider
func New(provider llm.Provider, pack *promptpack.Pack, m *metrics.Metrics) (*Synthesizer, error) {
	if provider == nil || pack == nil {
		return nil, fmt.Errorf("aggregate: provider and catalog are required")
	}
	return &Synthesizer{llm: provider, stage: pack.Aggregator, metrics: m}, nil
}

// Synthesize never fails; empty input and unusable output map to sentinels
func (s *Synthesizer) Synthesize(ctx context.Context, content string, reports []wdom.Report) dom.Verdict {
	log := logger.C(ctx)
	if len(reports) == 0 {
		log.Warn().Msg("no worker reports, returning unverifiable")
		s.metrics.Fallback("aggregator", "no_reports")
		return dom.NoEvidence()
	}

	resp, err := s.llm.Complete(ctx, s.stage.Instructions, s.prompt(content, reports))
	if err != nil {
		log.Warn().Err(err).Msg("aggregation provider call failed, returning uncertain")
		s.metrics.Fallback("aggregator", perr.Reason(err))
		return dom.Undecided("provider call failed: " + err.Error())
	}
	payload, err := interpret.Structured(resp)
	if err != nil {
		log.Warn().Err(err).Str("preview", pstrings.Preview(resp, 120)).Msg("aggregation payload unreadable, returning uncertain")
		s.metrics.Fallback("aggregator", perr.Reason(err))
		return dom.Undecided("provider output held no structured verdict")
	}

	raw := payload.String("conclusion", "verdict")
	conclusion, ok := dom.ParseConclusion(raw)
	if !ok {
		log.Warn().Str("conclusion", raw).Msg("unrecognized conclusion, treating as uncertain")
		conclusion = dom.ConclusionUncertain
	}
	v := dom.Verdict{
		Conclusion:      conclusion,
		Confidence:      interpret.DefaultConfidence,
		Summary:         payload.String("summary", "conclusion_summary"),
		Detail:          payload.String("detailed_judgment", "detail", "details"),
		ReasoningChain:  payload.Strings("reasoning_chain"),
		VerifiedClaims:  payload.Strings("verified_claims"),
		RefutedClaims:   payload.Strings("refuted_claims"),
		UncertainClaims: payload.Strings("uncertain_claims"),
	}
	if c, ok := payload.Float("confidence", "confidence_score"); ok {
		v.Confidence = clamp01(c)
	}
	v.Rationale = pstrings.FirstNonBlank(
		payload.String("reasoning_process", "rationale"),
		strings.Join(v.ReasoningChain, "\n"),
	)
	log.Debug().Str("conclusion", string(v.Conclusion)).Float64("confidence", v.Confidence).Int("reports", len(reports)).Msg("verdict synthesized")
	return v
}

// prompt renders reports sorted by worker so completion order cannot leak into the verdict
func (s *Synthesizer) prompt(content string, reports []wdom.Report) string {
	sorted := slices.Clone(reports)
	slices.SortStableFunc(sorted, func(a, b wdom.Report) int {
		if c := strings.Compare(a.Worker, b.Worker); c != 0 {
			return c
		}
		return strings.Compare(a.Narrative, b.Narrative)
	})

	var b strings.Builder
	b.WriteString(s.stage.Task)
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n\nWorker reports:\n")
	for _, r := range sorted {
		b.WriteString("\n### ")
		b.WriteString(r.Worker)
		b.WriteString(" (confidence ")
		b.WriteString(strconv.FormatFloat(r.Confidence, 'f', 2, 64))
		b.WriteString(")\n")
		if len(r.Sources) > 0 {
			b.WriteString("Sources:\n")
			for _, src := range r.Sources {
				b.WriteString("- ")
				b.WriteString(src.Name)
				b.WriteString(" (credibility: ")
				b.WriteString(src.Credibility)
				b.WriteString("): ")
				b.WriteString(src.Reference)
				b.WriteString("\n")
			}
		}
		if r.Rationale != "" {
			b.WriteString("Rationale: ")
			b.WriteString(r.Rationale)
			b.WriteString("\n")
		}
		b.WriteString(pstrings.Preview(r.Narrative, narrativeBudget))
		b.WriteString("\n")
	}
	return b.String()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
