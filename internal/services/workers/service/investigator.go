package service

import (
	"context"
	"strings"

	"factlens/internal/adapters/evidence"
	"factlens/internal/adapters/llm"
	"factlens/internal/core/interpret"
	"factlens/internal/core/langhint"
	"factlens/internal/core/normalize"
	"factlens/internal/core/promptpack"
	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/logger"
	pstrings "factlens/internal/platform/strings"
	dom "factlens/internal/services/workers/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// maxEvidence caps how many records are folded into one prompt
const maxEvidence = 8

// PromptWorker investigates by prompting the reasoning provider with a catalog entry
type PromptWorker struct {
	entry    promptpack.Worker
	llm      llm.Provider
	evidence dom.EvidencePort
}

// NewPromptWorker binds a catalog entry to a provider; nil evidence means none
func NewPromptWorker(entry promptpack.Worker, provider llm.Provider, ev dom.EvidencePort) *PromptWorker {
	if ev == nil {
		ev = evidence.Noop{}
	}
	return &PromptWorker{entry: entry, llm: provider, evidence: ev}
}

// Investigate makes one provider call and interprets the narrative it returns
func (w *PromptWorker) Investigate(ctx context.Context, content string) (dom.Report, error) {
	resp, err := w.llm.Complete(ctx, w.entry.Instructions, w.prompt(ctx, content))
	if err != nil {
		if !perr.IsProvider(err) {
			err = perr.Wrapf(err, perr.ErrorCodeProvider, "%s provider call", w.entry.Name)
		}
		return dom.Report{}, err
	}
	resp = strings.TrimSpace(normalize.Sanitize(resp))
	if resp == "" {
		return dom.Report{}, perr.Parsef("%s returned an empty report", w.entry.Name)
	}
	return dom.Report{
		Worker:     w.entry.Name,
		Confidence: interpret.Confidence(resp),
		Sources:    interpret.Sources(resp),
		Narrative:  resp,
		Rationale:  pstrings.FirstNonBlank(interpret.Section(resp, "reasoning", "推理过程"), w.entry.Rationale),
	}, nil
}

func (w *PromptWorker) prompt(ctx context.Context, content string) string {
	var b strings.Builder
	b.WriteString("Content to investigate:\n")
	b.WriteString(content)
	b.WriteString("\n")

	if name := languageName(langhint.Detect(content).Lang); name != "" {
		b.WriteString("\nThe content is written in ")
		b.WriteString(name)
		b.WriteString(". Write your report in ")
		b.WriteString(name)
		b.WriteString(".\n")
	}

	if recs := w.lookup(ctx, content); len(recs) > 0 {
		b.WriteString("\nEvidence gathered so far:\n")
		for _, r := range recs {
			b.WriteString("- ")
			b.WriteString(pstrings.FirstNonBlank(r.Title, r.Publisher, r.URL))
			if r.Credibility != "" {
				b.WriteString(" (credibility: ")
				b.WriteString(interpret.Credibility(r.Credibility))
				b.WriteString(")")
			}
			b.WriteString(": ")
			b.WriteString(pstrings.FirstNonBlank(r.URL, r.Publisher))
			b.WriteString("\n")
			if s := strings.TrimSpace(r.Snippet); s != "" {
				b.WriteString("  ")
				b.WriteString(pstrings.Preview(s, 280))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// lookup never fails the worker; a broken evidence provider just means no evidence
func (w *PromptWorker) lookup(ctx context.Context, content string) []dom.EvidenceRecord {
	recs, err := w.evidence.Lookup(ctx, w.entry.Name, content)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("worker", w.entry.Name).Msg("evidence lookup failed, continuing without evidence")
		return nil
	}
	if len(recs) > maxEvidence {
		recs = recs[:maxEvidence]
	}
	return recs
}

func languageName(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	return display.Languages(language.English).Name(t)
}
