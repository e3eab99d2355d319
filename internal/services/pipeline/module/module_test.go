package module

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"factlens/internal/adapters/llm/llmtest"
	"factlens/internal/modkit"
	"factlens/internal/platform/config"
	"factlens/internal/platform/metrics"
	adom "factlens/internal/services/aggregate/domain"
	fdom "factlens/internal/services/fanout/domain"
	dom "factlens/internal/services/pipeline/domain"

	"github.com/google/go-cmp/cmp"
)

const (
	routerMatch = "You route submitted content"
	judgeMatch  = "You are the final judge"
)

const workerNarrative = `The plant operator confirmed an explosion at 21:40.

Sources:
- City fire department (credibility: high): https://fire.example/notice
- Local news (credibility: medium): https://news.example/factory-x

Reasoning: two independent sources agree on the time.

Confidence: 0.78`

const verdictReply = "```json\n" + `{"conclusion":"partially_true","confidence":0.74,"summary":"Explosion confirmed, details thin.","reasoning_chain":["fire department confirms"]}` + "\n```"

func routerReply(names ...string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return "Breaking incident.\n```json\n" +
		`{"event_type":"breaking incident","event_type_confidence":0.9,"core_claim":"Factory X exploded","selected_workers":[` +
		strings.Join(quoted, ",") + `]}` + "\n```"
}

func assemble(t *testing.T, fake *llmtest.Fake) *Stack {
	t.Helper()
	s, err := Assemble(modkit.Deps{Cfg: config.New(), LLM: fake, Metrics: metrics.New(false)}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return s
}

func callsMatching(f *llmtest.Fake, match string) []llmtest.Call {
	var out []llmtest.Call
	for _, c := range f.All() {
		if strings.Contains(c.System, match) {
			out = append(out, c)
		}
	}
	return out
}

func completedWorkers(outcomes []fdom.Outcome) []string {
	var names []string
	for _, o := range outcomes {
		if o.Status == fdom.StatusCompleted {
			names = append(names, o.Worker)
		}
	}
	slices.Sort(names)
	return names
}

func TestEndToEnd_ThreeWorkersAllSucceed(t *testing.T) {
	t.Parallel()
	fake := llmtest.Route(workerNarrative,
		llmtest.Rule{Match: routerMatch, Reply: routerReply("fact_checker", "timeline", "stakeholders")},
		llmtest.Rule{Match: judgeMatch, Reply: verdictReply},
	)
	stack := assemble(t, fake)

	res, err := stack.Controller().Analyze(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Reports) != 3 {
		t.Fatalf("reports = %d, want 3", len(res.Reports))
	}
	for _, r := range res.Reports {
		if r.Confidence != 0.78 || len(r.Sources) != 2 {
			t.Fatalf("report %s = %+v", r.Worker, r)
		}
	}

	judged := callsMatching(fake, judgeMatch)
	if len(judged) != 1 {
		t.Fatalf("aggregator calls = %d, want 1", len(judged))
	}
	for _, w := range []string{"fact_checker", "timeline", "stakeholders"} {
		if !strings.Contains(judged[0].User, "### "+w) {
			t.Fatalf("aggregator prompt lacks %s", w)
		}
	}
	if res.Verdict.Fallback || res.Verdict.Conclusion != adom.ConclusionPartiallyTrue || res.Verdict.Confidence != 0.74 {
		t.Fatalf("verdict = %+v", res.Verdict)
	}
	// one router call, three workers, one aggregator
	if fake.Calls() != 5 {
		t.Fatalf("provider calls = %d, want 5", fake.Calls())
	}
}

func TestEndToEnd_SelectionTruncatedToThree(t *testing.T) {
	t.Parallel()
	fake := llmtest.Route(workerNarrative,
		llmtest.Rule{Match: routerMatch, Reply: routerReply("legal", "economic", "fact_checker", "timeline", "stakeholders")},
		llmtest.Rule{Match: judgeMatch, Reply: verdictReply},
	)
	stack := assemble(t, fake)

	res, err := stack.Controller().Analyze(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := []string{"legal", "economic", "fact_checker"}
	if diff := cmp.Diff(want, res.Dispatched); diff != "" {
		t.Fatalf("dispatched mismatch (-want +got):\n%s", diff)
	}
	sorted := slices.Clone(want)
	slices.Sort(sorted)
	if diff := cmp.Diff(sorted, completedWorkers(res.Outcomes)); diff != "" {
		t.Fatalf("completed workers mismatch (-want +got):\n%s", diff)
	}
	if fake.Calls() != 5 {
		t.Fatalf("provider calls = %d, want 5", fake.Calls())
	}
}

func TestEndToEnd_OneWorkerFails(t *testing.T) {
	t.Parallel()
	fake := llmtest.Route(workerNarrative,
		llmtest.Rule{Match: routerMatch, Reply: routerReply("fact_checker", "timeline", "stakeholders")},
		llmtest.Rule{Match: judgeMatch, Reply: verdictReply},
		llmtest.Rule{Match: "You reconstruct timelines", Err: errors.New("worker blew up")},
	)
	stack := assemble(t, fake)

	ch, err := stack.Controller().RunStreaming(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("RunStreaming: %v", err)
	}
	var last dom.Event
	for e := range ch {
		last = e
	}
	if !last.Terminal() || last.Result == nil {
		t.Fatalf("stream ended without the completed event: %+v", last)
	}
	res := last.Result
	if len(res.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(res.Reports))
	}
	if diff := cmp.Diff([]string{"fact_checker", "stakeholders"}, completedWorkers(res.Outcomes)); diff != "" {
		t.Fatalf("completed workers mismatch (-want +got):\n%s", diff)
	}
	if res.Verdict.Fallback {
		t.Fatalf("verdict fell back: %+v", res.Verdict)
	}
}

func TestEndToEnd_RouterDownUsesDefaults(t *testing.T) {
	t.Parallel()
	fake := llmtest.Route(workerNarrative,
		llmtest.Rule{Match: routerMatch, Err: errors.New("503 service unavailable")},
		llmtest.Rule{Match: judgeMatch, Reply: "no json here"},
	)
	stack := assemble(t, fake)

	res, err := stack.Controller().Analyze(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Classification.Fallback || res.Classification.Category != "unknown" || res.Classification.Confidence != 0 {
		t.Fatalf("classification = %+v", res.Classification)
	}
	if len(res.Reports) != 3 {
		t.Fatalf("reports = %d, want the 3 defaults", len(res.Reports))
	}
	if res.Verdict.Conclusion != adom.ConclusionUncertain || res.Verdict.Confidence != 0.5 {
		t.Fatalf("verdict = %+v", res.Verdict)
	}
}

func TestEndToEnd_EachRequestClassifiedSeparately(t *testing.T) {
	t.Parallel()
	fake := llmtest.Route(workerNarrative,
		llmtest.Rule{Match: routerMatch, Reply: routerReply("legal", "economic", "causality")},
		llmtest.Rule{Match: judgeMatch, Reply: verdictReply},
	)
	stack := assemble(t, fake)

	first, err := stack.Controller().Analyze(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := stack.Controller().Analyze(context.Background(), "Factory X exploded yesterday")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first.Request.ID == second.Request.ID {
		t.Fatalf("requests share id %s", first.Request.ID)
	}
	if n := len(callsMatching(fake, routerMatch)); n != 2 {
		t.Fatalf("router provider calls across 2 requests = %d, want 2", n)
	}
}

func TestAssemble_RequiresProvider(t *testing.T) {
	t.Parallel()
	if _, err := Assemble(modkit.Deps{Cfg: config.New()}, nil); err == nil {
		t.Fatalf("assembled without a provider")
	}
}

func TestStack_Modules(t *testing.T) {
	t.Parallel()
	stack := assemble(t, llmtest.Text(workerNarrative))
	var names []string
	for _, m := range stack.Modules() {
		names = append(names, m.Name())
	}
	if diff := cmp.Diff([]string{"workers", "router", "fanout", "aggregate", "pipeline"}, names); diff != "" {
		t.Fatalf("module order mismatch (-want +got):\n%s", diff)
	}
	if !stack.Registry().Exists("fact_checker") {
		t.Fatalf("registry missing fact_checker")
	}
}
