package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "factlens/internal/platform/errors"
	phttp "factlens/internal/platform/net/http"
	"factlens/internal/platform/testkit"
	adom "factlens/internal/services/aggregate/domain"
	"factlens/internal/services/api/verify/domain"
	pdom "factlens/internal/services/pipeline/domain"
	rdom "factlens/internal/services/router/domain"
	wdom "factlens/internal/services/workers/domain"
	wsvc "factlens/internal/services/workers/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type stubController struct {
	res     pdom.Result
	lastCfg pdom.RunConfig
}

func (s *stubController) Run(ctx context.Context, content string, opts ...pdom.RunOption) (adom.Verdict, error) {
	res, err := s.Analyze(ctx, content, opts...)
	return res.Verdict, err
}

func (s *stubController) Analyze(_ context.Context, content string, opts ...pdom.RunOption) (pdom.Result, error) {
	s.lastCfg = pdom.ResolveRun(opts...)
	if strings.TrimSpace(content) == "" {
		return pdom.Result{}, perr.InvalidArgf("content is empty")
	}
	return s.res, nil
}

func (s *stubController) RunStreaming(ctx context.Context, content string, opts ...pdom.RunOption) (<-chan pdom.Event, error) {
	res, err := s.Analyze(ctx, content, opts...)
	if err != nil {
		return nil, err
	}
	id := res.Request.ID.String()
	ch := make(chan pdom.Event, 3)
	ch <- pdom.Event{RequestID: id, Stage: pdom.StageClassifying, Status: pdom.EventStarted}
	ch <- pdom.Event{RequestID: id, Stage: pdom.StageDispatching, Status: pdom.EventStarted, Selected: res.Dispatched}
	ch <- pdom.Event{RequestID: id, Stage: pdom.StageCompleted, Status: pdom.EventCompleted, Verdict: &res.Verdict, Result: &res}
	close(ch)
	return ch, nil
}

func fixture(t *testing.T) (stdhttp.Handler, *stubController) {
	t.Helper()
	noop := wdom.InvestigatorFunc(func(context.Context, string) (wdom.Report, error) { return wdom.Report{}, nil })
	reg, err := wsvc.NewRegistry(
		wdom.Descriptor{Name: "fact_checker", Category: "Core fact check", Description: "checks claims", Investigator: noop},
		wdom.Descriptor{Name: "timeline", Category: "Timeline reconstruction", Description: "orders events", Investigator: noop},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	ctl := &stubController{res: pdom.Result{
		Request:        pdom.Request{ID: uuid.MustParse("5b1e2c9a-8f7d-4c55-9a57-0f4f3c3b7a10"), Content: "claim"},
		Classification: rdom.Classification{Category: "breaking incident", Selected: []string{"fact_checker", "timeline"}},
		Dispatched:     []string{"fact_checker", "timeline"},
		Reports:        []wdom.Report{{Worker: "fact_checker", Confidence: 0.8}, {Worker: "timeline", Confidence: 0.6}},
		Verdict:        adom.Verdict{Conclusion: adom.ConclusionTrue, Confidence: 0.81, Summary: "holds"},
		Elapsed:        1500 * time.Millisecond,
	}}
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/verify", func(rr phttp.Router) {
		Register(rr, Deps{Controller: ctl, Registry: reg})
	})
	return mux, ctl
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestWorkers(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	rec, env := do(t, h, stdhttp.MethodGet, "/verify/workers", "")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out domain.WorkersOutput
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || out.Workers[0].Name != "fact_checker" {
		t.Fatalf("workers = %+v", out)
	}
}

func TestWorker(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	cases := []struct {
		path   string
		status int
		code   perr.ErrorCode
	}{
		{"/verify/workers/timeline", stdhttp.StatusOK, 0},
		{"/verify/workers/astrology", stdhttp.StatusNotFound, perr.ErrorCodeUnknownWorker},
		{"/verify/workers/Not-A-Name", stdhttp.StatusBadRequest, perr.ErrorCodeValidation},
	}
	for _, tc := range cases {
		rec, env := do(t, h, stdhttp.MethodGet, tc.path, "")
		if rec.Code != tc.status || env.Code != tc.code {
			t.Fatalf("%s: status=%d code=%v body=%s", tc.path, rec.Code, env.Code, rec.Body.String())
		}
	}
	_, env := do(t, h, stdhttp.MethodGet, "/verify/workers/timeline", "")
	var info wdom.Info
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(wdom.Info{Name: "timeline", Category: "Timeline reconstruction", Description: "orders events"}, info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()
	h, ctl := fixture(t)

	rec, env := do(t, h, stdhttp.MethodPost, "/verify", `{"content":"Factory X exploded yesterday","max_workers":2}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var out domain.VerifyOutput
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := domain.VerifyOutput{
		RequestID: "5b1e2c9a-8f7d-4c55-9a57-0f4f3c3b7a10",
		Category:  "breaking incident",
		Workers:   []string{"fact_checker", "timeline"},
		Reports:   2,
		Verdict:   adom.Verdict{Conclusion: adom.ConclusionTrue, Confidence: 0.81, Summary: "holds"},
		ElapsedMs: 1500,
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if ctl.lastCfg.MaxWorkers != 2 {
		t.Fatalf("max workers not forwarded: %+v", ctl.lastCfg)
	}
}

func TestVerify_Trace(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	_, env := do(t, h, stdhttp.MethodPost, "/verify", `{"content":"claim","trace":true}`)
	var res pdom.Result
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Reports) != 2 || res.Classification.Category != "breaking incident" {
		t.Fatalf("trace = %+v", res)
	}
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"missing content", `{}`, stdhttp.StatusBadRequest},
		{"unknown field", `{"content":"x","priority":"y"}`, stdhttp.StatusBadRequest},
		{"bad max workers", `{"content":"x","max_workers":-1}`, stdhttp.StatusBadRequest},
		{"blank content", `{"content":"   "}`, stdhttp.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec, _ := do(t, h, stdhttp.MethodPost, "/verify", tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, rec.Code, tc.status, rec.Body.String())
		}
	}
}

func TestStream(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	rec, _ := do(t, h, stdhttp.MethodPost, "/verify/stream", `{"content":"claim"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	testkit.MustContain(t, body, "event: classifying\n")
	testkit.MustContain(t, body, "event: dispatching\n")
	testkit.MustContain(t, body, "event: verdict\n")
	testkit.MustContain(t, body, `"conclusion":"true"`)
	if strings.Contains(body, `"result"`) {
		t.Fatalf("trace leaked into a non trace stream")
	}

	rec, _ = do(t, h, stdhttp.MethodPost, "/verify/stream", `{"content":"claim","trace":true}`)
	testkit.MustContain(t, rec.Body.String(), `"result"`)
}

func TestStream_RejectsBeforeStreaming(t *testing.T) {
	t.Parallel()
	h, _ := fixture(t)
	rec, env := do(t, h, stdhttp.MethodPost, "/verify/stream", `{"content":"  "}`)
	if rec.Code != stdhttp.StatusUnprocessableEntity || env.Code != perr.ErrorCodeInvalidArgument {
		t.Fatalf("status=%d code=%v", rec.Code, env.Code)
	}
}
