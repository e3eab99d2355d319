package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"factlens/internal/adapters/llm/llmtest"
	"factlens/internal/modkit"
	"factlens/internal/modkit/module"
	"factlens/internal/platform/config"
	"factlens/internal/platform/metrics"
	phttp "factlens/internal/platform/net/http"
	"factlens/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

const narrative = "Confirmed by the fire department.\n\nSources:\n- Fire department (credibility: high): https://fire.example\n\nConfidence: 0.8"

func mount(t *testing.T) http.Handler {
	t.Helper()
	testkit.Serial(t)
	t.Cleanup(module.Reset)

	fake := llmtest.Route(narrative,
		llmtest.Rule{Match: "You route submitted content", Reply: `{"event_type":"breaking incident","selected_workers":["fact_checker","timeline"]}`},
		llmtest.Rule{Match: "You are the final judge", Reply: `{"conclusion":"true","confidence":0.8,"summary":"holds"}`},
	)
	mux := chi.NewRouter()
	err := Mount(phttp.AdaptChi(mux), Options{
		Deps: modkit.Deps{Cfg: config.New(), LLM: fake, Metrics: metrics.New(false)},
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return mux
}

func TestMount_VerifyOverHTTP(t *testing.T) {
	h := mount(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(`{"content":"Factory X exploded yesterday"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	testkit.MustContain(t, body, `"conclusion":"true"`)
	testkit.MustContain(t, body, `"reports":2`)

	// the run is visible on /metrics
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testkit.MustContain(t, rec.Body.String(), `factlens_worker_outcomes_total{status="completed",worker="fact_checker"} 1`)
}

func TestMount_Routes(t *testing.T) {
	h := mount(t)
	for _, path := range []string{"/health", "/api/v1/meta/health", "/api/v1/meta/service", "/api/v1/verify/workers", "/api/v1/verify/workers/timeline"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
	}
	if _, ok := module.PortsAs[any]("pipeline"); !ok {
		t.Fatalf("pipeline ports not registered")
	}
}

func TestMount_RequiresProvider(t *testing.T) {
	testkit.Serial(t)
	if err := Mount(phttp.AdaptChi(chi.NewRouter()), Options{Deps: modkit.Deps{Cfg: config.New()}}); err == nil {
		t.Fatalf("mounted without a reasoning provider")
	}
}
