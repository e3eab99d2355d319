package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"factlens/internal/platform/config"
	phttp "factlens/internal/platform/net/http"
	"factlens/internal/platform/testkit"
)

func TestServer_ServesMountedRoutesUntilCanceled(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:0")
	t.Setenv("API_SHUTDOWN_GRACE", "1s")

	srv := phttp.NewServer(config.New())
	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Scope", "api")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v1", func(api phttp.Router) {
		api.Get("/verify/workers", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "fact_checker") })
		api.Post("/verify", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})

	for _, tc := range []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/api/v1/verify/workers", http.StatusOK, "fact_checker"},
		{http.MethodPost, "/api/v1/verify", http.StatusAccepted, ""},
	} {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.code || rec.Body.String() != tc.body || rec.Header().Get("X-Scope") != "api" {
			t.Fatalf("%s %s: %d %q %v", tc.method, tc.path, rec.Code, rec.Body.String(), rec.Header())
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	testkit.MustFinishWithin(t, 3*time.Second, func() {
		if err := <-done; err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	})
}

func TestServer_Addr(t *testing.T) {
	t.Setenv("API_PORT", ":12345")
	if got := phttp.NewServer(config.New()).Addr(); got != ":12345" {
		t.Fatalf("addr = %q", got)
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:abc")
	testkit.MustFinishWithin(t, 3*time.Second, func() {
		if err := phttp.NewServer(config.New()).Run(context.Background()); err == nil {
			t.Errorf("expected a listen error")
		}
	})
}
