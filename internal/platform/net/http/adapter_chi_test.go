package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "factlens/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestAdaptChi_NestedRoutesShareMiddleware(t *testing.T) {
	t.Parallel()
	r := phttp.AdaptChi(chi.NewRouter())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Stage", "root")
			next.ServeHTTP(w, req)
		})
	})
	r.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "# metrics") }))
	r.Route("/api/v1", func(api phttp.Router) {
		api.Route("/verify", func(v phttp.Router) {
			v.Get("/workers/{name}", func(w http.ResponseWriter, req *http.Request) {
				_, _ = io.WriteString(w, chi.URLParam(req, "name"))
			})
			v.Post("/", func(w http.ResponseWriter, req *http.Request) {
				b, _ := io.ReadAll(req.Body)
				w.WriteHeader(http.StatusAccepted)
				_, _ = w.Write(b)
			})
		})
	})

	cases := []struct {
		method, path, body string
		status             int
		want               string
	}{
		{http.MethodGet, "/api/v1/verify/workers/timeline", "", http.StatusOK, "timeline"},
		{http.MethodPost, "/api/v1/verify/", "claim", http.StatusAccepted, "claim"},
		{http.MethodGet, "/metrics", "", http.StatusOK, "# metrics"},
		{http.MethodPost, "/api/v1/verify/workers/timeline", "", http.StatusMethodNotAllowed, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status %d, want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		if tc.want != "" && rec.Body.String() != tc.want {
			t.Fatalf("%s %s: body %q", tc.method, tc.path, rec.Body.String())
		}
		if rec.Header().Get("X-Stage") != "root" {
			t.Fatalf("%s %s: root middleware skipped", tc.method, tc.path)
		}
	}
}
