package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "factlens/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMountProfiler(t *testing.T) {
	t.Parallel()
	cases := []struct {
		enabled bool
		want    int
	}{
		{true, http.StatusOK},
		{false, http.StatusNotFound},
	}
	for _, tc := range cases {
		r := phttp.AdaptChi(chi.NewRouter())
		phttp.MountProfiler(r, "/debug", tc.enabled)
		for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline"} {
			rec := httptest.NewRecorder()
			r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != tc.want {
				t.Fatalf("enabled=%v %s: status %d, want %d", tc.enabled, path, rec.Code, tc.want)
			}
		}
	}
}
