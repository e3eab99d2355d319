package swaggerkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "factlens/internal/platform/net/http"
	"factlens/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func mounted(enabled bool) http.Handler {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, enabled)
	return r.Mux()
}

func TestDocJSON_DescribesRoutes(t *testing.T) {
	testkit.Serial(t)
	rec := get(t, mounted(true), "/api/docs/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	doc := rec.Body.String()
	for _, path := range []string{
		"paths./verify.post.requestBody",
		"paths./verify/stream.post",
		"paths./verify/workers/{name}.get.parameters.0",
		"paths./meta/health.get",
		"paths./verify.post.responses.400",
		"paths./meta/version.get.responses.500",
		"components.schemas.ErrorResponse.properties.field",
	} {
		if !gjson.Get(doc, path).Exists() {
			t.Fatalf("doc lacks %s", path)
		}
	}
	if got := gjson.Get(doc, "servers.0.url").String(); got != serverURL {
		t.Fatalf("server url = %q", got)
	}
	if got := gjson.Get(doc, "paths./verify.post.responses.400.content.application/json.example.status_code").Int(); got != http.StatusBadRequest {
		t.Fatalf("400 example status = %d", got)
	}
}

func TestDocJSON_EncodeFailure(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &docJSON, func() ([]byte, error) { return nil, errors.New("boom") })
	if rec := get(t, mounted(true), "/api/docs/doc.json"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMount(t *testing.T) {
	t.Parallel()
	if rec := get(t, mounted(true), "/api/docs"); rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := get(t, mounted(false), "/api/docs/doc.json"); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs answered %d", rec.Code)
	}
}
