// Package swaggerkit serves the OpenAPI document and Swagger UI under /api/docs
package swaggerkit

import (
	"net/http"

	phttp "factlens/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount registers the docs routes on r; disabled is a no-op
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.URL("/api/docs/doc.json"),
		httpSwagger.DocExpansion("list"),
	)
	r.Get("/api/docs", http.RedirectHandler("/api/docs/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get("/api/docs/doc.json", serveDocJSON)
	r.Handle("/api/docs/*", ui)
}
