package http

import "net/http"

// Handler is the plain handler shape modules register
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the slice of chi the modules mount against
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(pattern string, fn func(Router))

	// Mux serves whatever has been mounted so far
	Mux() http.Handler
}
