// Package httpkit is the HTTP surface modules build on
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "factlens/internal/platform/net/http"
)

type (
	// Envelope is the body every JSON endpoint answers with
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the plain handler shape
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// SSE is the Server-Sent Events writer used by streaming endpoints
	SSE = phttp.SSE
)

// StartSSE begins an event stream on w; nil when w cannot flush
func StartSSE(w http.ResponseWriter) *SSE { return phttp.StartSSE(w) }

// RespondError writes err as an envelope, for handlers that write directly
func RespondError(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error returns a response whose status comes from err
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a body-less handler; a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
