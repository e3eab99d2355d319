// Package http carries the server, router seam and JSON envelope every endpoint answers with
package http

import (
	"cmp"
	"encoding/json"
	stdhttp "net/http"

	perr "factlens/internal/platform/errors"
	pnet "factlens/internal/platform/net"
)

// Envelope wraps every JSON body the API writes
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
	}
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err as an envelope, status taken from its code
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	env := envelope(r, perr.HTTPStatus(err))
	wire := perr.WireFrom(err)
	env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field
	JSON(w, env.StatusCode, env)
}

// Response is what return-style handlers produce
// an error Body becomes an error envelope and Status is ignored
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

func OK(data any) Response     { return Response{Status: stdhttp.StatusOK, Body: data} }
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			w.Header()[k] = append(w.Header()[k], vv...)
		}
		if err, ok := resp.Body.(error); ok && err != nil {
			RespondError(w, r, err)
			return
		}
		env := envelope(r, cmp.Or(resp.Status, stdhttp.StatusOK))
		env.Data = resp.Body
		JSON(w, env.StatusCode, env)
	}
}
