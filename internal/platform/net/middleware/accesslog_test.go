package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "factlens/internal/platform/net"
	"factlens/internal/platform/net/middleware"
)

func TestAccessLogZerolog_IsTransparent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		opt      middleware.AccessLogOptions
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, "ok")
			},
			wantCode: http.StatusCreated,
			wantBody: "ok",
		},
		{
			name: "implicit 200 across writes",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("hi"))
				_, _ = w.Write([]byte("there"))
			},
			wantCode: http.StatusOK,
			wantBody: "hithere",
		},
		{
			name: "slow request",
			opt:  middleware.AccessLogOptions{Slow: time.Nanosecond},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(50 * time.Microsecond)
				_, _ = io.WriteString(w, "slow")
			},
			wantCode: http.StatusOK,
			wantBody: "slow",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "provider down", http.StatusBadGateway)
			},
			wantCode: http.StatusBadGateway,
			wantBody: "provider down\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			middleware.AccessLogZerolog(tc.opt)(tc.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			if rec.Code != tc.wantCode || rec.Body.String() != tc.wantBody {
				t.Fatalf("got %d %q, want %d %q", rec.Code, rec.Body.String(), tc.wantCode, tc.wantBody)
			}
		})
	}
}

func TestAccessLogZerolog_ForwardsFlush(t *testing.T) {
	t.Parallel()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Errorf("wrapped writer is not a Flusher")
			return
		}
		_, _ = io.WriteString(w, "data: 1\n\n")
		f.Flush()
	})
	rec := httptest.NewRecorder()
	middleware.AccessLogZerolog(middleware.AccessLogOptions{})(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stream", nil))
	if !rec.Flushed {
		t.Fatalf("flush did not reach the recorder")
	}
}

func TestLogContext_CarriesRequestID(t *testing.T) {
	t.Parallel()
	var got string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = pnet.RequestID(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-42")
	middleware.RequestID()(middleware.LogContext()(next)).ServeHTTP(httptest.NewRecorder(), req)
	if got != "req-42" {
		t.Fatalf("request id = %q", got)
	}
}
