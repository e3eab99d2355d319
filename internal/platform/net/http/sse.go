package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"strings"
)

// SSE writes Server-Sent Events and flushes after each one
type SSE struct {
	w      stdhttp.ResponseWriter
	f      stdhttp.Flusher
	nextID int64
}

// StartSSE sends the stream headers; nil when w cannot flush
func StartSSE(w stdhttp.ResponseWriter) *SSE {
	f, ok := w.(stdhttp.Flusher)
	if !ok {
		return nil
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)
	f.Flush()
	return &SSE{w: w, f: f, nextID: 1}
}

// WriteEvent encodes v as JSON under the given event name
func (s *SSE) WriteEvent(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: encode %s: %w", event, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "id: %d\n", s.nextID)
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	fmt.Fprintf(&b, "data: %s\n\n", data)
	if _, err := s.w.Write([]byte(b.String())); err != nil {
		return err
	}
	s.nextID++
	s.f.Flush()
	return nil
}
