package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"factlens/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack; zero values pick the defaults
type StackOptions struct {
	// Timeout bounds each request, including verify streams
	Timeout     time.Duration
	CORSOrigins []string
	// SlowRequest logs requests at warn level once they take this long
	SlowRequest time.Duration
	// MaxInFlight caps concurrent requests, 0 leaves them uncapped
	MaxInFlight int
}

// CommonStack returns the baseline middleware slice for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	stack := []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.LogContext(),

		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.Throttle(o.MaxInFlight, 30*time.Second))
	}
	return append(stack, middleware.Timeout(o.Timeout))
}
