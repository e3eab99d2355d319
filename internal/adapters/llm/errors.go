package llm

import (
	"context"
	stderrs "errors"
	"net"
	"strings"

	perr "factlens/internal/platform/errors"
)

var (
	rateLimitHints   = []string{"429", "rate limit", "rate_limit", "ratelimit", "too many requests", "quota exceeded", "throttl"}
	unavailableHints = []string{"500", "502", "503", "504", "529", "overloaded", "service unavailable", "temporarily unavailable", "try again later", "connection reset", "connection refused", "eof"}
	authHints        = []string{"401", "403", "unauthorized", "invalid api key", "invalid_api_key", "authentication", "permission denied"}
)

// classify maps a backend failure onto the shared taxonomy
// the inner code decides retryability, the outer ErrorCodeProvider is what callers see
func classify(backend string, err error) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return perr.Wrapf(err, perr.ErrorCodeProvider, "%s call aborted", backend)
	}

	inner := perr.ErrorCodeUnknown
	var ne net.Error
	if stderrs.As(err, &ne) {
		inner = perr.ErrorCodeUnavailable
	} else {
		msg := strings.ToLower(err.Error())
		switch {
		case containsAny(msg, rateLimitHints):
			inner = perr.ErrorCodeTooManyRequests
		case containsAny(msg, authHints):
			inner = perr.ErrorCodeUnauthorized
		case containsAny(msg, unavailableHints):
			inner = perr.ErrorCodeUnavailable
		}
	}
	return perr.Wrapf(perr.Wrap(err, inner, inner.String()), perr.ErrorCodeProvider, "%s call failed", backend)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
