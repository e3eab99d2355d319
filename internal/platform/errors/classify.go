package errors

// Predicates for the pipeline taxonomy and retry semantics

import (
	"context"
	stderrs "errors"
)

// hasCode walks the whole chain, unlike CodeOf which stops at the outermost *Error
func hasCode(err error, code ErrorCode) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.code == code {
			return true
		}
		err = stderrs.Unwrap(err)
	}
	return false
}

// IsProvider reports whether err came from a failed reasoning provider call
func IsProvider(err error) bool { return hasCode(err, ErrorCodeProvider) }

// IsParse reports whether err is a structured extraction failure
func IsParse(err error) bool { return hasCode(err, ErrorCodeParse) }

// IsTimeout reports whether err is a worker deadline failure
func IsTimeout(err error) bool {
	return hasCode(err, ErrorCodeTimeout) || stderrs.Is(err, context.DeadlineExceeded)
}

// IsUnknownWorker reports whether err names a worker absent from the registry
func IsUnknownWorker(err error) bool { return hasCode(err, ErrorCodeUnknownWorker) }

// Retryable reports whether a retry may succeed
// rate limits and transient unavailability retry, cancellation never does
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	return hasCode(err, ErrorCodeTooManyRequests) || hasCode(err, ErrorCodeUnavailable)
}

// Reason is a low cardinality label for err, used on fallback and failure metrics
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsTimeout(err):
		return "timeout"
	case IsParse(err):
		return "parse"
	case IsUnknownWorker(err):
		return "unknown_worker"
	case IsProvider(err):
		return "provider"
	default:
		return CodeOf(err).String()
	}
}
