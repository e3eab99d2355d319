// Package domain defines fan-out outcomes and the dispatcher port
package domain

import (
	"context"
	"time"

	wdom "factlens/internal/services/workers/domain"
)

// Status is the terminal state of one dispatched name
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
	StatusSkipped   Status = "skipped"
)

// Outcome reports how one selected worker ended
// Report is set only for StatusCompleted
type Outcome struct {
	Worker  string        `json:"worker"`
	Status  Status        `json:"status"`
	Report  *wdom.Report  `json:"report,omitempty"`
	Err     error         `json:"-"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// DispatcherPort runs the selected workers concurrently and joins on all of them
// the returned reports have no meaningful order
type DispatcherPort interface {
	Dispatch(ctx context.Context, content string, names []string) []wdom.Report
	DispatchEach(ctx context.Context, content string, names []string, onOutcome func(Outcome)) []wdom.Report
}
