// Package domain defines the analysis request, its trace and the stage events a run emits
package domain

import (
	"context"
	"time"

	"factlens/internal/core/langhint"
	adom "factlens/internal/services/aggregate/domain"
	fdom "factlens/internal/services/fanout/domain"
	rdom "factlens/internal/services/router/domain"
	wdom "factlens/internal/services/workers/domain"

	"github.com/google/uuid"
)

// Request is one accepted piece of content
type Request struct {
	ID         uuid.UUID     `json:"id"`
	Content    string        `json:"content"`
	Hint       langhint.Hint `json:"hint"`
	ReceivedAt time.Time     `json:"received_at"`
}

// Result is the full trace of a completed run
type Result struct {
	Request        Request             `json:"request"`
	Classification rdom.Classification `json:"classification"`
	// Dispatched is the selection after any per-request cap
	Dispatched []string       `json:"dispatched"`
	Reports    []wdom.Report  `json:"reports"`
	Outcomes   []fdom.Outcome `json:"outcomes"`
	Verdict    adom.Verdict   `json:"verdict"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
}

// Stage names a pipeline state
type Stage string

const (
	StageClassifying Stage = "classifying"
	StageDispatching Stage = "dispatching"
	StageAggregating Stage = "aggregating"
	StageCompleted   Stage = "completed"
)

// EventStatus says where within a stage an event sits
type EventStatus string

const (
	EventStarted   EventStatus = "started"
	EventProgress  EventStatus = "progress"
	EventCompleted EventStatus = "completed"
)

// Event is one step of a streamed run
// the last event of a stream has Stage StageCompleted and carries Verdict and Result
type Event struct {
	RequestID      string               `json:"request_id"`
	Stage          Stage                `json:"stage"`
	Status         EventStatus          `json:"status"`
	Classification *rdom.Classification `json:"classification,omitempty"`
	Selected       []string             `json:"selected,omitempty"`
	Outcome        *fdom.Outcome        `json:"outcome,omitempty"`
	Verdict        *adom.Verdict        `json:"verdict,omitempty"`
	Result         *Result              `json:"result,omitempty"`
}

// Terminal reports whether e closes the stream
func (e Event) Terminal() bool { return e.Stage == StageCompleted }

// RunOption adjusts a single run
type RunOption func(*RunConfig)

// RunConfig is the resolved per-run settings
type RunConfig struct {
	MaxWorkers int
}

// WithMaxWorkers lowers the number of dispatched workers for this run
// values at or above the deployment cap, and values below 1, have no effect
func WithMaxWorkers(n int) RunOption {
	return func(c *RunConfig) { c.MaxWorkers = n }
}

// ResolveRun applies opts over the zero config
func ResolveRun(opts ...RunOption) RunConfig {
	var c RunConfig
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	return c
}

// ControllerPort is what outer surfaces (HTTP, CLI) drive
type ControllerPort interface {
	Run(ctx context.Context, content string, opts ...RunOption) (adom.Verdict, error)
	Analyze(ctx context.Context, content string, opts ...RunOption) (Result, error)
	RunStreaming(ctx context.Context, content string, opts ...RunOption) (<-chan Event, error)
}
