// Package domain defines the investigation worker contract shared by the registry, the fan-out and the aggregator
package domain

import (
	"context"
	"time"

	"factlens/internal/core/interpret"
)

// CitedSource is a citation recovered from a worker narrative
type CitedSource = interpret.Source

// Report is one worker's finished investigation
type Report struct {
	Worker     string        `json:"worker"`
	Confidence float64       `json:"confidence"`
	Sources    []CitedSource `json:"sources"`
	Narrative  string        `json:"narrative"`
	Rationale  string        `json:"rationale"`
}

// Investigator examines content from one angle
// failures are provider or parse coded errors from platform/errors
type Investigator interface {
	Investigate(ctx context.Context, content string) (Report, error)
}

// InvestigatorFunc adapts a function to Investigator
type InvestigatorFunc func(ctx context.Context, content string) (Report, error)

// Investigate calls f
func (f InvestigatorFunc) Investigate(ctx context.Context, content string) (Report, error) {
	return f(ctx, content)
}

// Descriptor is an immutable registry entry
type Descriptor struct {
	Name         string
	Category     string
	Description  string
	Investigator Investigator
}

// Info is the wire view of a descriptor
type Info struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// EvidenceRecord is a raw source record from an evidence provider
type EvidenceRecord struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Publisher   string    `json:"publisher,omitempty"`
	Credibility string    `json:"credibility,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
	Published   time.Time `json:"published,omitempty"`
}
