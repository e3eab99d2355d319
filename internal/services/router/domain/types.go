// Package domain defines the router's classification result and port
package domain

import (
	"context"
	"slices"
)

// UnknownCategory labels content the router could not classify
const UnknownCategory = "unknown"

// Classification is the router's decision for one request
// every Selected name exists in the worker registry, most important first
type Classification struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Selected   []string `json:"selected"`
	Rationale  string   `json:"rationale"`
	CoreClaim  string   `json:"core_claim,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	// Fallback marks the fixed result used when the provider call or its payload failed
	Fallback bool `json:"fallback"`
}

// Clone deep copies the slices so cached results are never aliased
func (c Classification) Clone() Classification {
	c.Selected = slices.Clone(c.Selected)
	c.Keywords = slices.Clone(c.Keywords)
	return c
}

// ClassifierPort picks the workers for a piece of content; it never fails
type ClassifierPort interface {
	Classify(ctx context.Context, content string) Classification
}
