// Package domain holds the verify API request and response shapes
package domain

import (
	adom "factlens/internal/services/aggregate/domain"
	pdom "factlens/internal/services/pipeline/domain"
	wdom "factlens/internal/services/workers/domain"
)

// VerifyInput is the body of POST /verify and POST /verify/stream
type VerifyInput struct {
	Content    string `json:"content" validate:"required" example:"Factory X exploded yesterday"`
	MaxWorkers int    `json:"max_workers,omitempty" validate:"omitempty,min=1" example:"3"`
	Trace      bool   `json:"trace,omitempty" example:"false"`
}

// RunOptions maps the input onto pipeline options
func (in VerifyInput) RunOptions() []pdom.RunOption {
	if in.MaxWorkers > 0 {
		return []pdom.RunOption{pdom.WithMaxWorkers(in.MaxWorkers)}
	}
	return nil
}

// VerifyOutput is the compact synchronous answer
type VerifyOutput struct {
	RequestID string       `json:"request_id" example:"5b1e2c9a-8f7d-4c55-9a57-0f4f3c3b7a10"`
	Category  string       `json:"category" example:"breaking incident"`
	Workers   []string     `json:"workers"`
	Reports   int          `json:"reports" example:"3"`
	Verdict   adom.Verdict `json:"verdict"`
	ElapsedMs int64        `json:"elapsed_ms" example:"8421"`
}

// Summarize trims a pipeline trace to VerifyOutput
func Summarize(res pdom.Result) VerifyOutput {
	return VerifyOutput{
		RequestID: res.Request.ID.String(),
		Category:  res.Classification.Category,
		Workers:   res.Dispatched,
		Reports:   len(res.Reports),
		Verdict:   res.Verdict,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
}

// WorkersOutput lists the registry
type WorkersOutput struct {
	Workers []wdom.Info `json:"workers"`
	Count   int         `json:"count" example:"15"`
}
