// Package llm adapts chat completion backends to the reasoning provider port
package llm

import "context"

// Provider turns a system prompt and a user prompt into completion text
// Implementations must be safe for concurrent use; the fan-out calls one per worker
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ProviderFunc lets a plain function act as a Provider
type ProviderFunc func(ctx context.Context, system, user string) (string, error)

// Complete calls f
func (f ProviderFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
