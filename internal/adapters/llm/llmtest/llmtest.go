// Package llmtest provides scripted reasoning providers for tests
package llmtest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded Complete invocation
type Call struct {
	System string
	User   string
}

// Fake is a concurrency safe scripted provider that records every call
type Fake struct {
	mu    sync.Mutex
	calls []Call
	fn    func(ctx context.Context, system, user string) (string, error)
}

// New wraps fn
func New(fn func(ctx context.Context, system, user string) (string, error)) *Fake {
	return &Fake{fn: fn}
}

// Text always answers s
func Text(s string) *Fake {
	return New(func(context.Context, string, string) (string, error) { return s, nil })
}

// Fail always returns err
func Fail(err error) *Fake {
	return New(func(context.Context, string, string) (string, error) { return "", err })
}

// Rule answers Reply (or Err) when the system prompt contains Match
type Rule struct {
	Match string
	Reply string
	Err   error
}

// Route picks the first rule whose Match appears in the system prompt, falling back to def
func Route(def string, rules ...Rule) *Fake {
	return New(func(_ context.Context, system, _ string) (string, error) {
		for _, r := range rules {
			if strings.Contains(system, r.Match) {
				return r.Reply, r.Err
			}
		}
		return def, nil
	})
}

// Complete records the call and delegates to the script
func (f *Fake) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{System: system, User: user})
	f.mu.Unlock()
	return f.fn(ctx, system, user)
}

// Calls returns how many times Complete ran
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// All returns a copy of the recorded calls in arrival order
func (f *Fake) All() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Last returns the most recent call; zero when none
func (f *Fake) Last() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}
