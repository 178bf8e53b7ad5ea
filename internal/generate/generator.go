// Package generate defines the generation collaborator contract the debate
// loop calls once per turn, plus the concrete provider bindings.
package generate

import (
	"context"
	"fmt"
)

// Result is the successful outcome of one generation call.
type Result struct {
	Content    string
	TokensUsed int
	LatencyMS  float64
}

// Options bound a single generation call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Generator produces one turn's text for a prompt. Implementations own their
// retry policy; any returned error is terminal for the calling debate loop.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (Result, error)
}

// Error marks a generation failure after the provider's own retry policy is
// exhausted. The debate loop stops on it but still finalizes the session.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GenerateFunc adapts a plain function to the Generator interface, which
// keeps test fakes to one line.
type GenerateFunc func(ctx context.Context, prompt string, opts Options) (Result, error)

// Generate implements Generator.
func (f GenerateFunc) Generate(ctx context.Context, prompt string, opts Options) (Result, error) {
	return f(ctx, prompt, opts)
}
