// Package planner abstracts the language-model service that turns prompts
// into decisions, SQL, and summaries.
package planner

import "context"

// Planner sends one prompt and returns the model's free-form text reply.
// Implementations must not retry internally; failures surface as errors.
type Planner interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}
