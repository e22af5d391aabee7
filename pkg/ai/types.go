package ai

import "context"

// Evaluator describes a generative-text service capable of producing a
// free-form project evaluation for a prompt. The response is raw text;
// score extraction and feedback restructuring happen downstream.
type Evaluator interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
}
