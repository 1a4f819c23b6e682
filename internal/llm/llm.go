// Package llm is the boundary to the external language model. The provider
// is a black box: prompt text in, free-form text out. No retry or rate-limit
// policy lives here; a failed call is an infrastructure error for the caller.
package llm

import "context"

// Provider performs one blocking model invocation.
type Provider interface {
	Invoke(ctx context.Context, model, prompt string) (string, error)
}
