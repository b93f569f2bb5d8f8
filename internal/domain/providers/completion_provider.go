package providers

import "context"

// CompletionProvider is the external text-completion collaborator. A single
// call produces the triage narrative; the normalization stage reuses the same
// port for its best-effort corrections.
type CompletionProvider interface {
	// Complete sends one system/user prompt pair and returns the answer text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
