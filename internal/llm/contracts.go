package llm

import "context"

// Request is one chat completion turn: a system instruction plus user content.
type Request struct {
	System string
	User   string
}

// ChatClient is the boundary to the completion model. Implementations must
// honor ctx cancellation; the caller applies the per-call timeout.
// Complete returns the raw message content, which may or may not be valid JSON.
type ChatClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}
