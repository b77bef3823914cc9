// File path: internal/llm/providers/providers.go
package providers

import "context"

type Message struct {
	Role    string
	Content string
}

// Completion is one narrative-generation reply plus the accounting data the
// pipeline accumulates into its metrics.
type Completion struct {
	Content    string
	Model      string
	TokensUsed int
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (Completion, error)
	Name() string
}
