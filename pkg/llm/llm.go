package llm

import "context"

// ChatModel is a minimal abstraction for chat-based LLMs.
// The resume package drafts objective texts through it.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
