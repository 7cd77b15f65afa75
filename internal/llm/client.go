// Package llm wraps chat-completion providers behind one small interface.
package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is implemented by the OpenAI-compatible and YandexGPT backends.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
