package llm

import "context"

// Completer sends one prompt to a text-completion endpoint and returns the
// full completion text. Any returned error is a transport failure: the
// endpoint was unreachable or answered with a non-success status.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// GenerateRequest is the body sent to <endpoint>/api/generate.
type GenerateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`

	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions carries sampling parameters understood by Ollama.
type GenerateOptions struct {
	Temperature float32 `json:"temperature"`
}

// Chunk is one line of a streamed completion.
type Chunk struct {
	Response string `json:"response,omitempty"`
	Thinking string `json:"thinking,omitempty"`
	Done     bool   `json:"done,omitempty"`
}
