package llm

import "context"

// Generator produces a text completion for a prompt. Implementations wrap a
// concrete model backend such as a local Ollama server or the Anthropic API.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateFunc adapts a plain function to the Generator interface.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

func (f GenerateFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
