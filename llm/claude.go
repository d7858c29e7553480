package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is the Anthropic model used when none is configured.
const DefaultClaudeModel = "claude-sonnet-4-20250514"

// ClaudeClient generates completions via the Anthropic API.
type ClaudeClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// ClaudeConfig configures the Anthropic client. The API key falls back to
// the ANTHROPIC_API_KEY environment variable.
type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// NewClaudeClient creates a new Anthropic generation client.
func NewClaudeClient(config ClaudeConfig) (*ClaudeClient, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("missing Anthropic API key")
	}
	if config.Model == "" {
		config.Model = DefaultClaudeModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 2048
	}

	return &ClaudeClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     config.Model,
		maxTokens: config.MaxTokens,
	}, nil
}

// Model returns the name of the model used for generation.
func (c *ClaudeClient) Model() string {
	return c.model
}

// Generate sends the prompt as a single user message and returns the
// concatenated text blocks of the response.
func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated")
	}
	return response.String(), nil
}
