package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultOllamaURL is the address of a locally running Ollama server.
	DefaultOllamaURL = "http://localhost:11434"
	// DefaultOllamaModel is the model used when none is configured.
	DefaultOllamaModel = "llama3.2"
	// Local generation can be slow on CPU, so the default timeout is generous.
	defaultOllamaTimeout = 180 * time.Second
)

// OllamaClient generates completions via a local Ollama server.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaConfig configures the Ollama client. Zero values fall back to the
// package defaults.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaClient creates a new Ollama generation client.
func NewOllamaClient(config OllamaConfig) *OllamaClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultOllamaURL
	}
	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultOllamaTimeout
	}
	return &OllamaClient{
		baseURL: config.BaseURL,
		model:   config.Model,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// Model returns the name of the model used for generation.
func (c *OllamaClient) Model() string {
	return c.model
}

// Generate sends the prompt to the Ollama generate endpoint and returns the
// full completion. Streaming is disabled so the whole response arrives in a
// single JSON object.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generate response: %w", err)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}
	return out.Response, nil
}
