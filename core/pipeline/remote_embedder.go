package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteEmbedderConfig configures an OpenAI-compatible embeddings endpoint.
type RemoteEmbedderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// RemoteEmbedder creates an embedder backed by an OpenAI-compatible
// embeddings API. It can be used instead of the local model when the
// application runs against a hosted embedding service.
func RemoteEmbedder(config RemoteEmbedderConfig) (EmbedFunc, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL must not be empty")
	}
	if config.Model == "" {
		config.Model = "text-embedding-3-small"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: config.Timeout}
	url := fmt.Sprintf("%s/embeddings", config.BaseURL)

	return func(texts []string) ([][]float32, error) {
		if len(texts) == 0 {
			return [][]float32{}, nil
		}

		body, err := json.Marshal(map[string]interface{}{
			"input": texts,
			"model": config.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal embeddings request: %w", err)
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+config.APIKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embeddings request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read embeddings response: %w", err)
		}

		var out struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
		}
		if len(out.Data) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(out.Data))
		}

		embeddings := make([][]float32, len(out.Data))
		for i, item := range out.Data {
			embeddings[i] = item.Embedding
		}
		return embeddings, nil
	}, nil
}
