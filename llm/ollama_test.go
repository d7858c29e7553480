package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Generate posts the prompt and returns the response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/generate", r.URL.Path)

			var req struct {
				Model  string `json:"model"`
				Prompt string `json:"prompt"`
				Stream bool   `json:"stream"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3.2", req.Model)
			assert.Equal(t, "What is a pointer?", req.Prompt)
			assert.False(t, req.Stream, "Expected streaming to be disabled")

			json.NewEncoder(w).Encode(map[string]string{"response": "A pointer stores an address."})
		}))
		defer server.Close()

		client := NewOllamaClient(OllamaConfig{BaseURL: server.URL})
		answer, err := client.Generate(ctx, "What is a pointer?")

		require.NoError(t, err)
		assert.Equal(t, "A pointer stores an address.", answer)
	})

	t.Run("Non-200 status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewOllamaClient(OllamaConfig{BaseURL: server.URL})
		_, err := client.Generate(ctx, "anything")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Unreachable server fails", func(t *testing.T) {
		client := NewOllamaClient(OllamaConfig{BaseURL: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond})
		_, err := client.Generate(ctx, "anything")
		assert.Error(t, err)
	})

	t.Run("Context cancellation aborts the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server notices the client disconnect;
			// with unread body bytes net/http defers the background read
			// that cancels r.Context(), and Close would deadlock.
			io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		}))
		defer server.Close()

		client := NewOllamaClient(OllamaConfig{BaseURL: server.URL})
		cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := client.Generate(cancelCtx, "anything")
		assert.Error(t, err)
	})

	t.Run("Defaults are applied", func(t *testing.T) {
		client := NewOllamaClient(OllamaConfig{})
		assert.Equal(t, DefaultOllamaModel, client.Model())
		assert.Equal(t, DefaultOllamaURL, client.baseURL)
	})
}
