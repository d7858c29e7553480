package pipeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEmbedder(t *testing.T) {
	t.Run("Missing base URL fails", func(t *testing.T) {
		_, err := RemoteEmbedder(RemoteEmbedderConfig{})
		assert.Error(t, err)
	})

	t.Run("Batch request returns one vector per text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req struct {
				Input []string `json:"input"`
				Model string   `json:"model"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Input, 2)

			resp := map[string]interface{}{
				"data": []map[string]interface{}{
					{"embedding": []float32{1, 0}},
					{"embedding": []float32{0, 1}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{BaseURL: server.URL, APIKey: "test-key"})
		require.NoError(t, err)

		embeddings, err := embed([]string{"first", "second"})
		require.NoError(t, err)
		require.Len(t, embeddings, 2)
		assert.Equal(t, []float32{1, 0}, embeddings[0])
		assert.Equal(t, []float32{0, 1}, embeddings[1])
	})

	t.Run("Empty batch skips the request", func(t *testing.T) {
		embed, err := RemoteEmbedder(RemoteEmbedderConfig{BaseURL: "http://unused.invalid"})
		require.NoError(t, err)

		embeddings, err := embed(nil)
		assert.NoError(t, err)
		assert.Empty(t, embeddings)
	})

	t.Run("Non-2xx status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = embed([]string{"text"})
		assert.Error(t, err)
	})

	t.Run("Vector count mismatch fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{{"embedding": []float32{1}}},
			})
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = embed([]string{"one", "two"})
		assert.Error(t, err)
	})
}
