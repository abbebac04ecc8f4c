package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/inference"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-2.0-flash", "", 0)
	assert.EqualError(t, err, "gemini API key is required")
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		generationConfig, ok := body["generationConfig"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, 0, generationConfig["temperature"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Marked Incorrect Words: "}, {"text": "{goed}"}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-2.0-flash", server.URL, 0)
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), inference.CompletionRequest{Prompt: "review"})
	require.NoError(t, err)
	assert.Equal(t, inference.CompletionResponse{
		Model: "gemini-2.0-flash",
		Choices: []inference.Choice{
			{Content: "Marked Incorrect Words: {goed}", FinishReason: "STOP"},
		},
	}, got)
}

func TestClient_Complete_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), "test-key", "gemini-2.0-flash", server.URL, 0)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), inference.CompletionRequest{Prompt: "review"})
	require.Error(t, err)
	var statusErr *inference.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
}
