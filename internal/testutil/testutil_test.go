package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir, "http://127.0.0.1:9999")

	assert.Equal(t, filepath.Join(tmpDir, "config.yml"), got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "provider: ollama")
	assert.Contains(t, string(content), "base_url: http://127.0.0.1:9999")
	assert.Contains(t, string(content), filepath.Join(tmpDir, "attempts.yml"))
}

func TestSetupTestConfigWithAPIKey(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfigWithAPIKey(t, tmpDir)

	content, err := os.ReadFile(got)
	require.NoError(t, err)

	contentStr := string(content)
	assert.Contains(t, contentStr, "openai:")
	assert.Contains(t, contentStr, "api_key: fake-key-for-testing")
	assert.Contains(t, contentStr, "model: gpt-4o-mini")
	assert.Contains(t, contentStr, "exercises:")
}

func TestNewCompletionServer(t *testing.T) {
	server := NewCompletionServer(t, "Feedback: fine")

	resp, err := http.Post(server.URL+"/api/chat", "application/json", strings.NewReader(`{"model":"m"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"content":"Feedback: fine"`)
	assert.Equal(t, 1, server.Requests())
	assert.Equal(t, map[string]any{"model": "m"}, server.LastRequest())
}
