// Package testutil provides shared test helpers for config files and a fake completion server.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a config file that reviews with the Ollama provider at ollamaURL
// and journals attempts to attempts.yml in tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir, ollamaURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`inference:
  provider: ollama
  max_retry_attempts: 0
  timeout: 5s
ollama:
  base_url: %s
  model: test-model
exercises:
  - Describe your last vacation.
  - What did you eat today?
journal:
  driver: yaml
  yaml_file: %s
`,
		ollamaURL,
		filepath.Join(tmpDir, "attempts.yml"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file selecting OpenAI with a fake API key
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir, "http://localhost:11434")

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// CompletionServer is a fake Ollama chat endpoint replying with a fixed message
type CompletionServer struct {
	*httptest.Server
	requests atomic.Int32

	mu          sync.Mutex
	lastRequest map[string]any
}

// NewCompletionServer starts a server that answers every /api/chat request with reply
func NewCompletionServer(t *testing.T, reply string) *CompletionServer {
	t.Helper()
	server := &CompletionServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.requests.Add(1)
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		server.mu.Lock()
		server.lastRequest = body
		server.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":       "test-model",
			"message":     map[string]string{"role": "assistant", "content": reply},
			"done":        true,
			"done_reason": "stop",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

// Requests returns how many requests the server received
func (s *CompletionServer) Requests() int {
	return int(s.requests.Load())
}

// LastRequest returns the decoded body of the latest /api/chat request
func (s *CompletionServer) LastRequest() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest
}
