package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/promptdesk/server/internal/sessions"
)

func TestBuildPrompt_Generate(t *testing.T) {
	prompt := BuildPrompt(sessions.KindGenerate, "write a haiku about rivers")

	assert.Equal(t, "write a haiku about rivers", prompt)
}

func TestBuildPrompt_Debug(t *testing.T) {
	prompt := BuildPrompt(sessions.KindDebug, "func main() { fmt.Println(x) }")

	assert.Equal(t, "Debug this code and explain the issues: func main() { fmt.Println(x) }", prompt)
}

func TestBuildPrompt_Suggest(t *testing.T) {
	prompt := BuildPrompt(sessions.KindSuggest, "a CLI for tracking plants")

	assert.True(t, strings.HasPrefix(prompt, "I have a coding idea and I need suggestions for implementation. Here's my idea: a CLI for tracking plants"))
	assert.Contains(t, prompt, "1. Technical approach suggestions")
	assert.Contains(t, prompt, "4. Technology stack recommendations")
}

func TestNewCompleterWithConfig(t *testing.T) {
	gemini, err := NewCompleterWithConfig(&Config{Provider: ProviderGemini, APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, gemini.Model())

	anthropic, err := NewCompleterWithConfig(&Config{Provider: ProviderAnthropic, APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, defaultAnthropicModel, anthropic.Model())

	_, err = NewCompleterWithConfig(&Config{Provider: "openai", APIKey: "test-key"})
	assert.Error(t, err)

	_, err = NewCompleterWithConfig(nil)
	assert.Error(t, err)
}

func TestGeminiComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-1.5-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		resp := geminiResponse{}
		resp.Candidates = []struct {
			Content      geminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		}{
			{Content: geminiContent{Parts: []geminiPart{{Text: "  hi there  "}}}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	defer server.Close()

	completer := NewGeminiCompleter(Config{APIKey: "test-key"})
	completer.baseURL = server.URL
	completer.httpClient = server.Client()

	text, err := completer.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestGeminiComplete_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`)) //nolint:errcheck
	}))
	defer server.Close()

	completer := NewGeminiCompleter(Config{APIKey: "test-key"})
	completer.baseURL = server.URL
	completer.httpClient = server.Client()

	_, err := completer.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGeminiComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`)) //nolint:errcheck
	}))
	defer server.Close()

	completer := NewGeminiCompleter(Config{APIKey: "test-key"})
	completer.baseURL = server.URL
	completer.httpClient = server.Client()

	_, err := completer.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestAnthropicComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "hi from claude"}]}`)) //nolint:errcheck
	}))
	defer server.Close()

	completer := NewAnthropicCompleter(Config{APIKey: "test-key"})
	completer.baseURL = server.URL
	completer.httpClient = server.Client()

	text, err := completer.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi from claude", text)
}

func TestAnthropicComplete_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": []}`)) //nolint:errcheck
	}))
	defer server.Close()

	completer := NewAnthropicCompleter(Config{APIKey: "test-key"})
	completer.baseURL = server.URL
	completer.httpClient = server.Client()

	_, err := completer.Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoContent)
}
