package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentvet/internal/config"
	"talentvet/internal/parser"
	"talentvet/internal/port"
)

func newTestExtractor(endpoint string) *Extractor {
	return NewExtractorWithEndpoint(&config.ParserProviderConfig{
		APIKey:       "test-key",
		DefaultModel: "gpt-4o-mini",
	}, endpoint)
}

func chatBody(content, finishReason string, promptTokens, completionTokens int) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": finishReason,
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestExtract_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.Contains(t, req, "messages")
		assert.Contains(t, req, "response_format")

		_, _ = w.Write([]byte(chatBody(`{"name": "Jane Doe", "phone": "+1 555 123 4567"}`, "stop", 900, 210)))
	}))
	defer srv.Close()

	out, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "Jane Doe"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Jane Doe", out.Candidate.Name)
	assert.Equal(t, "gpt-4o-mini", out.ModelUsed)
	assert.Equal(t, 900, out.InputTokens)
	assert.Equal(t, 210, out.OutputTokens)
}

func TestExtract_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)

	var rl *parser.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "openai", rl.Provider)
	// No Retry-After header, so the default backoff applies.
	assert.Equal(t, 60*time.Second, rl.RetryAfter)
}

func TestExtract_TruncatedOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatBody(`{"name": "Jane`, "length", 900, 16384)))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish_reason: length")
}

func TestExtract_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
