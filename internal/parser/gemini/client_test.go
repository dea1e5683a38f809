package gemini

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
	"talentvet/internal/domain"
	"talentvet/internal/parser"
	"talentvet/internal/port"
)

func newTestExtractor(endpoint string) *Extractor {
	return NewExtractorWithEndpoint(&config.ParserProviderConfig{
		APIKey:       "test-key",
		DefaultModel: "gemini-2.0-flash",
	}, endpoint)
}

func geminiBody(text string, promptTokens, outputTokens int) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
		"usageMetadata": map[string]int{
			"promptTokenCount":     promptTokens,
			"candidatesTokenCount": outputTokens,
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestExtract_Success(t *testing.T) {
	var gotKey, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotContentType = r.Header.Get("Content-Type")

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contents")
		assert.Contains(t, req, "generationConfig")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiBody(`{"name": "Jane Doe", "email": "jane@acme.com"}`, 1200, 340)))
	}))
	defer srv.Close()

	e := newTestExtractor(srv.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{Text: "Jane Doe\njane@acme.com"})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Jane Doe", out.Candidate.Name)
	assert.Equal(t, "jane@acme.com", out.Candidate.Email)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	assert.Equal(t, 1200, out.InputTokens)
	assert.Equal(t, 340, out.OutputTokens)
}

func TestExtract_FencedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geminiBody("```json\n{\"name\": \"Jane Doe\"}\n```", 10, 5)))
	}))
	defer srv.Close()

	out, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Candidate.Name)
}

func TestExtract_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)

	var rl *parser.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "gemini", rl.Provider)
	assert.Equal(t, 17*time.Second, rl.RetryAfter)
}

func TestExtract_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "backend overloaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtract_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestExtract_InvalidCandidateJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(geminiBody("this resume could not be parsed", 10, 5)))
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).Extract(context.Background(), port.ExtractInput{Text: "resume"})
	assert.ErrorIs(t, err, domain.ErrExtractionParse)
}

func TestProvider(t *testing.T) {
	assert.Equal(t, domain.ProviderGemini, newTestExtractor("http://unused").Provider())
}
