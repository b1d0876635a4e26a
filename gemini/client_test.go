package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), apiKey, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_GenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"summary\":"}, {"text": "\"s\"}"}]}}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
		}`))
	})

	text, err := c.GenerateContent(context.Background(), GenerateRequest{
		Model:            "gemini-2.5-flash",
		Prompt:           "hello",
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{"summary": {Type: genai.TypeString}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"summary":"s"}`, text)
	assert.True(t, strings.HasSuffix(gotPath, "models/gemini-2.5-flash:generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)

	contents := gotBody["contents"].([]any)
	part := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)
	assert.Equal(t, "hello", part["text"])

	genCfg := gotBody["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.Equal(t, "OBJECT", genCfg["responseSchema"].(map[string]any)["type"])
}

func TestClient_NoCandidates(t *testing.T) {
	c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	text, err := c.GenerateContent(context.Background(), GenerateRequest{Model: "m"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, "bad", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	})

	_, err := c.GenerateContent(context.Background(), GenerateRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "API key not valid")
}

func TestClient_MissingAPIKey(t *testing.T) {
	called := false
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.GenerateContent(context.Background(), GenerateRequest{Model: "m"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}

func TestClient_MissingModel(t *testing.T) {
	c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.GenerateContent(context.Background(), GenerateRequest{Prompt: "hi"})
	assert.Error(t, err)
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.GenerateContent(context.Background(), GenerateRequest{Model: "m"})
	assert.Error(t, err)
}
