package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var ErrMissingAPIKey = errors.New("gemini API key is not configured")

// GenerateRequest is the client-level view of a generateContent call.
type GenerateRequest struct {
	Model            string
	Prompt           string
	ResponseMIMEType string
	ResponseSchema   *genai.Schema
}

// ClientOption configures the client.
type ClientOption func(*genai.ClientConfig)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(cfg *genai.ClientConfig) {
		if baseURL != "" {
			cfg.HTTPOptions.BaseURL = strings.TrimSuffix(baseURL, "/") + "/"
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(cfg *genai.ClientConfig) {
		if httpClient != nil {
			cfg.HTTPClient = httpClient
		}
	}
}

// Client wraps the Gen AI SDK for the Gemini Developer API. A client built
// without an API key fails every call with ErrMissingAPIKey.
type Client struct {
	models *genai.Models
}

func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return &Client{}, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{models: client.Models}, nil
}

// GenerateContent issues one generateContent call and returns the text of the
// first candidate, which is empty when the model produced none.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	if c.models == nil {
		return "", ErrMissingAPIKey
	}
	if req.Model == "" {
		return "", fmt.Errorf("model is required")
	}

	var config *genai.GenerateContentConfig
	if req.ResponseMIMEType != "" || req.ResponseSchema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
	}

	resp, err := c.models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
