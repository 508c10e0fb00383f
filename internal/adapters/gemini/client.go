// Package gemini adapts the Google Gemini API to the generation interface
// the capability use cases depend on.
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// DefaultModel is the fixed generation model identifier.
const DefaultModel = "gemini-2.5-flash"

// Env variable names for the credential. The private key is preferred for
// the server-invoked rewrite capability; the public key serves the rest.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvPublicAPIKey = "PUBLIC_GEMINI_API_KEY"
)

// ServerAPIKey resolves the credential for server-invoked capabilities:
// the private variable first, then the public one.
func ServerAPIKey() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvPublicAPIKey)
}

// PublicAPIKey resolves the credential for the façade capabilities:
// the public variable first, then the private one.
func PublicAPIKey() string {
	if key := os.Getenv(EnvPublicAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvAPIKey)
}

// Client invokes the Gemini generation endpoint with a fixed model in
// non-streaming mode. One outbound call per invocation, no retries.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. The key must be non-empty; callers
// that tolerate a missing credential use a nil/disabled generator instead.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: empty api key")
	}
	if model == "" {
		model = DefaultModel
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Client{client: gc, model: model}, nil
}

// Enabled reports whether the client can reach the endpoint.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Generate sends one prompt and returns the raw text response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

// GenerateJSON sends one prompt requesting a JSON-formatted response.
// The raw text is still returned verbatim; decoding is the caller's job.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	return c.generate(ctx, prompt, cfg)
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}
