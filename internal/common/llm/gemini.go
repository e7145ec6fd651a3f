package llm

import (
	"context"
	"fmt"
	"time"

	"credit-risk-workers/internal/common/metrics"

	"google.golang.org/genai"
)

const ProviderGemini = "gemini"

// GeminiClient calls the Gemini API through google.golang.org/genai.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client. baseURL is optional and only used to point at a proxy or
// a test server.
func NewGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Provider() string { return ProviderGemini }

// Complete sends one GenerateContent call. There is no retry.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), genCfg)
	if err != nil {
		metrics.LLMRequestDuration.WithLabelValues(ProviderGemini, "error").Observe(time.Since(start).Seconds())
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	metrics.LLMRequestDuration.WithLabelValues(ProviderGemini, "ok").Observe(time.Since(start).Seconds())

	if len(resp.Candidates) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Text(), nil
}
