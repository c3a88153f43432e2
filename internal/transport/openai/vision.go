// Package openai is the vision provider transport, using the
// OpenAI-compatible chat completions API with multimodal input.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matcher/internal/domain"
	"github.com/kailas-cloud/matcher/internal/metrics"
)

// visionPrompt instructs the model to return strict JSON with the fields
// the query embedder consumes. Kept close to plain language on purpose:
// the parser downstream tolerates fences and surrounding prose anyway.
const visionPrompt = "You are an expert visual merchandiser. Analyze the image and return STRICT JSON only with keys: " +
	"summary (2-3 sentences), category (single word or short phrase), colors (array of simple color names), " +
	"materials (array), style (array), objects (array), suggested_tags (array of 5-12 short tags). " +
	"No markdown, no extra text - JSON only."

// Client calls a vision model through an OpenAI-compatible API.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the vision provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates an OpenAI-compatible vision provider client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Describe sends the JPEG image to the model with the strict-JSON
// instruction and returns the raw response text. The call is bounded by the
// configured timeout; the caller decides what to do with an error.
func (c *Client) Describe(ctx context.Context, imageJPEG []byte) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageJPEG)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.VisionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.VisionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("empty vision response: %w", domain.ErrVisionProvider)
	}

	metrics.VisionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.VisionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	c.logger.Debug("Vision request completed",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	if resp.Usage.TotalTokens > 0 {
		metrics.VisionTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.VisionTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.VisionTokensTotal.WithLabelValues(c.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrVisionProvider so the analyzer can
// recognize a provider failure without importing this package.
func parseAPIError(err error) error {
	wrap := domain.ErrVisionProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("vision API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("vision API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("vision API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("vision request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
