// CLAUDE:SUMMARY Vision API client — image/chart description over the Anthropic messages endpoint with retry.
// Package vision describes document images through the Anthropic vision
// API. Analysis is always best-effort: calls report failure inside the
// Result instead of returning an error, so parsing pipelines degrade to
// plain extraction when the API is unreachable or unconfigured.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultModel   = "claude-sonnet-4-20250514"
	defaultBaseURL = "https://api.anthropic.com"
	defaultTimeout = 60 * time.Second

	apiVersion        = "2023-06-01"
	maxResponseTokens = 1024
)

const defaultPrompt = `Analyze this image and provide a detailed description. Include:
1. What type of image this is (photo, chart, diagram, etc.)
2. The main content and key elements
3. Any text visible in the image
4. If it's a chart/graph: the type, data trends, and key insights
5. If it's a diagram: the structure and relationships shown

Provide a clear, concise description suitable for accessibility purposes.`

const accessibilityPrompt = `Provide a concise accessibility description for this image suitable for alt-text.
Keep it under 150 words, focus on the most important visual information.`

// Config holds vision client settings.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Client calls the vision API. The zero-value-APIKey client is valid
// and reports itself unavailable.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// New builds a vision client from cfg.
func New(cfg Config, log *slog.Logger) *Client {
	cfg.defaults()
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool { return c.cfg.APIKey != "" }

// Result is the outcome of one analysis call.
type Result struct {
	Success      bool   `json:"success"`
	Description  string `json:"description,omitempty"`
	Error        string `json:"error,omitempty"`
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

func failure(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// AnalyzeImage describes one image. An empty prompt selects the general
// analysis prompt. Oversized payloads are recompressed before upload.
func (c *Client) AnalyzeImage(ctx context.Context, data []byte, contentType, prompt string) Result {
	if !c.Available() {
		return failure("vision service not configured (missing API key)")
	}
	if len(data) == 0 {
		return failure("no image data")
	}
	if prompt == "" {
		prompt = defaultPrompt
	}

	data, contentType = compressIfNeeded(data, contentType, c.log)

	resp, err := c.call(ctx, data, contentType, prompt)
	if err != nil {
		c.log.Error("vision call failed", "error", err)
		return failure("%v", err)
	}
	return resp
}

// AnalyzeChart runs a chart-focused analysis. chartType, when known,
// sharpens the prompt.
func (c *Client) AnalyzeChart(ctx context.Context, data []byte, contentType, chartType string) Result {
	kind := chartType
	if kind == "" {
		kind = "chart"
	}
	prompt := fmt.Sprintf(`Analyze this %s and provide:

1. **Chart Type**: What kind of visualization is this?
2. **Title/Labels**: What is the chart titled? What are the axis labels?
3. **Data Summary**: Summarize the key data points or values shown
4. **Trends**: What trends or patterns are visible?
5. **Key Insights**: What are the main takeaways from this chart?

Be specific about any numbers, percentages, or values you can discern.`, kind)
	return c.AnalyzeImage(ctx, data, contentType, prompt)
}

// DescribeForAccessibility returns a short alt-text description, with a
// fixed placeholder when analysis fails.
func (c *Client) DescribeForAccessibility(ctx context.Context, data []byte, contentType string) string {
	res := c.AnalyzeImage(ctx, data, contentType, accessibilityPrompt)
	if res.Success && res.Description != "" {
		return res.Description
	}
	return "Image (description unavailable)"
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// call performs the HTTP exchange with one retry on transient failures.
func (c *Client) call(ctx context.Context, data []byte, contentType, prompt string) (Result, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxResponseTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{
					Type:      "base64",
					MediaType: contentType,
					Data:      base64.StdEncoding.EncodeToString(data),
				}},
				{Type: "text", Text: prompt},
			},
		}},
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}

		res, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Warn("vision call retrying", "attempt", attempt+1, "error", err)
	}
	return Result{}, lastErr
}

func (c *Client) doRequest(ctx context.Context, body []byte) (Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return Result{}, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, true, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		var apiErr messagesResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != nil {
			return Result{}, retryable, fmt.Errorf("vision API %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return Result{}, retryable, fmt.Errorf("vision API status %d", resp.StatusCode)
	}

	var mr messagesResponse
	if err := json.Unmarshal(raw, &mr); err != nil {
		return Result{}, false, fmt.Errorf("decode response: %w", err)
	}
	var description string
	if len(mr.Content) > 0 {
		description = mr.Content[0].Text
	}
	return Result{
		Success:      true,
		Description:  description,
		Model:        c.cfg.Model,
		InputTokens:  mr.Usage.InputTokens,
		OutputTokens: mr.Usage.OutputTokens,
	}, false, nil
}
