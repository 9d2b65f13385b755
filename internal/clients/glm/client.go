// Package glm provides a minimal chat-completions client for the ZhipuAI
// GLM endpoint, which speaks the OpenAI-compatible wire format.
package glm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lhzhang/astock-advisor/internal/common"
	"github.com/lhzhang/astock-advisor/internal/interfaces"
)

const (
	// DefaultBaseURL is the ZhipuAI OpenAI-compatible endpoint
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"

	// DefaultModel is the free-tier flash model
	DefaultModel = "glm-4-flash"

	// DefaultTemperature keeps advisory output near-deterministic
	DefaultTemperature = 0.1

	// DefaultTimeout bounds a single completion round-trip
	DefaultTimeout = 120 * time.Second
)

// APIError represents an error returned by the GLM API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("glm api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the GLM chat-completions endpoint
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *common.Logger
}

// ClientOption configures the GLM client
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint (used in tests)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithModel selects the completion model
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature
func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a GLM client. The API key is required for live calls;
// an empty key fails fast on GenerateAdvice rather than at construction.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		logger:      common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GenerateAdvice sends the prompt as a single user message and returns the
// model's reply text.
func (c *Client) GenerateAdvice(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("glm api key not configured")
	}

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	reqURL := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_len", len(prompt)).
		Msg("Requesting advisory completion")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("glm request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read glm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(raw),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("failed to decode glm response: %w", err)
	}

	if cr.Error != nil {
		return "", fmt.Errorf("glm api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("glm response contained no choices")
	}

	return cr.Choices[0].Message.Content, nil
}

var _ interfaces.AdvisoryClient = (*Client)(nil)
