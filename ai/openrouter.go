package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-oss-120b:free"

	// Sent so the service can attribute traffic to this app.
	referer  = "https://url-triage.local"
	appTitle = "URL Threat Triage"
)

// ErrEmptyResponse is returned when the service answers without any choice.
var ErrEmptyResponse = errors.New("empty response from reasoning service")

// Client talks to an OpenAI-compatible chat completions endpoint
// (OpenRouter by default).
type Client struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// ChatRequest is the chat completions request body.
type ChatRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Reasoning   *ReasoningConfig `json:"reasoning,omitempty"`
	Temperature float32          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
}

// ReasoningConfig turns on the model's reasoning trace.
type ReasoningConfig struct {
	Enabled bool `json:"enabled"`
}

// ChatResponse is the subset of the completions response we read.
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
	Error   *APIError    `json:"error,omitempty"`
}

type ChatChoice struct {
	Message Message `json:"message"`
}

type APIError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// NewClient returns a client for apiKey. Empty baseURL/model use the defaults.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		HTTPClient: &http.Client{},
	}
}

// Complete sends one chat completion request and returns the first
// choice's message. The context bounds the whole exchange.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (Message, error) {
	if req.Model == "" {
		req.Model = c.Model
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return Message{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return Message{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", referer)
	httpReq.Header.Set("X-Title", appTitle)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return Message{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Message{}, &StatusError{Status: resp.StatusCode, Body: truncate(string(body), 300)}
	}

	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Message{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if response.Error != nil {
		return Message{}, fmt.Errorf("reasoning service error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return Message{}, ErrEmptyResponse
	}

	return response.Choices[0].Message, nil
}
