// Package advisor calls an OpenAI-compatible chat completion API (DeepSeek by
// default) for a packaging engineer's commentary on a plan.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("advisor API key not configured")
	// ErrEmptyResponse is returned when the API answers without a message.
	ErrEmptyResponse = errors.New("advisor returned no message")
)

// APIError is a non-2xx answer from the advisory API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("advisor API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("advisor API error: status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is on the provider side.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsFailure decides which errors count against the advisor circuit breaker.
// Client-side rejections (bad key, bad request) do not indicate an outage.
func IsFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrNotConfigured) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}

// Config holds the client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// RateLimit is the sustained requests per second; Burst the bucket size.
	RateLimit float64
	Burst     int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithCircuitBreaker guards outbound calls with cb.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(cl *Client) {
		cl.breaker = cb
	}
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient creates an advisory client. Non-positive rate settings default to 1.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// CircuitBreaker returns the breaker guarding the client, if any.
func (c *Client) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// analysisPayload accepts a fractional or string score from the model.
type analysisPayload struct {
	Recommendation     string      `json:"recommendation"`
	MaterialSuggestion string      `json:"materialSuggestion"`
	EfficiencyScore    json.Number `json:"efficiencyScore"`
	Reasoning          []string    `json:"reasoning"`
}

// Analyze asks the API for commentary on a plan.
func (c *Client) Analyze(ctx context.Context, in Input) (model.Analysis, error) {
	if !c.Enabled() {
		return model.Analysis{}, ErrNotConfigured
	}
	if c.breaker == nil {
		return c.analyze(ctx, in)
	}

	var analysis model.Analysis
	err := c.breaker.Execute(ctx, func() error {
		var callErr error
		analysis, callErr = c.analyze(ctx, in)
		return callErr
	})
	return analysis, err
}

func (c *Client) analyze(ctx context.Context, in Input) (model.Analysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Analysis{}, fmt.Errorf("advisor rate limit: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(in)},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.3,
	})
	if err != nil {
		return model.Analysis{}, err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return model.Analysis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Analysis{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorPayload
		if json.Unmarshal(raw, &payload) == nil && payload.Error.Message != "" {
			apiErr.Message = payload.Error.Message
		}
		log.Warn().Int("status", resp.StatusCode).Str("model", c.cfg.Model).Msg("Advisor request rejected")
		return model.Analysis{}, apiErr
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return model.Analysis{}, fmt.Errorf("decode advisor response: %w", err)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return model.Analysis{}, ErrEmptyResponse
	}

	return parseAnalysis(chat.Choices[0].Message.Content)
}

func parseAnalysis(content string) (model.Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload analysisPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return model.Analysis{}, fmt.Errorf("parse advisor analysis: %w", err)
	}

	score, _ := payload.EfficiencyScore.Float64()
	return model.Analysis{
		Recommendation:     payload.Recommendation,
		MaterialSuggestion: payload.MaterialSuggestion,
		EfficiencyScore:    clampScore(score),
		Reasoning:          payload.Reasoning,
	}, nil
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}
