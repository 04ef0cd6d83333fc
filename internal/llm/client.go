// Package llm calls a Groq-compatible chat-completions API and classifies
// every failure into a fixed taxonomy with user-facing messages. The rest of
// the application never sees raw transport errors.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"ml-course-assistant/backend/internal/models"
	"ml-course-assistant/backend/pkg/logger"
	"ml-course-assistant/backend/pkg/resilience"
)

// Config holds the client settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client is a thin chat-completions client. A circuit breaker guards the
// upstream: consecutive network, timeout, or server failures short-circuit
// further calls until the retry window elapses.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *resilience.Breaker
	log        *logger.Logger
}

// NewClient creates a client. A missing API key is not an error here: it is
// reported as a config-class failure on the first call, so the server can
// still boot and report health.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    resilience.NewBreaker(resilience.DefaultBreakerConfig(), log),
		log:        log,
	}
}

// BreakerState reports the upstream circuit breaker's current position.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Complete sends one system+user message pair and returns the assistant
// response. On failure the returned error is always a *Error carrying the
// classified type, a fixed user message, and the elapsed time.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(userMessage) == "" {
		return nil, &Error{Type: ErrorValidation, Detail: "message is empty", ResponseTimeMs: elapsed(start)}
	}
	if c.cfg.APIKey == "" {
		return nil, &Error{Type: ErrorConfig, Detail: "API key not set", ResponseTimeMs: elapsed(start)}
	}
	if !c.breaker.Allow() {
		return nil, &Error{Type: ErrorServer, Detail: "upstream circuit open", ResponseTimeMs: elapsed(start)}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, &Error{Type: ErrorUnknown, Detail: err.Error(), ResponseTimeMs: elapsed(start), cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Type: ErrorUnknown, Detail: err.Error(), ResponseTimeMs: elapsed(start), cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		e := c.classifyTransport(err, start)
		c.noteOutcome(e.Type)
		return nil, e
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &Error{Type: ErrorNetwork, Detail: err.Error(), ResponseTimeMs: elapsed(start), cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		e := c.classifyStatus(resp.StatusCode, respBody, start)
		c.noteOutcome(e.Type)
		return nil, e
	}
	c.breaker.RecordSuccess()

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Type: ErrorUnknown, Detail: "malformed response: " + err.Error(), ResponseTimeMs: elapsed(start), cause: err}
	}
	if parsed.Error != nil {
		return nil, &Error{Type: ErrorServer, Detail: parsed.Error.Message, ResponseTimeMs: elapsed(start)}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Type: ErrorUnknown, Detail: "response contained no choices", ResponseTimeMs: elapsed(start)}
	}

	result := &Result{
		Message: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
		Tokens: models.TokenUsage{
			Prompt:     parsed.Usage.PromptTokens,
			Completion: parsed.Usage.CompletionTokens,
			Total:      parsed.Usage.TotalTokens,
		},
		ResponseTimeMs: elapsed(start),
	}

	c.log.Info("completion received",
		"model", result.Model,
		"total_tokens", result.Tokens.Total,
		"response_time_ms", result.ResponseTimeMs,
	)
	return result, nil
}

func (c *Client) classifyTransport(err error, start time.Time) *Error {
	e := &Error{Detail: err.Error(), ResponseTimeMs: elapsed(start), cause: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.Type = ErrorTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		e.Type = ErrorTimeout
	default:
		e.Type = ErrorNetwork
	}

	c.log.Warn("upstream call failed", "error_type", string(e.Type), "error", err.Error())
	return e
}

func (c *Client) classifyStatus(status int, body []byte, start time.Time) *Error {
	e := &Error{ResponseTimeMs: elapsed(start)}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Type = ErrorAuth
	case status == http.StatusTooManyRequests:
		e.Type = ErrorRateLimit
	case status >= 500:
		e.Type = ErrorServer
	case status == http.StatusBadRequest:
		e.Type = ErrorValidation
	default:
		e.Type = ErrorUnknown
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		e.Detail = parsed.Error.Message
	} else {
		e.Detail = http.StatusText(status)
	}

	c.log.Warn("upstream returned error status",
		"status", status,
		"error_type", string(e.Type),
		"detail", e.Detail,
	)
	return e
}

// noteOutcome feeds the breaker. Only failure classes that indicate an
// unhealthy upstream count against it; a 4xx means the upstream is alive.
func (c *Client) noteOutcome(errType ErrorType) {
	switch errType {
	case ErrorNetwork, ErrorTimeout, ErrorServer:
		c.breaker.RecordFailure()
	default:
		c.breaker.RecordSuccess()
	}
}

func elapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
