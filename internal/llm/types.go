package llm

import (
	"fmt"

	"ml-course-assistant/backend/internal/models"
)

// ErrorType classifies an upstream API failure.
type ErrorType string

const (
	ErrorNetwork    ErrorType = "network"
	ErrorTimeout    ErrorType = "timeout"
	ErrorAuth       ErrorType = "auth"
	ErrorRateLimit  ErrorType = "rate_limit"
	ErrorServer     ErrorType = "server"
	ErrorValidation ErrorType = "validation"
	ErrorConfig     ErrorType = "config"
	ErrorUnknown    ErrorType = "unknown"
)

// userMessages maps each error type to its fixed user-facing message.
var userMessages = map[ErrorType]string{
	ErrorNetwork:    "Unable to reach the AI service. Please check your connection and try again.",
	ErrorTimeout:    "The AI service took too long to respond. Please try again.",
	ErrorAuth:       "The AI service rejected our credentials. Please contact support.",
	ErrorRateLimit:  "Too many requests right now. Please wait a moment and try again.",
	ErrorServer:     "The AI service is having trouble. Please try again shortly.",
	ErrorValidation: "Your message could not be processed. Please rephrase and try again.",
	ErrorConfig:     "The AI service is not configured. Please contact support.",
	ErrorUnknown:    "Sorry, something went wrong processing your request. Please try again.",
}

// Error is a classified upstream failure. ResponseTimeMs covers the elapsed
// time until the failure was detected.
type Error struct {
	Type           ErrorType
	Detail         string
	ResponseTimeMs int64
	cause          error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("llm %s error: %s", e.Type, e.Detail)
	}
	return fmt.Sprintf("llm %s error", e.Type)
}

// Unwrap returns the underlying transport or decoding error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// UserMessage returns the fixed user-facing message for the error's type.
func (e *Error) UserMessage() string {
	if msg, ok := userMessages[e.Type]; ok {
		return msg
	}
	return userMessages[ErrorUnknown]
}

// Result is a successful completion payload.
type Result struct {
	Message        string
	Model          string
	Tokens         models.TokenUsage
	ResponseTimeMs int64
}

// Wire format of the chat completions request and response.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
