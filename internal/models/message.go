package models

import (
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// TokenUsage holds the token counts reported by the LLM API for one completion.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// Message represents a single chat turn. A message belongs to exactly one
// conversation and is immutable once created.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversationId"`
	Sender         Sender        `json:"sender"`
	Content        string        `json:"content"`
	Timestamp      time.Time     `json:"timestamp"`
	Tokens         *TokenUsage   `json:"tokens,omitempty"`
	ResponseTimeMs int64         `json:"responseTimeMs,omitempty"`
	Quality        *QualityScore `json:"quality,omitempty"`
}
