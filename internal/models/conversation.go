package models

import (
	"time"
)

// Conversation is a titled, timestamped thread of messages owned by one user
// for one course/module context.
type Conversation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	CourseCode   string    `json:"courseCode"`
	ModuleName   string    `json:"moduleName"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

// ConversationStats summarizes a conversation's messages and token spend.
// Averages are rounded to the nearest integer and zero when there are no
// assistant messages.
type ConversationStats struct {
	TotalMessages            int   `json:"totalMessages"`
	UserMessages             int   `json:"userMessages"`
	AssistantMessages        int   `json:"assistantMessages"`
	TotalTokens              int   `json:"totalTokens"`
	TotalResponseTimeMs      int64 `json:"totalResponseTimeMs"`
	AverageTokensPerResponse int   `json:"averageTokensPerResponse"`
	AverageResponseTimeMs    int64 `json:"averageResponseTimeMs"`
}

// ConversationExport is the structured export view of a conversation.
type ConversationExport struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
	ExportedAt   time.Time    `json:"exportedAt"`
}

// SearchResult groups keyword matches found inside one conversation.
type SearchResult struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title"`
	MatchCount     int       `json:"matchCount"`
	Messages       []Message `json:"messages"`
}
