package service

import (
	"context"
	"errors"
	"time"

	"ml-course-assistant/backend/internal/conversation"
	"ml-course-assistant/backend/internal/llm"
	"ml-course-assistant/backend/internal/models"
	"ml-course-assistant/backend/internal/prompts"
	"ml-course-assistant/backend/internal/quality"
	"ml-course-assistant/backend/internal/usage"
	"ml-course-assistant/backend/pkg/logger"
	"ml-course-assistant/backend/pkg/metrics"
)

// Completer is the LLM call the chat service depends on. Satisfied by
// *llm.Client; tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (*llm.Result, error)
}

// ChatService ties one chat turn together: resolve the module prompt, call the
// LLM, score the response, record both messages, and update usage statistics.
type ChatService struct {
	registry *prompts.Registry
	store    *conversation.Store
	llm      Completer
	usage    *usage.Tracker
	metrics  *metrics.Metrics
	log      *logger.Logger
}

// NewChatService creates a chat service. metrics may be nil (tests).
func NewChatService(
	registry *prompts.Registry,
	store *conversation.Store,
	completer Completer,
	tracker *usage.Tracker,
	m *metrics.Metrics,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		registry: registry,
		store:    store,
		llm:      completer,
		usage:    tracker,
		metrics:  m,
		log:      log,
	}
}

// ChatRequest is one student turn.
type ChatRequest struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	CourseCode     string `json:"courseCode"`
	ModuleKey      string `json:"module"`
	StudentContext string `json:"context"`
}

// ChatResponse mirrors the chat API payload. On upstream failure Success is
// false and Error carries the fixed user-facing message; the user message is
// still recorded but nothing is scored.
type ChatResponse struct {
	Success          bool                 `json:"success"`
	ConversationID   string               `json:"conversationId"`
	Message          string               `json:"message"`
	Model            string               `json:"model,omitempty"`
	Tokens           *models.TokenUsage   `json:"tokens,omitempty"`
	ResponseTimeMs   int64                `json:"responseTimeMs"`
	Quality          *models.QualityScore `json:"quality,omitempty"`
	Feedback         []string             `json:"feedback,omitempty"`
	FollowUpQuestion string               `json:"followUpQuestion,omitempty"`
	Stats            usage.Snapshot       `json:"stats"`
	Error            string               `json:"error,omitempty"`
	ErrorType        string               `json:"errorType,omitempty"`
	Timestamp        time.Time            `json:"timestamp"`
}

// Send processes one chat turn. A missing conversation id creates a new
// conversation owned by the requesting user. Upstream failures bypass scoring
// entirely and are reported with their classified type.
func (s *ChatService) Send(ctx context.Context, req ChatRequest) *ChatResponse {
	log := s.log.WithUserID(req.UserID)

	moduleName := prompts.DefaultKey
	if req.ModuleKey != "" {
		moduleName = s.registry.Resolve(req.ModuleKey).Key
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = s.store.Create(req.UserID, req.CourseCode, moduleName)
	}
	log = log.WithConversationID(conversationID)

	s.store.Append(conversationID, req.Message, models.SenderUser, nil)

	systemPrompt := s.registry.BuildSystemPrompt(req.CourseCode, req.ModuleKey, req.StudentContext)

	result, err := s.llm.Complete(ctx, systemPrompt, req.Message)
	if err != nil {
		return s.failure(log, conversationID, err)
	}

	score := quality.Score(result.Message)
	feedback := quality.Feedback(score)
	followUp, _ := s.registry.PickFollowUpQuestion(req.ModuleKey)

	s.store.Append(conversationID, result.Message, models.SenderAssistant, &conversation.AppendOptions{
		Tokens:         &result.Tokens,
		ResponseTimeMs: result.ResponseTimeMs,
		Quality:        &score,
	})

	s.usage.Record(result.Tokens.Total, score.Overall)
	if s.metrics != nil {
		s.metrics.ObserveSuccess(result.Tokens.Total, score.Overall, result.ResponseTimeMs)
	}

	log.Info("chat turn completed",
		"total_tokens", result.Tokens.Total,
		"quality_score", score.Overall,
		"response_time_ms", result.ResponseTimeMs,
	)

	return &ChatResponse{
		Success:          true,
		ConversationID:   conversationID,
		Message:          result.Message,
		Model:            result.Model,
		Tokens:           &result.Tokens,
		ResponseTimeMs:   result.ResponseTimeMs,
		Quality:          &score,
		Feedback:         feedback,
		FollowUpQuestion: followUp,
		Stats:            s.usage.Snapshot(),
		Timestamp:        time.Now(),
	}
}

func (s *ChatService) failure(log *logger.Logger, conversationID string, err error) *ChatResponse {
	errType := llm.ErrorUnknown
	userMessage := ""
	var responseTime int64

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		errType = llmErr.Type
		userMessage = llmErr.UserMessage()
		responseTime = llmErr.ResponseTimeMs
	} else {
		userMessage = (&llm.Error{Type: llm.ErrorUnknown}).UserMessage()
	}

	if s.metrics != nil {
		s.metrics.ObserveFailure(string(errType), responseTime)
	}

	log.Warn("chat turn failed", "error_type", string(errType), "error", err.Error())

	return &ChatResponse{
		Success:        false,
		ConversationID: conversationID,
		Message:        userMessage,
		Error:          userMessage,
		ErrorType:      string(errType),
		ResponseTimeMs: responseTime,
		Stats:          s.usage.Snapshot(),
		Timestamp:      time.Now(),
	}
}
