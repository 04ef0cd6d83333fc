package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ml-course-assistant/backend/internal/conversation"
	"ml-course-assistant/backend/internal/llm"
	"ml-course-assistant/backend/internal/models"
	"ml-course-assistant/backend/internal/prompts"
	"ml-course-assistant/backend/internal/usage"
	"ml-course-assistant/backend/pkg/logger"
)

type fakeCompleter struct {
	result     *llm.Result
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, systemPrompt, userMessage string) (*llm.Result, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(completer Completer) (*ChatService, *conversation.Store, *usage.Tracker) {
	log := logger.New(logger.Config{Level: "error"})
	store := conversation.New(log, "")
	registry := prompts.NewRegistryWithRand(rand.New(rand.NewSource(7)))
	tracker := usage.NewTracker()
	return NewChatService(registry, store, completer, tracker, nil, log), store, tracker
}

func TestSendSuccess(t *testing.T) {
	fake := &fakeCompleter{result: &llm.Result{
		Message:        "Overfitting is when the model memorizes the training data. For example, a model that scores 100% on training but 60% on testing.",
		Model:          "llama-3.1-8b-instant",
		Tokens:         models.TokenUsage{Prompt: 50, Completion: 40, Total: 90},
		ResponseTimeMs: 420,
	}}
	svc, store, tracker := newTestService(fake)

	resp := svc.Send(context.Background(), ChatRequest{
		UserID:     "alice",
		Message:    "what is overfitting?",
		CourseCode: "CS229",
		ModuleKey:  "regression",
	})

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, fake.result.Message, resp.Message)
	assert.Equal(t, "llama-3.1-8b-instant", resp.Model)
	require.NotNil(t, resp.Tokens)
	assert.Equal(t, 90, resp.Tokens.Total)
	require.NotNil(t, resp.Quality)
	assert.Len(t, resp.Feedback, 5)
	assert.NotEmpty(t, resp.FollowUpQuestion)
	assert.Equal(t, 1, resp.Stats.RequestCount)
	assert.Equal(t, 90, resp.Stats.TotalTokens)

	// Both sides of the turn are recorded; only the assistant side is scored.
	msgs := store.Messages(resp.ConversationID)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Nil(t, msgs[0].Quality)
	assert.Equal(t, models.SenderAssistant, msgs[1].Sender)
	require.NotNil(t, msgs[1].Quality)
	assert.Equal(t, resp.Quality.Overall, msgs[1].Quality.Overall)

	assert.Equal(t, 1, tracker.Snapshot().RequestCount)
	assert.Contains(t, fake.lastSystem, "Regression Analysis")
	assert.Equal(t, "what is overfitting?", fake.lastUser)
}

func TestSendCreatesConversationWithResolvedModule(t *testing.T) {
	fake := &fakeCompleter{result: &llm.Result{Message: "ok"}}
	svc, store, _ := newTestService(fake)

	resp := svc.Send(context.Background(), ChatRequest{
		UserID:     "alice",
		Message:    "hi",
		CourseCode: "CS229",
		ModuleKey:  "notARealModule",
	})

	conv, ok := store.Get(resp.ConversationID)
	require.True(t, ok)
	assert.Equal(t, prompts.DefaultKey, conv.ModuleName)
	assert.Equal(t, "alice", conv.UserID)
}

func TestSendReusesExistingConversation(t *testing.T) {
	fake := &fakeCompleter{result: &llm.Result{Message: "ok"}}
	svc, store, _ := newTestService(fake)

	id := store.Create("alice", "CS229", "regression")
	resp := svc.Send(context.Background(), ChatRequest{
		UserID:         "alice",
		ConversationID: id,
		Message:        "hi",
		CourseCode:     "CS229",
		ModuleKey:      "regression",
	})

	assert.Equal(t, id, resp.ConversationID)
	assert.Len(t, store.Messages(id), 2)
}

func TestSendUpstreamFailure(t *testing.T) {
	fake := &fakeCompleter{err: &llm.Error{
		Type:           llm.ErrorServer,
		Detail:         "upstream 502",
		ResponseTimeMs: 310,
	}}
	svc, store, tracker := newTestService(fake)

	resp := svc.Send(context.Background(), ChatRequest{
		UserID:     "alice",
		Message:    "what is overfitting?",
		CourseCode: "CS229",
		ModuleKey:  "regression",
	})

	assert.False(t, resp.Success)
	assert.Equal(t, "server", resp.ErrorType)
	assert.Equal(t, "The AI service is having trouble. Please try again shortly.", resp.Error)
	assert.Equal(t, resp.Error, resp.Message)
	assert.Equal(t, int64(310), resp.ResponseTimeMs)
	assert.Nil(t, resp.Quality)
	assert.Empty(t, resp.Feedback)

	// The user message is still recorded; nothing is scored or counted.
	msgs := store.Messages(resp.ConversationID)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Equal(t, 0, tracker.Snapshot().RequestCount)
}

func TestSendNonClassifiedErrorMapsToUnknown(t *testing.T) {
	fake := &fakeCompleter{err: assert.AnError}
	svc, _, _ := newTestService(fake)

	resp := svc.Send(context.Background(), ChatRequest{
		UserID:  "alice",
		Message: "hi",
	})

	assert.False(t, resp.Success)
	assert.Equal(t, "unknown", resp.ErrorType)
	assert.Equal(t, "Sorry, something went wrong processing your request. Please try again.", resp.Error)
}
