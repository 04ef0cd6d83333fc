package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ml-course-assistant/backend/internal/models"
	"ml-course-assistant/backend/pkg/logger"
)

func newTestStore(t *testing.T, snapshotDir string) *Store {
	t.Helper()
	return New(logger.New(logger.Config{Level: "error"}), snapshotDir)
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t, "")

	id := s.Create("user-1", "CS229", "regression")
	assert.True(t, strings.HasPrefix(id, "conv_"))

	conv, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "user-1", conv.UserID)
	assert.Equal(t, "CS229: regression", conv.Title)
	assert.Equal(t, 0, conv.MessageCount)
	assert.Equal(t, conv.CreatedAt, conv.UpdatedAt)
}

func TestAppendUpdatesMetadata(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "regression")

	msg := s.Append(id, "what is overfitting?", models.SenderUser, nil)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, id, msg.ConversationID)

	s.Append(id, "Overfitting is when the model memorizes.", models.SenderAssistant, nil)

	conv, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, 2, conv.MessageCount)
	assert.False(t, conv.UpdatedAt.Before(conv.CreatedAt))

	msgs := s.Messages(id)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderUser, msgs[0].Sender)
	assert.Equal(t, models.SenderAssistant, msgs[1].Sender)
}

func TestAppendToUnknownConversationStoresMessage(t *testing.T) {
	s := newTestStore(t, "")

	s.Append("conv_missing", "hello", models.SenderUser, nil)

	_, ok := s.Get("conv_missing")
	assert.False(t, ok)
	assert.Len(t, s.Messages("conv_missing"), 1)
}

func TestDeleteAlwaysSucceeds(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "default")
	s.Append(id, "hi", models.SenderUser, nil)

	assert.True(t, s.Delete(id))

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Empty(t, s.Messages(id))

	// Unknown ids are a no-op that still reports success.
	assert.True(t, s.Delete("conv_never_existed"))
}

func TestAppendAfterDeleteIsTolerated(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "default")
	s.Delete(id)

	s.Append(id, "late message", models.SenderUser, nil)

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Len(t, s.Messages(id), 1)
}

func TestListByUser(t *testing.T) {
	s := newTestStore(t, "")
	s.Create("alice", "CS229", "regression")
	s.Create("alice", "CS229", "classification")
	s.Create("bob", "CS229", "default")

	assert.Len(t, s.ListByUser("alice"), 2)
	assert.Len(t, s.ListByUser("bob"), 1)
	assert.Empty(t, s.ListByUser("carol"))
}

func TestStats(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "regression")

	s.Append(id, "question one", models.SenderUser, nil)
	s.Append(id, "answer one", models.SenderAssistant, &AppendOptions{
		Tokens:         &models.TokenUsage{Prompt: 50, Completion: 50, Total: 100},
		ResponseTimeMs: 500,
	})
	s.Append(id, "question two", models.SenderUser, nil)
	s.Append(id, "answer two", models.SenderAssistant, &AppendOptions{
		Tokens:         &models.TokenUsage{Prompt: 80, Completion: 120, Total: 200},
		ResponseTimeMs: 700,
	})

	stats, ok := s.Stats(id)
	require.True(t, ok)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 2, stats.UserMessages)
	assert.Equal(t, 2, stats.AssistantMessages)
	assert.Equal(t, 300, stats.TotalTokens)
	assert.Equal(t, int64(1200), stats.TotalResponseTimeMs)
	assert.Equal(t, 150, stats.AverageTokensPerResponse)
	assert.Equal(t, int64(600), stats.AverageResponseTimeMs)
}

func TestStatsUnknownConversation(t *testing.T) {
	s := newTestStore(t, "")

	_, ok := s.Stats("conv_missing")
	assert.False(t, ok)
}

func TestStatsWithoutAssistantMessages(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "default")
	s.Append(id, "anyone there?", models.SenderUser, nil)

	stats, ok := s.Stats(id)
	require.True(t, ok)
	assert.Equal(t, 1, stats.TotalMessages)
	assert.Equal(t, 0, stats.AverageTokensPerResponse)
	assert.Equal(t, int64(0), stats.AverageResponseTimeMs)
}

func TestSearchInConversation(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "regression")
	s.Append(id, "What is Gradient Descent?", models.SenderUser, nil)
	s.Append(id, "Gradient descent minimizes the cost function.", models.SenderAssistant, nil)
	s.Append(id, "Thanks!", models.SenderUser, nil)

	matches := s.SearchInConversation(id, "gradient")
	require.Len(t, matches, 2)
	assert.Equal(t, "What is Gradient Descent?", matches[0].Content)

	assert.Empty(t, s.SearchInConversation(id, "dropout"))
	assert.Empty(t, s.SearchInConversation("conv_missing", "gradient"))
}

func TestSearchAllForUser(t *testing.T) {
	s := newTestStore(t, "")

	first := s.Create("alice", "CS229", "regression")
	s.Append(first, "explain overfitting", models.SenderUser, nil)
	s.Append(first, "Overfitting happens when the model memorizes noise.", models.SenderAssistant, nil)
	s.Append(first, "how do I detect overfitting?", models.SenderUser, nil)

	second := s.Create("alice", "CS229", "classification")
	s.Append(second, "what is a confusion matrix?", models.SenderUser, nil)

	other := s.Create("bob", "CS229", "regression")
	s.Append(other, "overfitting question from bob", models.SenderUser, nil)

	results := s.SearchAllForUser("alice", "overfitting")
	require.Len(t, results, 1)
	assert.Equal(t, first, results[0].ConversationID)
	assert.Equal(t, "CS229: regression", results[0].Title)
	assert.Equal(t, 3, results[0].MatchCount)
	assert.Len(t, results[0].Messages, 3)
}

func TestExportText(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "regression")
	s.Append(id, "what is overfitting?", models.SenderUser, nil)
	s.Append(id, "It means the model memorizes training data.", models.SenderAssistant, &AppendOptions{
		Tokens:         &models.TokenUsage{Total: 100},
		ResponseTimeMs: 500,
	})

	text, ok := s.ExportText(id)
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(text, "Conversation: CS229: regression\n"))
	assert.Contains(t, text, "Course: CS229\n")
	assert.Contains(t, text, "Module: regression\n")
	assert.Contains(t, text, "Messages: 2\n")
	assert.Contains(t, text, "] You:\nwhat is overfitting?\n")
	assert.Contains(t, text, "] Assistant:\nIt means the model memorizes training data.\n")
	assert.Contains(t, text, "(tokens: 100, response time: 500ms)")
}

func TestExportStructured(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("user-1", "CS229", "regression")
	s.Append(id, "hi", models.SenderUser, nil)

	export, ok := s.ExportStructured(id)
	require.True(t, ok)
	assert.Equal(t, id, export.Conversation.ID)
	assert.Len(t, export.Messages, 1)
	assert.False(t, export.ExportedAt.IsZero())

	_, ok = s.ExportStructured("conv_missing")
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s1 := newTestStore(t, dir)
	id := s1.Create("alice", "CS229", "regression")
	s1.Append(id, "persist me", models.SenderUser, nil)
	s1.Append(id, "persisted.", models.SenderAssistant, &AppendOptions{
		Tokens:         &models.TokenUsage{Total: 42},
		ResponseTimeMs: 120,
	})

	s2 := newTestStore(t, dir)

	conv, ok := s2.Get(id)
	require.True(t, ok)
	assert.Equal(t, "alice", conv.UserID)
	assert.Equal(t, 2, conv.MessageCount)

	msgs := s2.Messages(id)
	require.Len(t, msgs, 2)
	assert.Equal(t, "persist me", msgs[0].Content)
	require.NotNil(t, msgs[1].Tokens)
	assert.Equal(t, 42, msgs[1].Tokens.Total)
}

func TestSnapshotDeleteIsMirrored(t *testing.T) {
	dir := t.TempDir()

	s1 := newTestStore(t, dir)
	id := s1.Create("alice", "CS229", "default")
	s1.Delete(id)

	s2 := newTestStore(t, dir)
	_, ok := s2.Get(id)
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	s := newTestStore(t, "")
	id := s.Create("alice", "CS229", "default")
	s.Append(id, "hi", models.SenderUser, nil)

	s.Reset()

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Empty(t, s.ListByUser("alice"))
}
