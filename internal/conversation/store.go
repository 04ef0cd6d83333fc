// Package conversation owns conversation and message records: creation,
// tolerant appends, search, derived statistics, export views, and optional
// JSON snapshot persistence. The in-memory maps are authoritative for the
// running process; snapshots are a best-effort mirror.
package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ml-course-assistant/backend/internal/models"
	"ml-course-assistant/backend/pkg/logger"
)

// AppendOptions carries the optional attributes of an assistant message.
type AppendOptions struct {
	Tokens         *models.TokenUsage
	ResponseTimeMs int64
	Quality        *models.QualityScore
}

// Store holds all conversations and their message sequences. All exported
// methods are safe for concurrent use; each one is atomic with respect to the
// others.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message

	snapshotDir string
	log         *logger.Logger
}

// New creates a store. When snapshotDir is non-empty, existing snapshots are
// loaded from it and every mutation rewrites them; load or write failures are
// logged and the in-memory state stays authoritative.
func New(log *logger.Logger, snapshotDir string) *Store {
	s := &Store{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
		snapshotDir:   snapshotDir,
		log:           log,
	}
	if snapshotDir != "" {
		s.loadSnapshots()
	}
	return s
}

// Reset drops all conversations and messages. Snapshots, when enabled, are
// rewritten empty. Intended for tests and development tooling.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*models.Conversation)
	s.messages = make(map[string][]models.Message)
	s.saveSnapshotsLocked()
}

// Create registers a new conversation and returns its generated id.
func (s *Store) Create(userID, courseCode, moduleName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := "conv_" + uuid.NewString()
	now := time.Now()
	s.conversations[id] = &models.Conversation{
		ID:           id,
		UserID:       userID,
		CourseCode:   courseCode,
		ModuleName:   moduleName,
		Title:        courseCode + ": " + moduleName,
		CreatedAt:    now,
		UpdatedAt:    now,
		MessageCount: 0,
	}
	s.messages[id] = []models.Message{}
	s.saveSnapshotsLocked()

	s.log.Info("conversation created", "conversation_id", id, "user_id", userID)
	return id
}

// Append adds a message to a conversation's sequence and returns it. Appending
// to an id with no registered conversation still stores the message (tolerant
// append); conversation metadata is only updated when it exists.
func (s *Store) Append(conversationID, content string, sender models.Sender, opts *AppendOptions) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.Message{
		ID:             "msg_" + uuid.NewString(),
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		Timestamp:      time.Now(),
	}
	if opts != nil {
		msg.Tokens = opts.Tokens
		msg.ResponseTimeMs = opts.ResponseTimeMs
		msg.Quality = opts.Quality
	}

	s.messages[conversationID] = append(s.messages[conversationID], msg)

	if conv, ok := s.conversations[conversationID]; ok {
		conv.UpdatedAt = msg.Timestamp
		conv.MessageCount = len(s.messages[conversationID])
	}
	s.saveSnapshotsLocked()

	return msg
}

// Get returns a copy of the conversation metadata, or false when unknown.
func (s *Store) Get(conversationID string) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return models.Conversation{}, false
	}
	return *conv, true
}

// ListByUser returns all conversations owned by userID.
func (s *Store) ListByUser(userID string) []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Conversation
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out
}

// Messages returns the conversation's message sequence in chronological order.
func (s *Store) Messages(conversationID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// SearchInConversation returns the messages whose text contains keyword,
// case-insensitively, in chronological order.
func (s *Store) SearchInConversation(conversationID, keyword string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return searchMessages(s.messages[conversationID], keyword)
}

// SearchAllForUser runs a keyword search over every conversation owned by
// userID, omitting conversations with no matches.
func (s *Store) SearchAllForUser(userID, keyword string) []models.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.SearchResult
	for id, conv := range s.conversations {
		if conv.UserID != userID {
			continue
		}
		matches := searchMessages(s.messages[id], keyword)
		if len(matches) == 0 {
			continue
		}
		out = append(out, models.SearchResult{
			ConversationID: id,
			Title:          conv.Title,
			MatchCount:     len(matches),
			Messages:       matches,
		})
	}
	return out
}

// Delete removes a conversation and its message sequence together. Deleting an
// unknown id is a no-op that still reports success.
func (s *Store) Delete(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, conversationID)
	delete(s.messages, conversationID)
	s.saveSnapshotsLocked()

	return true
}

func searchMessages(msgs []models.Message, keyword string) []models.Message {
	needle := strings.ToLower(keyword)
	var out []models.Message
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Content), needle) {
			out = append(out, m)
		}
	}
	return out
}
