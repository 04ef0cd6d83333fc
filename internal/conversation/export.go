package conversation

import (
	"fmt"
	"strings"
	"time"

	"ml-course-assistant/backend/internal/models"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportStructured returns the conversation with its full message sequence and
// an export timestamp, or false when the conversation is unknown.
func (s *Store) ExportStructured(conversationID string) (models.ConversationExport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return models.ConversationExport{}, false
	}

	msgs := make([]models.Message, len(s.messages[conversationID]))
	copy(msgs, s.messages[conversationID])

	return models.ConversationExport{
		Conversation: *conv,
		Messages:     msgs,
		ExportedAt:   time.Now(),
	}, true
}

// ExportText renders the conversation as a plain-text transcript: a header
// block followed by one block per message in chronological order. Returns
// false when the conversation is unknown.
func (s *Store) ExportText(conversationID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation: %s\n", conv.Title)
	fmt.Fprintf(&b, "Course: %s\n", conv.CourseCode)
	fmt.Fprintf(&b, "Module: %s\n", conv.ModuleName)
	fmt.Fprintf(&b, "Created: %s\n", conv.CreatedAt.Local().Format(exportTimeLayout))
	fmt.Fprintf(&b, "Messages: %d\n", conv.MessageCount)

	for _, m := range s.messages[conversationID] {
		label := "You"
		if m.Sender == models.SenderAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "\n[%s] %s:\n%s\n", m.Timestamp.Local().Format(exportTimeLayout), label, m.Content)
		if m.Tokens != nil || m.ResponseTimeMs > 0 {
			var parts []string
			if m.Tokens != nil {
				parts = append(parts, fmt.Sprintf("tokens: %d", m.Tokens.Total))
			}
			if m.ResponseTimeMs > 0 {
				parts = append(parts, fmt.Sprintf("response time: %dms", m.ResponseTimeMs))
			}
			fmt.Fprintf(&b, "(%s)\n", strings.Join(parts, ", "))
		}
	}

	return b.String(), true
}
