package conversation

import (
	"math"

	"ml-course-assistant/backend/internal/models"
)

// Stats computes derived statistics for a conversation, or false when the
// conversation is unknown. Averages are per assistant message, rounded to the
// nearest integer, and zero when there are no assistant messages.
func (s *Store) Stats(conversationID string) (models.ConversationStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return models.ConversationStats{}, false
	}

	msgs := s.messages[conversationID]
	stats := models.ConversationStats{TotalMessages: len(msgs)}

	for _, m := range msgs {
		switch m.Sender {
		case models.SenderUser:
			stats.UserMessages++
		case models.SenderAssistant:
			stats.AssistantMessages++
			if m.Tokens != nil {
				stats.TotalTokens += m.Tokens.Total
			}
			stats.TotalResponseTimeMs += m.ResponseTimeMs
		}
	}

	if stats.AssistantMessages > 0 {
		n := float64(stats.AssistantMessages)
		stats.AverageTokensPerResponse = int(math.Round(float64(stats.TotalTokens) / n))
		stats.AverageResponseTimeMs = int64(math.Round(float64(stats.TotalResponseTimeMs) / n))
	}

	return stats, true
}
