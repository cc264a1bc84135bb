package storage

import (
	"sync"
	"time"
)

// QuestionMessage is the chat message showing a user's current question.
type QuestionMessage struct {
	ChatID     int64
	MessageID  int
	QuestionID string
	SentAt     time.Time
}

// MessageStorage remembers the question message per user so that timer
// events can edit it.
type MessageStorage struct {
	mu       sync.RWMutex
	messages map[string]QuestionMessage
}

func NewMessageStorage() *MessageStorage {
	return &MessageStorage{
		messages: make(map[string]QuestionMessage),
	}
}

func (s *MessageStorage) Store(userID string, chatID int64, messageID int, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[userID] = QuestionMessage{
		ChatID:     chatID,
		MessageID:  messageID,
		QuestionID: questionID,
		SentAt:     time.Now(),
	}
}

func (s *MessageStorage) Get(userID string) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[userID]
	return msg, ok
}

func (s *MessageStorage) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, userID)
}

// GetForQuestion returns the stored message only if it shows questionID.
func (s *MessageStorage) GetForQuestion(userID, questionID string) (QuestionMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[userID]
	if !ok || msg.QuestionID != questionID {
		return QuestionMessage{}, false
	}
	return msg, true
}
