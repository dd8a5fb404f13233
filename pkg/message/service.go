package message

import (
	"time"

	"messengerclone/pkg/user"
)

const defaultPageSize = 50

type ServiceInterface interface {
	Create(chatID int64, sender *user.User, content, messageType string) (*Message, error)
	ChatMessages(chatID int64, limit, offset int) ([]*Message, error)
	MarkRead(id string, userID int64) error
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repo: repo}
}

func (s *Service) Create(chatID int64, sender *user.User, content, messageType string) (*Message, error) {
	if messageType == "" {
		messageType = "text"
	}
	now := time.Now()
	msg := &Message{
		ChatID:      chatID,
		Sender:      SenderOf(sender),
		Content:     content,
		MessageType: messageType,
		ReadBy:      make([]int64, 0, 1),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) ChatMessages(chatID int64, limit, offset int) ([]*Message, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ChatMessages(chatID, limit, offset)
}

func (s *Service) MarkRead(id string, userID int64) error {
	return s.Repo.MarkRead(id, userID)
}
