package chat

import (
	"time"

	"messengerclone/pkg/message"
	"messengerclone/pkg/user"
)

type Chat struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Username    string    `json:"username,omitempty"`
	Type        string    `json:"type"` // private, group, channel
	Avatar      string    `json:"avatar,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Member struct {
	ID       int64      `json:"id"`
	ChatID   int64      `json:"chatId"`
	UserID   int64      `json:"userId"`
	Role     string     `json:"role"` // admin, member
	JoinedAt time.Time  `json:"joinedAt"`
	User     *user.User `json:"user,omitempty"`
}

// Summary is a chat as shown in the sidebar list.
type Summary struct {
	Chat
	LastMessage *message.Message `json:"lastMessage,omitempty"`
	UnreadCount int              `json:"unreadCount"`
}

type Repository interface {
	Create(chat *Chat) error
	GetByID(id int64) (*Chat, error)
	ChatsOf(userID int64) ([]*Chat, error)
	AddMember(chatID, userID int64, role string) (*Member, error)
	RemoveMember(chatID, userID int64) error
	Members(chatID int64) ([]*Member, error)
	Membership(chatID, userID int64) (*Member, error)
}
